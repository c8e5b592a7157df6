package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	defaultIndent    = "  "
	defaultGroupSize = 16
)

// Formatter pretty prints JSON compactly enough for module data: object
// members and container elements go on their own lines, while runs of
// scalar array elements are packed GroupSize to a line. Member order is
// kept as is.
type Formatter struct {
	Indent    string // defaults to two spaces
	GroupSize int    // defaults to 16
}

type jsonNode struct {
	container bool
	object    bool
	scalar    string
	keys      []string
	items     []*jsonNode
}

// Format reformats one JSON value read from data and writes it to w.
func (f Formatter) Format(w io.Writer, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	root, err := parseJSON(dec)
	if err != nil {
		return fmt.Errorf("could not parse json: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("could not parse json: trailing data after the top level value")
	}
	if f.Indent == "" {
		f.Indent = defaultIndent
	}
	if f.GroupSize <= 0 {
		f.GroupSize = defaultGroupSize
	}
	var b strings.Builder
	f.write(&b, root, 0)
	_, err = io.WriteString(w, b.String())
	return err
}

func parseJSON(dec *json.Decoder) (*jsonNode, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		n := &jsonNode{container: true, object: t == '{'}
		for dec.More() {
			if n.object {
				k, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := k.(string)
				if !ok {
					return nil, fmt.Errorf("object key should be a string, got %v", k)
				}
				n.keys = append(n.keys, quote(key))
			}
			child, err := parseJSON(dec)
			if err != nil {
				return nil, err
			}
			n.items = append(n.items, child)
		}
		if _, err := dec.Token(); err != nil { // closing delimiter
			return nil, err
		}
		return n, nil
	case string:
		return &jsonNode{scalar: quote(t)}, nil
	case json.Number:
		return &jsonNode{scalar: t.String()}, nil
	case bool:
		return &jsonNode{scalar: strconv.FormatBool(t)}, nil
	case nil:
		return &jsonNode{scalar: "null"}, nil
	}
	return nil, fmt.Errorf("unexpected json token %v", tok)
}

func quote(s string) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.Encode(s) // encoding a string cannot fail
	return strings.TrimSuffix(b.String(), "\n")
}

func (f Formatter) newline(b *strings.Builder, depth int) {
	b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		b.WriteString(f.Indent)
	}
}

func (f Formatter) write(b *strings.Builder, n *jsonNode, depth int) {
	if !n.container {
		b.WriteString(n.scalar)
		return
	}
	opening, closing := "[", "]"
	if n.object {
		opening, closing = "{", "}"
	}
	b.WriteString(opening)
	if len(n.items) == 0 {
		b.WriteString(closing)
		return
	}
	count := 0
	for i, item := range n.items {
		if n.object || item.container || count == 0 {
			if i > 0 {
				b.WriteByte(',')
			}
			f.newline(b, depth+1)
		} else {
			b.WriteString(", ")
		}
		if n.object {
			b.WriteString(n.keys[i])
			b.WriteString(": ")
		}
		f.write(b, item, depth+1)
		if item.container {
			count = 0
		} else {
			count = (count + 1) % f.GroupSize
		}
	}
	f.newline(b, depth)
	b.WriteString(closing)
}
