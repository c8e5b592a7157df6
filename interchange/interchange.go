// Package interchange reads and writes modules as human editable JSON or
// YAML documents.
package interchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsariola/modtool"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	JSON Format = iota
	YAML
)

var ErrUnknownFormat = errors.New("unknown interchange format")

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the file extension used for the format, including the dot.
func (f Format) Ext() string {
	if f == YAML {
		return ".yml"
	}
	return ".json"
}

// ParseFormat parses a format name as given on the command line or in the
// configuration.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format by the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Encoder writes modules in one format. Indent is the indentation unit;
// empty means two spaces.
type Encoder struct {
	Format Format
	Indent string
}

func (e Encoder) Encode(w io.Writer, m *modtool.Module) error {
	switch e.Format {
	case JSON:
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("could not marshal the module as json: %w", err)
		}
		f := Formatter{Indent: e.Indent}
		if err := f.Format(w, data); err != nil {
			return err
		}
		_, err = io.WriteString(w, "\n")
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		indent := len(e.Indent)
		if indent < 2 {
			indent = 2
		}
		enc.SetIndent(indent)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("could not marshal the module as yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %v", ErrUnknownFormat, e.Format)
}

// Write encodes a module with the default indentation.
func Write(w io.Writer, m *modtool.Module, format Format) error {
	return Encoder{Format: format}.Encode(w, m)
}

// Read decodes a module and validates it. Unknown fields are errors, so that
// typos in hand edited files are not silently dropped.
func Read(r io.Reader, format Format) (*modtool.Module, error) {
	var m modtool.Module
	switch format {
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("could not unmarshal json: %w", err)
		}
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("could not unmarshal yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadFile reads a module from disk. Files without a known extension are
// tried as JSON first and then as YAML.
func ReadFile(path string) (*modtool.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %v: %w", path, err)
	}
	if format, err := FormatFromPath(path); err == nil {
		return Read(bytes.NewReader(data), format)
	}
	m, errJSON := Read(bytes.NewReader(data), JSON)
	if errJSON == nil {
		return m, nil
	}
	m, errYaml := Read(bytes.NewReader(data), YAML)
	if errYaml != nil {
		return nil, fmt.Errorf("module could not be unmarshaled as a .json (%v) or .yml (%v)", errJSON, errYaml)
	}
	return m, nil
}

// WriteFile writes a module to disk in the given format.
func WriteFile(path string, m *modtool.Module, e Encoder) error {
	var buf bytes.Buffer
	if err := e.Encode(&buf, m); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("could not write file %v: %w", path, err)
	}
	return nil
}
