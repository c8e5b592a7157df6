package interchange_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/vsariola/modtool"
	"github.com/vsariola/modtool/interchange"
)

func testModule() *modtool.Module {
	m := &modtool.Module{Name: "demo song", Length: 3, Origin: modtool.ProTracker}
	copy(m.Positions.Data[:], []uint8{1, 0, 1})
	for i := 0; i < 2; i++ {
		p := modtool.NewPattern(4, 4)
		p.Rows[i].Channels[i] = modtool.Channel{Period: 428, SampleNumber: 1, Effect: 0x0C20}
		m.Patterns = append(m.Patterns, p)
	}
	m.SampleInfo = []modtool.SampleInfo{
		{Name: "kick", Length: 2, Finetune: -1, Volume: 64, RepeatLength: 1, Data: modtool.SampleData{0, 127, 128, 255}},
		{Name: "", Data: modtool.SampleData{}},
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []interchange.Format{interchange.JSON, interchange.YAML} {
		t.Run(format.String(), func(t *testing.T) {
			m := testModule()
			var buf bytes.Buffer
			if err := interchange.Write(&buf, m, format); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			got, err := interchange.Read(&buf, format)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if !reflect.DeepEqual(got, m) {
				t.Fatalf("round trip changed the module. got: %v expected: %v", spew.Sdump(got), spew.Sdump(m))
			}
		})
	}
}

func TestJSONKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := interchange.Write(&buf, testModule(), interchange.JSON); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()
	for _, key := range []string{`"sample_info": [`, `"sample_number": 1`, `"repeat_start": 0`, `"positions": {`, `"data": [`} {
		if !strings.Contains(out, key) {
			t.Errorf("output does not contain %v", key)
		}
	}
}

func TestFormatter(t *testing.T) {
	input := `{"a":[1,2,3,4,5],"b":[],"c":{},"d":[{"x":true},null],"e":"<s>"}`
	expected := `{
  "a": [
    1, 2,
    3, 4,
    5
  ],
  "b": [],
  "c": {},
  "d": [
    {
      "x": true
    },
    null
  ],
  "e": "<s>"
}`
	var buf bytes.Buffer
	if err := (interchange.Formatter{GroupSize: 2}).Format(&buf, []byte(input)); err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if got := buf.String(); got != expected {
		t.Fatalf("wrong output. got:\n%v\nexpected:\n%v", got, expected)
	}
}

func TestFormatterGroupsSixteen(t *testing.T) {
	values := make([]string, 17)
	for i := range values {
		values[i] = "0"
	}
	var buf bytes.Buffer
	if err := (interchange.Formatter{Indent: "\t"}).Format(&buf, []byte("["+strings.Join(values, ",")+"]")); err != nil {
		t.Fatalf("format failed: %v", err)
	}
	expected := "[\n\t" + strings.Join(values[:16], ", ") + ",\n\t0\n]"
	if got := buf.String(); got != expected {
		t.Fatalf("wrong output. got: %q expected: %q", got, expected)
	}
}

func TestFormatterRejectsInvalid(t *testing.T) {
	for _, input := range []string{`{"a":`, `[1,2]x`, ``} {
		if err := (interchange.Formatter{}).Format(&bytes.Buffer{}, []byte(input)); err == nil {
			t.Errorf("expected an error for %q", input)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, expected := range map[string]interchange.Format{
		"song.json":    interchange.JSON,
		"dir/song.yml": interchange.YAML,
		"SONG.YAML":    interchange.YAML,
	} {
		got, err := interchange.FormatFromPath(path)
		if err != nil || got != expected {
			t.Errorf("%v: got: %v (%v) expected: %v", path, got, err, expected)
		}
	}
	if _, err := interchange.FormatFromPath("song.mod"); !errors.Is(err, interchange.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got: %v", err)
	}
}

func TestReadRejectsInvalidModule(t *testing.T) {
	input := `{"name":"x","length":1,"positions":{"data":[3]},"patterns":[],"sample_info":[]}`
	_, err := interchange.Read(strings.NewReader(input), interchange.JSON)
	if !errors.Is(err, modtool.ErrInvalidModule) {
		t.Fatalf("expected ErrInvalidModule, got: %v", err)
	}
}

func TestReadRejectsUnknownFields(t *testing.T) {
	if _, err := interchange.Read(strings.NewReader(`{"nmae":"x"}`), interchange.JSON); err == nil {
		t.Fatal("expected an error for an unknown json field")
	}
	if _, err := interchange.Read(strings.NewReader("nmae: x\n"), interchange.YAML); err == nil {
		t.Fatal("expected an error for an unknown yaml field")
	}
}

func TestReadRejectsSampleValues(t *testing.T) {
	input := `{"sample_info":[{"data":[256]}]}`
	if _, err := interchange.Read(strings.NewReader(input), interchange.JSON); err == nil {
		t.Fatal("expected an error for a sample value above 255")
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	m := testModule()
	yamlPath := filepath.Join(dir, "song.yml")
	if err := interchange.WriteFile(yamlPath, m, interchange.Encoder{Format: interchange.YAML, Indent: "    "}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := interchange.ReadFile(yamlPath)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("file round trip changed the module. got: %v expected: %v", spew.Sdump(got), spew.Sdump(m))
	}
	// unknown extension falls back to sniffing
	otherPath := filepath.Join(dir, "song.txt")
	data, _ := os.ReadFile(yamlPath)
	if err := os.WriteFile(otherPath, data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := interchange.ReadFile(otherPath); err != nil {
		t.Fatalf("could not sniff the format: %v", err)
	}
}
