package modtool_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/vsariola/modtool"
	"gopkg.in/yaml.v3"
)

func TestValidate(t *testing.T) {
	m := &modtool.Module{Length: 2, Patterns: []modtool.Pattern{modtool.NewPattern(1, 1)}}
	m.Positions.Data[1] = 1
	if err := m.Validate(); !errors.Is(err, modtool.ErrInvalidModule) {
		t.Fatalf("expected ErrInvalidModule, got: %v", err)
	}
	m.Positions.Data[1] = 0
	m.Positions.Data[2] = 7 // inactive, not checked
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Length = 129
	if err := m.Validate(); !errors.Is(err, modtool.ErrInvalidModule) {
		t.Fatalf("expected ErrInvalidModule for an overlong play order, got: %v", err)
	}
}

func TestCopyIsDeep(t *testing.T) {
	m := &modtool.Module{Name: "a", Length: 1, Patterns: []modtool.Pattern{modtool.NewPattern(2, 2)}}
	m.SampleInfo = []modtool.SampleInfo{{Length: 1, Data: modtool.SampleData{1, 2}}}
	c := m.Copy()
	if !reflect.DeepEqual(c, m) {
		t.Fatalf("copy differs. got: %v expected: %v", spew.Sdump(c), spew.Sdump(m))
	}
	c.Patterns[0].Rows[1].Channels[1].Period = 428
	c.SampleInfo[0].Data[0] = 9
	c.Positions.Data[0] = 5
	if m.Patterns[0].Rows[1].Channels[1].Period != 0 || m.SampleInfo[0].Data[0] != 1 || m.Positions.Data[0] != 0 {
		t.Fatalf("modifying the copy changed the original: %v", spew.Sdump(m))
	}
}

func TestCells(t *testing.T) {
	m := &modtool.Module{Patterns: []modtool.Pattern{modtool.NewPattern(2, 2), modtool.NewPattern(1, 2)}}
	var got []modtool.Cell
	for cell, ch := range m.Cells {
		ch.Effect = 1
		got = append(got, cell)
		if len(got) == 5 {
			break
		}
	}
	expected := []modtool.Cell{{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1}, {1, 0, 0}}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("wrong cell order. got: %v expected: %v", got, expected)
	}
	if m.Patterns[1].Rows[0].Channels[0].Effect != 1 || m.Patterns[1].Rows[0].Channels[1].Effect != 0 {
		t.Fatalf("cells should be modified in place and iteration should stop on break")
	}
}

func TestNewPatternRowsDoNotAlias(t *testing.T) {
	p := modtool.NewPattern(2, 3)
	p.Rows[0].Channels = append(p.Rows[0].Channels, modtool.Channel{Period: 1})
	if p.Rows[1].Channels[0].Period != 0 {
		t.Fatal("appending to a row overwrote the next row")
	}
}

func TestEffect(t *testing.T) {
	e := modtool.Effect(0x0E85)
	if e.Family() != 0xE || e.SubFamily() != 8 || e.Param() != 0x85 || !e.IsMarker() {
		t.Fatalf("wrong decoding of %#x", uint16(e))
	}
	if modtool.Effect(0x0E90).IsMarker() || modtool.Effect(0x0F80).IsMarker() {
		t.Fatal("only E8x should be a marker")
	}
}

func TestPositionTable(t *testing.T) {
	var pt modtool.PositionTable
	if !pt.Set(3, 9) || pt.Data[3] != 9 {
		t.Fatal("set failed")
	}
	if pt.Set(modtool.MaxPositions, 1) || pt.Set(-1, 1) {
		t.Fatal("out of range positions should be rejected")
	}
	if pt.Contains(3, 9) || !pt.Contains(4, 9) {
		t.Fatal("Contains should only look at the first length entries")
	}
}

func TestParseSampleNumber(t *testing.T) {
	for _, n := range []int{0, 32, -1} {
		var numErr *modtool.SampleNumberError
		if _, err := modtool.ParseSampleNumber(n); !errors.As(err, &numErr) || numErr.Value != n {
			t.Errorf("%v: expected a SampleNumberError, got: %v", n, err)
		}
	}
	n, err := modtool.ParseSampleNumber(31)
	if err != nil || n.Index() != 30 {
		t.Fatalf("31 should be valid with index 30, got: %v %v", n, err)
	}
}

func TestSampleDataEncoding(t *testing.T) {
	d := modtool.SampleData{0, 1, 128, 255}
	j, err := json.Marshal(d)
	if err != nil || string(j) != "[0,1,128,255]" {
		t.Fatalf("wrong json: %s (%v)", j, err)
	}
	y, err := yaml.Marshal(d)
	if err != nil || string(y) != "[0, 1, 128, 255]\n" {
		t.Fatalf("wrong yaml: %q (%v)", y, err)
	}
	var fromYaml modtool.SampleData
	if err := yaml.Unmarshal(y, &fromYaml); err != nil || !reflect.DeepEqual(fromYaml, d) {
		t.Fatalf("yaml decode failed: %v (%v)", fromYaml, err)
	}
	var fromJSON modtool.SampleData
	if err := json.Unmarshal([]byte("[1,-1]"), &fromJSON); err == nil {
		t.Fatal("negative sample values should be rejected")
	}
}

func TestSampleClear(t *testing.T) {
	s := modtool.SampleInfo{Name: "x", Length: 2, Finetune: 3, Volume: 40, RepeatStart: 1, RepeatLength: 1, Data: modtool.SampleData{1, 2, 3, 4}}
	s.Clear()
	expected := modtool.SampleInfo{Name: "x", Finetune: 3, Volume: 40, Data: modtool.SampleData{}}
	if !reflect.DeepEqual(s, expected) {
		t.Fatalf("wrong cleared sample. got: %+v expected: %+v", s, expected)
	}
}

func TestCopyKeepsNilSlices(t *testing.T) {
	m := &modtool.Module{Patterns: []modtool.Pattern{{}, {Rows: []modtool.Row{{}}}}}
	m.SampleInfo = nil
	c := m.Copy()
	if c.SampleInfo != nil || c.Patterns[0].Rows != nil || c.Patterns[1].Rows[0].Channels != nil {
		t.Fatalf("nil slices should stay nil: %v", spew.Sdump(c))
	}
	if !reflect.DeepEqual(c, m) {
		t.Fatalf("copy differs. got: %v expected: %v", spew.Sdump(c), spew.Sdump(m))
	}
	s := modtool.SampleInfo{Name: "x"}
	if s.Copy().Data != nil {
		t.Fatal("nil sample data should stay nil")
	}
}
