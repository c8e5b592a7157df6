package modtool

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type (
	// SampleInfo describes one sample slot. Length, RepeatStart and
	// RepeatLength are in words, i.e. half the byte count. A slot with
	// Length 0 is unused.
	SampleInfo struct {
		Name         string     `json:"name" yaml:"name"`
		Length       uint16     `json:"length" yaml:"length"`
		Finetune     int8       `json:"finetune" yaml:"finetune"`
		Volume       uint8      `json:"volume" yaml:"volume"`
		RepeatStart  uint16     `json:"repeat_start" yaml:"repeat_start"`
		RepeatLength uint16     `json:"repeat_length" yaml:"repeat_length"`
		Data         SampleData `json:"data" yaml:"data,flow"`
	}

	// SampleData is raw signed 8-bit PCM. It is serialized as a list of byte
	// values rather than as base64, so that interchange files stay editable.
	SampleData []byte

	// SampleNumber is a validated logical sample number, 1..31.
	SampleNumber uint8

	// SampleNumberError is returned when a sample number is out of range.
	SampleNumberError struct {
		Value int
	}
)

const (
	MinSampleNumber SampleNumber = 1
	MaxSampleNumber SampleNumber = 31
)

func (e *SampleNumberError) Error() string {
	return fmt.Sprintf("invalid sample number %d, should be %d .. %d", e.Value, MinSampleNumber, MaxSampleNumber)
}

// ParseSampleNumber validates a sample number given by the user.
func ParseSampleNumber(n int) (SampleNumber, error) {
	if n < int(MinSampleNumber) || n > int(MaxSampleNumber) {
		return 0, &SampleNumberError{Value: n}
	}
	return SampleNumber(n), nil
}

// Index returns the slot of the sample number in Module.SampleInfo.
func (n SampleNumber) Index() int {
	return int(n) - 1
}

// ByteLength returns the sample length in bytes.
func (s *SampleInfo) ByteLength() int {
	return int(s.Length) * 2
}

// Used reports whether the slot holds a sample.
func (s *SampleInfo) Used() bool {
	return s.Length > 0
}

// Clear turns the slot into an unused one. Name, finetune and volume are
// kept.
func (s *SampleInfo) Clear() {
	s.Length = 0
	s.RepeatStart = 0
	s.RepeatLength = 0
	s.Data = SampleData{}
}

// Copy makes a deep copy of a SampleInfo.
func (s SampleInfo) Copy() SampleInfo {
	if s.Data != nil {
		data := make(SampleData, len(s.Data))
		copy(data, s.Data)
		s.Data = data
	}
	return s
}

func (d SampleData) MarshalJSON() ([]byte, error) {
	ret := make([]byte, 0, len(d)*4+2)
	ret = append(ret, '[')
	for i, b := range d {
		if i > 0 {
			ret = append(ret, ',')
		}
		ret = strconv.AppendUint(ret, uint64(b), 10)
	}
	return append(ret, ']'), nil
}

func (d *SampleData) UnmarshalJSON(data []byte) error {
	var values []int
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("sample data should be a list of byte values: %w", err)
	}
	return d.fromInts(values)
}

func (d SampleData) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, b := range d {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(int(b))})
	}
	return node, nil
}

func (d *SampleData) UnmarshalYAML(node *yaml.Node) error {
	var values []int
	if err := node.Decode(&values); err != nil {
		return fmt.Errorf("sample data should be a list of byte values: %w", err)
	}
	return d.fromInts(values)
}

func (d *SampleData) fromInts(values []int) error {
	ret := make(SampleData, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return fmt.Errorf("sample data values should be 0 .. 255 (was: %v at %v)", v, i)
		}
		ret[i] = byte(v)
	}
	*d = ret
	return nil
}
