package modtool

import (
	"errors"
	"fmt"
)

type (
	// Module is a decoded tracker module: the song name, the play order of
	// patterns (Positions, of which only the first Length entries are
	// active), the patterns themselves and the sample slots. Sample slot 0 in
	// SampleInfo is logical sample number 1; sample number 0 in a Channel
	// means "no sample".
	//
	// A Module is produced whole by a codec, edited in place, and handed
	// back to a codec. Pattern indices (in Positions) and sample numbers (in
	// every Channel) are the only cross references, so every edit that
	// changes the length or order of Patterns or SampleInfo must renumber
	// them.
	Module struct {
		Name       string        `json:"name" yaml:"name"`
		Length     uint8         `json:"length" yaml:"length"`
		Positions  PositionTable `json:"positions" yaml:"positions"`
		Patterns   []Pattern     `json:"patterns" yaml:"patterns"`
		SampleInfo []SampleInfo  `json:"sample_info" yaml:"sample_info"`

		// Origin tells which on-disk format the module was decoded from. It
		// is informative only; no edit or analysis depends on it.
		Origin Origin `json:"origin,omitempty" yaml:"origin,omitempty"`
	}

	// Pattern is a grid of note cells playable as a unit, usually 64 rows.
	Pattern struct {
		Rows []Row `json:"rows" yaml:"rows"`
	}

	// Row is one time step across all channels of a pattern.
	Row struct {
		Channels []Channel `json:"channels" yaml:"channels,flow"`
	}

	// Channel is a single note cell: the hardware period (0 = none), the
	// sample number (0 = none) and a packed 12-bit effect.
	Channel struct {
		Period       uint16 `json:"period" yaml:"period"`
		SampleNumber uint8  `json:"sample_number" yaml:"sample_number"`
		Effect       Effect `json:"effect" yaml:"effect"`
	}

	// Origin is the on-disk format a Module was read from. The zero value is
	// treated as ProTracker.
	Origin string
)

const (
	ProTracker    Origin = "protracker"
	PackedRuntime Origin = "p61a"
)

// ErrInvalidModule is wrapped by every error returned from Validate.
var ErrInvalidModule = errors.New("invalid module")

func (o Origin) String() string {
	switch o {
	case PackedRuntime:
		return "The Player 6.1A"
	default:
		return "ProTracker"
	}
}

// ActivePositions returns the active part of the position table, i.e. the
// song play order. The returned slice aliases the table.
func (m *Module) ActivePositions() []uint8 {
	l := int(m.Length)
	if l > MaxPositions {
		l = MaxPositions
	}
	return m.Positions.Data[:l]
}

// NumChannels returns the number of channels in the first row of the first
// pattern, or 0 if the module has no pattern data at all.
func (m *Module) NumChannels() int {
	if len(m.Patterns) == 0 || len(m.Patterns[0].Rows) == 0 {
		return 0
	}
	return len(m.Patterns[0].Rows[0].Channels)
}

// UsedSampleCount returns the number of sample slots with a nonzero length.
func (m *Module) UsedSampleCount() int {
	ret := 0
	for _, si := range m.SampleInfo {
		if si.Used() {
			ret++
		}
	}
	return ret
}

// Cells calls yield for every channel of every row of every pattern, in
// pattern, row, channel order, until yield returns false. The Channel
// pointer can be used to modify the cell in place.
func (m *Module) Cells(yield func(Cell, *Channel) bool) {
	for p := range m.Patterns {
		for r := range m.Patterns[p].Rows {
			row := &m.Patterns[p].Rows[r]
			for c := range row.Channels {
				if !yield(Cell{Pattern: p, Row: r, Channel: c}, &row.Channels[c]) {
					return
				}
			}
		}
	}
}

// Validate checks the structural invariants the edit operations rely on:
// the play order length fits the position table and every active position
// addresses an existing pattern.
func (m *Module) Validate() error {
	if int(m.Length) > MaxPositions {
		return fmt.Errorf("%w: length %d exceeds the position table capacity %d", ErrInvalidModule, m.Length, MaxPositions)
	}
	for i, p := range m.ActivePositions() {
		if int(p) >= len(m.Patterns) {
			return fmt.Errorf("%w: position %d refers to pattern %d, but there are only %d patterns", ErrInvalidModule, i, p, len(m.Patterns))
		}
	}
	return nil
}

// Copy makes a deep copy of a Module. Nil slices stay nil.
func (m *Module) Copy() *Module {
	var patterns []Pattern
	if m.Patterns != nil {
		patterns = make([]Pattern, len(m.Patterns))
		for i, p := range m.Patterns {
			patterns[i] = p.Copy()
		}
	}
	var samples []SampleInfo
	if m.SampleInfo != nil {
		samples = make([]SampleInfo, len(m.SampleInfo))
		for i, s := range m.SampleInfo {
			samples[i] = s.Copy()
		}
	}
	return &Module{
		Name:       m.Name,
		Length:     m.Length,
		Positions:  m.Positions,
		Patterns:   patterns,
		SampleInfo: samples,
		Origin:     m.Origin,
	}
}
