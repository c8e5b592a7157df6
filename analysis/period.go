package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vsariola/modtool"
)

// PeriodTable is a list of reference hardware periods, 12 semitones per
// octave, lowest octave (highest period) first.
type PeriodTable []uint16

// Periods is the five octave reference table. Octave 1 (856 .. 453) is the
// ProTracker octave 1.
var Periods = PeriodTable{
	1712, 1616, 1525, 1440, 1357, 1281, 1209, 1141, 1077, 1017, 961, 907,
	856, 808, 762, 720, 678, 640, 604, 570, 538, 508, 480, 453,
	428, 404, 381, 360, 339, 320, 302, 285, 269, 254, 240, 226,
	214, 202, 190, 180, 170, 160, 151, 143, 135, 127, 120, 113,
	107, 101, 95, 90, 85, 80, 76, 71, 67, 63, 60, 57,
}

var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// spnOffset is added to the table octave when scientific pitch notation is
// requested, making the table's octave 2 (period 428) octave 4.
const spnOffset = 2

var (
	ErrZeroPeriod  = errors.New("period 0 carries no note")
	ErrNoCandidate = errors.New("period table is empty")
)

// Note is the result of resolving a period against a PeriodTable.
type Note struct {
	Name   string // note name without octave, e.g. "C#"
	Octave int
	Index  int  // index of the matched entry in the table
	Exact  bool // the period equals the table entry
}

// String returns the note as e.g. "C#-3"; approximate matches are prefixed
// with "~".
func (n Note) String() string {
	prefix := ""
	if !n.Exact {
		prefix = "~"
	}
	return fmt.Sprintf("%s%s-%d", prefix, n.Name, n.Octave)
}

// Resolve finds the table entry closest to period. When two entries are
// equally close, the first one (the lower note) wins. With spn set the
// octave is given in scientific pitch notation.
func (t PeriodTable) Resolve(period uint16, spn bool) (Note, error) {
	if period == 0 {
		return Note{}, ErrZeroPeriod
	}
	found := -1
	minDiff := 0
	for i, p := range t {
		diff := int(period) - int(p)
		if diff < 0 {
			diff = -diff
		}
		if found == -1 || diff < minDiff {
			found = i
			minDiff = diff
		}
	}
	if found == -1 {
		return Note{}, ErrNoCandidate
	}
	octave := found / len(NoteNames)
	if spn {
		octave += spnOffset
	}
	return Note{
		Name:   NoteNames[found%len(NoteNames)],
		Octave: octave,
		Index:  found,
		Exact:  minDiff == 0,
	}, nil
}

// ResolveNote resolves a period against the standard Periods table.
func ResolveNote(period uint16, spn bool) (Note, error) {
	return Periods.Resolve(period, spn)
}

// PeriodCount is the number of cells using a period.
type PeriodCount struct {
	Period uint16
	Count  int
}

// UsedPeriods returns every nonzero period found in the module's patterns
// with its number of occurrences, sorted by period.
func UsedPeriods(m *modtool.Module) []PeriodCount {
	counts := map[uint16]int{}
	for _, ch := range m.Cells {
		if ch.Period > 0 {
			counts[ch.Period]++
		}
	}
	ret := make([]PeriodCount, 0, len(counts))
	for p, c := range counts {
		ret = append(ret, PeriodCount{Period: p, Count: c})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Period < ret[j].Period })
	return ret
}
