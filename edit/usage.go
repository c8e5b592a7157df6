// Package edit implements the destructive module transformations: pruning
// unused patterns and samples, merging modules into one timeline and
// inserting marker commands. Every operation works on the whole Module and
// keeps the pattern and sample cross references consistent.
package edit

import (
	"fmt"

	"github.com/vsariola/modtool"
)

// IntegrityWarning reports a channel that refers to a sample number outside
// 1..31. The reference is never corrected, only reported.
type IntegrityWarning struct {
	Pattern, Row, Channel int
	Value                 int
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("invalid sample number in pattern %d row %d channel %d: %d", w.Pattern, w.Row, w.Channel, w.Value)
}

// sampleSet is the set of referenced sample numbers; index 0 is never set.
type sampleSet [modtool.MaxSampleNumber + 1]bool

func (s *sampleSet) add(n modtool.SampleNumber) { s[n] = true }

func (s *sampleSet) has(n int) bool {
	if n < int(modtool.MinSampleNumber) || n > int(modtool.MaxSampleNumber) {
		return false
	}
	return s[n]
}

// FindUnusedPatterns returns, in ascending order, the indices of the
// patterns that do not appear in the active part of the play order.
func FindUnusedPatterns(m *modtool.Module) []int {
	var unused []int
	for i := range m.Patterns {
		if !m.Positions.Contains(int(m.Length), i) {
			unused = append(unused, i)
		}
	}
	return unused
}

// FindUnusedSamples returns, in ascending order, the 1-based numbers of the
// sample slots 1..31 that no channel of any pattern refers to. Channels
// referring to a sample number above 31 are reported as warnings; they do
// not affect the result.
func FindUnusedSamples(m *modtool.Module) ([]int, []IntegrityWarning) {
	var used sampleSet
	var warnings []IntegrityWarning
	for cell, ch := range m.Cells {
		if ch.SampleNumber == 0 {
			continue
		}
		n, err := modtool.ParseSampleNumber(int(ch.SampleNumber))
		if err != nil {
			warnings = append(warnings, IntegrityWarning{Pattern: cell.Pattern, Row: cell.Row, Channel: cell.Channel, Value: int(ch.SampleNumber)})
			continue
		}
		used.add(n)
	}
	// slots above 31 cannot be addressed by a valid reference and are never
	// reported, so pruning leaves them in place
	last := min(len(m.SampleInfo), int(modtool.MaxSampleNumber))
	var unused []int
	for i := 1; i <= last; i++ {
		if !used.has(i) {
			unused = append(unused, i)
		}
	}
	return unused, warnings
}
