package edit

import (
	"github.com/vsariola/modtool"
)

// RemoveUnusedPatterns deletes every pattern that is not in the active play
// order and renumbers the active positions so that each one still addresses
// the same pattern content. It returns the removed (old) indices in
// ascending order.
//
// The result is the same as removing the unused patterns one at a time,
// highest index first, and decrementing every position above the removed
// index after each removal. Positions beyond Module.Length are left as they
// were.
func RemoveUnusedPatterns(m *modtool.Module) []int {
	unused := FindUnusedPatterns(m)
	if len(unused) == 0 {
		return nil
	}
	newIndex := compactionMap(len(m.Patterns), unused)
	patterns := make([]modtool.Pattern, 0, len(m.Patterns)-len(unused))
	for i, pat := range m.Patterns {
		if newIndex[i] >= 0 {
			patterns = append(patterns, pat)
		}
	}
	m.Patterns = patterns
	for i, p := range m.ActivePositions() {
		// active positions never point to a removed pattern, by definition
		// of unused
		if int(p) < len(newIndex) {
			m.Positions.Set(i, uint8(newIndex[p]))
		}
	}
	return unused
}

// RemoveUnusedSamples deletes every sample slot that no channel refers to,
// moves the cleared slots to the end of Module.SampleInfo and renumbers the
// sample references of every channel. The used samples keep their relative
// order at the front; the cleared slots follow in descending order of their
// original number, which is the order produced by removing the highest
// unused sample first and appending it to the end each time.
//
// It returns the removed sample numbers in ascending order, and the integrity
// warnings found while scanning.
func RemoveUnusedSamples(m *modtool.Module) ([]int, []IntegrityWarning) {
	unused, warnings := FindUnusedSamples(m)
	if len(unused) == 0 {
		return nil, warnings
	}
	samples := make([]modtool.SampleInfo, 0, len(m.SampleInfo))
	isUnused := make([]bool, len(m.SampleInfo))
	for _, n := range unused {
		isUnused[n-1] = true
	}
	for i, si := range m.SampleInfo {
		if !isUnused[i] {
			samples = append(samples, si)
		}
	}
	for i := len(unused) - 1; i >= 0; i-- {
		si := m.SampleInfo[unused[i]-1]
		si.Clear()
		samples = append(samples, si)
	}
	m.SampleInfo = samples
	for _, ch := range m.Cells {
		ch.SampleNumber = renumberSample(ch.SampleNumber, unused)
	}
	return unused, warnings
}

// compactionMap returns the new index of every element 0..n-1 once the
// (ascending) removed indices are dropped; removed elements map to -1.
func compactionMap(n int, removed []int) []int {
	ret := make([]int, n)
	next, r := 0, 0
	for i := range ret {
		if r < len(removed) && removed[r] == i {
			ret[i] = -1
			r++
			continue
		}
		ret[i] = next
		next++
	}
	return ret
}

// renumberSample shifts a sample reference down by the number of removed
// sample numbers below it. References to removed numbers cannot occur, and
// 0 (no sample) stays 0. Out of range references are shifted as well.
func renumberSample(number uint8, removed []int) uint8 {
	if number == 0 {
		return 0
	}
	shift := 0
	for _, r := range removed {
		if r >= int(number) {
			break
		}
		shift++
	}
	return number - uint8(shift)
}
