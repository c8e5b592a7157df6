package edit

import (
	"errors"
	"fmt"

	"github.com/vsariola/modtool"
)

var (
	// ErrPositionOverflow is wrapped by CapacityError.
	ErrPositionOverflow = errors.New("play order would exceed the position table capacity")
	// ErrPatternOverflow is returned when a merged position would need a
	// pattern index that does not fit in a byte.
	ErrPatternOverflow = errors.New("merged pattern index would exceed 255")
)

// CapacityError is returned by Merge when appending the play order of a
// source would make the target longer than modtool.MaxPositions.
type CapacityError struct {
	Source int // index of the offending source module
	Length int // the length the play order would have had
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("source %d: %v (%d > %d)", e.Source, ErrPositionOverflow, e.Length, modtool.MaxPositions)
}

func (e *CapacityError) Unwrap() error { return ErrPositionOverflow }

// Merge appends the patterns and the active play order of each source, in
// order, to the target. The positions of a source are offset by the number
// of patterns the target had before that source's patterns were appended.
//
// If sync is set, every appended pattern is first stripped with SyncPattern;
// the target's own patterns are never touched. The sources are not
// modified.
//
// Merge fails with a *CapacityError if the play order would grow beyond
// modtool.MaxPositions. The check is done before a source is applied, but
// sources before it have already been appended: the target must not be
// used after an error.
func Merge(target *modtool.Module, sources []*modtool.Module, sync bool) error {
	for i, src := range sources {
		length := int(target.Length) + int(src.Length)
		if length > modtool.MaxPositions {
			return &CapacityError{Source: i, Length: length}
		}
		offset := len(target.Patterns)
		positions := src.ActivePositions()
		for _, p := range positions {
			if int(p)+offset > 255 {
				return fmt.Errorf("source %d: %w (%d)", i, ErrPatternOverflow, int(p)+offset)
			}
		}
		for _, pat := range src.Patterns {
			pat = pat.Copy()
			if sync {
				SyncPattern(&pat)
			}
			target.Patterns = append(target.Patterns, pat)
		}
		for _, p := range positions {
			target.Positions.Set(int(target.Length), p+uint8(offset))
			target.Length++
		}
	}
	return nil
}

// SyncPattern clears the period and sample of every cell and every effect
// except the transport controls: E8x (marker), Fxx (speed), Dxx (pattern
// break) and Bxx (position jump), which are kept verbatim.
func SyncPattern(p *modtool.Pattern) {
	for _, ch := range p.Cells {
		ch.Period = 0
		ch.SampleNumber = 0
		if !isSyncEffect(ch.Effect) {
			ch.Effect = 0
		}
	}
}

func isSyncEffect(e modtool.Effect) bool {
	if e.IsMarker() {
		return true
	}
	switch e.Family() {
	case 0xF, 0xD, 0xB:
		return true
	}
	return false
}
