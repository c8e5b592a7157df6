package edit

import (
	"errors"
	"fmt"

	"github.com/vsariola/modtool"
)

// ErrNoFreeCell is returned when a pattern has neither a marker nor an empty
// effect column to put one in.
var ErrNoFreeCell = errors.New("no free effect cell for the marker")

// MarkerResult tells what InsertMarker did to a pattern.
type MarkerResult int

const (
	MarkerPresent  MarkerResult = iota // the pattern already had an E8x command
	MarkerInserted                     // E81 was written to the first free cell
	MarkerFailed                       // no free cell, the pattern is unchanged
)

// PatternError is a per-pattern failure of a batch operation.
type PatternError struct {
	Pattern int
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %d: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// InsertMarker makes sure the pattern carries an E8x command. If there is
// none, E81 is written into the first cell (row-major) whose effect is 0.
// If there is no such cell the pattern is left unchanged and ErrNoFreeCell
// is returned.
func InsertMarker(p *modtool.Pattern) (MarkerResult, error) {
	for _, ch := range p.Cells {
		if ch.Effect.IsMarker() {
			return MarkerPresent, nil
		}
	}
	for _, ch := range p.Cells {
		if ch.Effect == 0 {
			ch.Effect = modtool.MarkerEffect
			return MarkerInserted, nil
		}
	}
	return MarkerFailed, ErrNoFreeCell
}

// InsertMarkers runs InsertMarker on every pattern of the module. Failures
// do not stop the batch; they are returned one per pattern. The results
// slice has one entry per pattern.
func InsertMarkers(m *modtool.Module) ([]MarkerResult, []*PatternError) {
	results := make([]MarkerResult, len(m.Patterns))
	var errs []*PatternError
	for i := range m.Patterns {
		res, err := InsertMarker(&m.Patterns[i])
		results[i] = res
		if err != nil {
			errs = append(errs, &PatternError{Pattern: i, Err: err})
		}
	}
	return results, errs
}
