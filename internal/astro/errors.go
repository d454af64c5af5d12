package astro

import (
	"errors"
	"fmt"
)

// ErrNoData is returned when a plot window is requested for an empty
// set of points. With a mandatory historical series this should be
// unreachable, but it is guarded rather than silently producing a
// degenerate range.
var ErrNoData = errors.New("no plottable points")

// ShapeMismatchError reports that the parallel arrays of a single
// measurement source disagree in length.
type ShapeMismatchError struct {
	Source  string         // source name: historical, catalog, ground
	Lengths map[string]int // component name -> length
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s arrays must have the same length: %v", e.Source, e.Lengths)
}

// newShapeMismatch builds a ShapeMismatchError from component lengths.
func newShapeMismatch(source string, components map[string]int) *ShapeMismatchError {
	return &ShapeMismatchError{
		Source:  source,
		Lengths: components,
	}
}
