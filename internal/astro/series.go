// Package astro normalizes double-star relative-astrometry measurement
// sets for charting: parallel-array validation, reduction of averaged
// sources to a single mean point, and computation of the square plot
// window shared by both axes.
//
// Coordinates are angular offsets of the secondary star relative to the
// primary, in arcseconds. Observation dates are fractional years.
package astro

// Point is a single relative position in arcseconds.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is an ordered sequence of relative positions stored as
// parallel X and Y slices of equal length.
type Series struct {
	X []float64
	Y []float64
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.X)
}

// Empty reports whether the series holds no points.
func (s Series) Empty() bool {
	return len(s.X) == 0
}

// Point returns the i-th point of the series.
func (s Series) Point(i int) Point {
	return Point{X: s.X[i], Y: s.Y[i]}
}

// Mean reduces the series to the arithmetic mean of its X values and
// the arithmetic mean of its Y values. The second return is false for
// an empty series. Plain floating-point summation, no weighting and no
// outlier rejection: sample counts are a handful of points at most.
func (s Series) Mean() (Point, bool) {
	n := len(s.X)
	if n == 0 {
		return Point{}, false
	}

	sumX := 0.0
	sumY := 0.0
	for i := 0; i < n; i++ {
		sumX += s.X[i]
		sumY += s.Y[i]
	}

	return Point{
		X: sumX / float64(n),
		Y: sumY / float64(n),
	}, true
}

// DatedSeries is a Series with a parallel slice of observation dates in
// fractional years. Dates are used only for color mapping, never for
// ordering or computation.
type DatedSeries struct {
	Series
	Dates []float64
}

// DateRange returns the minimum and maximum observation date. The
// third return is false for an empty series.
func (d DatedSeries) DateRange() (min, max float64, ok bool) {
	if len(d.Dates) == 0 {
		return 0, 0, false
	}

	min = d.Dates[0]
	max = d.Dates[0]
	for _, v := range d.Dates[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, true
}

// copyFloats returns a defensive copy of src. Nil and empty inputs both
// normalize to an empty non-nil slice.
func copyFloats(src []float64) []float64 {
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}
