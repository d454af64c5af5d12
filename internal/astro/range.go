package astro

// DefaultMargin is the default margin fraction applied around the data
// bounds when computing a plot window.
const DefaultMargin = 0.10

// Range is a square plot window: both axes get an interval of equal
// length, each centered on its own data midpoint, so that one unit on X
// visually equals one unit on Y when drawn in a square region.
type Range struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// Span returns the shared axis length of the window.
func (r Range) Span() float64 {
	return r.XMax - r.XMin
}

// Contains reports whether the point lies within or on the boundary of
// the window.
func (r Range) Contains(p Point) bool {
	return p.X >= r.XMin && p.X <= r.XMax && p.Y >= r.YMin && p.Y <= r.YMax
}

// SquareRange computes the square window covering all points: the span
// is the larger of the data width and height scaled by (1 + margin),
// applied to both axes around each axis's own midpoint. Values pass
// through at full floating-point precision, no rounding or clamping.
// An empty point set fails with ErrNoData.
func SquareRange(points []Point, margin float64) (Range, error) {
	if len(points) == 0 {
		return Range{}, ErrNoData
	}

	xMin, xMax := points[0].X, points[0].X
	yMin, yMax := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < xMin {
			xMin = p.X
		}
		if p.X > xMax {
			xMax = p.X
		}
		if p.Y < yMin {
			yMin = p.Y
		}
		if p.Y > yMax {
			yMax = p.Y
		}
	}

	width := xMax - xMin
	height := yMax - yMin
	span := width
	if height > span {
		span = height
	}
	span *= 1 + margin

	half := span / 2
	xCenter := (xMin + xMax) / 2
	yCenter := (yMin + yMax) / 2

	return Range{
		XMin: xCenter - half,
		XMax: xCenter + half,
		YMin: yCenter - half,
		YMax: yCenter + half,
	}, nil
}
