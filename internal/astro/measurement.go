package astro

// Source names used in shape-mismatch errors.
const (
	SourceHistorical = "historical"
	SourceCatalog    = "catalog"
	SourceGround     = "ground"
)

// Input is the raw, caller-supplied form of a measurement set. Optional
// sources may be nil or empty; the historical series is mandatory.
type Input struct {
	HistX     []float64
	HistY     []float64
	HistDates []float64

	CatalogX []float64
	CatalogY []float64

	GroundX []float64
	GroundY []float64

	// Prediction is a single forecasted position, or nil when absent.
	Prediction *Point
}

// MeasurementSet is the normalized form of up to four measurement
// sources. All slices are defensive copies; absent optional sources are
// empty series rather than nil, and the prediction is nil when absent.
type MeasurementSet struct {
	Historical DatedSeries
	Catalog    Series
	Ground     Series
	Prediction *Point
}

// NewMeasurementSet validates and normalizes a raw input into a
// MeasurementSet. For every source the parallel component arrays must
// agree in length; the check is mandatory for the historical series and
// applies to catalog and ground only when they are supplied non-empty.
// Caller slices are copied, never aliased.
func NewMeasurementSet(in Input) (*MeasurementSet, error) {
	if len(in.HistX) != len(in.HistY) || len(in.HistX) != len(in.HistDates) {
		return nil, newShapeMismatch(SourceHistorical, map[string]int{
			"x":     len(in.HistX),
			"y":     len(in.HistY),
			"dates": len(in.HistDates),
		})
	}

	if (len(in.CatalogX) > 0 || len(in.CatalogY) > 0) && len(in.CatalogX) != len(in.CatalogY) {
		return nil, newShapeMismatch(SourceCatalog, map[string]int{
			"x": len(in.CatalogX),
			"y": len(in.CatalogY),
		})
	}

	if (len(in.GroundX) > 0 || len(in.GroundY) > 0) && len(in.GroundX) != len(in.GroundY) {
		return nil, newShapeMismatch(SourceGround, map[string]int{
			"x": len(in.GroundX),
			"y": len(in.GroundY),
		})
	}

	set := &MeasurementSet{
		Historical: DatedSeries{
			Series: Series{
				X: copyFloats(in.HistX),
				Y: copyFloats(in.HistY),
			},
			Dates: copyFloats(in.HistDates),
		},
		Catalog: Series{
			X: copyFloats(in.CatalogX),
			Y: copyFloats(in.CatalogY),
		},
		Ground: Series{
			X: copyFloats(in.GroundX),
			Y: copyFloats(in.GroundY),
		},
	}

	if in.Prediction != nil {
		p := *in.Prediction
		set.Prediction = &p
	}

	return set, nil
}

// GroundMean returns the reduced ground-observatory point. The second
// return is false when no ground measurements were supplied.
func (m *MeasurementSet) GroundMean() (Point, bool) {
	return m.Ground.Mean()
}

// PlotPoints returns the union of all points that appear on the chart:
// every historical and catalog point, the reduced ground mean, and the
// prediction when present. Raw pre-average ground points are excluded,
// so the window is computed from what is actually drawn.
func (m *MeasurementSet) PlotPoints() []Point {
	points := make([]Point, 0, m.Historical.Len()+m.Catalog.Len()+2)

	for i := 0; i < m.Historical.Len(); i++ {
		points = append(points, m.Historical.Point(i))
	}
	for i := 0; i < m.Catalog.Len(); i++ {
		points = append(points, m.Catalog.Point(i))
	}
	if mean, ok := m.Ground.Mean(); ok {
		points = append(points, mean)
	}
	if m.Prediction != nil {
		points = append(points, *m.Prediction)
	}

	return points
}

// Window computes the square axis range covering every plotted point
// with the given margin fraction. Fails with ErrNoData when the set is
// completely empty.
func (m *MeasurementSet) Window(margin float64) (Range, error) {
	return SquareRange(m.PlotPoints(), margin)
}
