// Package chart renders a normalized measurement set as a square
// scatter chart: date-colored historical track, fixed markers for the
// catalog, ground-mean and prediction sources, a vertical color bar
// keyed to observation year, and a legend.
package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/starplotd/starplot/internal/astro"
	"github.com/starplotd/starplot/internal/logging"
)

// Marker colors per source.
var (
	fallbackColor   = color.Black
	catalogColor    = color.RGBA{R: 0xd0, G: 0x20, B: 0x20, A: 0xff}
	groundColor     = color.RGBA{R: 0x20, G: 0x96, B: 0x40, A: 0xff}
	predictionColor = color.RGBA{R: 0x58, G: 0xa8, B: 0xe0, A: 0xff}
)

// Options control chart text, margin and canvas geometry.
type Options struct {
	Title           string
	XLabel          string
	YLabel          string
	ColorBarLabel   string
	CatalogLabel    string
	GroundLabel     string
	PredictionLabel string

	// Margin is the fraction added around the data bounds when
	// computing the square window.
	Margin float64

	// MaxTrackPoints caps the historical series length before plotting;
	// longer tracks are decimated shape-preservingly. Zero disables the
	// cap.
	MaxTrackPoints int

	// Size is the edge length of the square plotting region; the color
	// bar strip is appended to the right of it.
	Size          vg.Length
	ColorBarWidth vg.Length
}

// DefaultOptions returns the standard chart appearance.
func DefaultOptions() Options {
	return Options{
		XLabel:          "Relative X (arcsec)",
		YLabel:          "Relative Y (arcsec)",
		ColorBarLabel:   "Historical observation year",
		CatalogLabel:    "Catalog measurement",
		GroundLabel:     "Ground measurement (average)",
		PredictionLabel: "Prediction",
		Margin:          astro.DefaultMargin,
		MaxTrackPoints:  astro.DefaultMaxTrackPoints,
		Size:            6 * vg.Inch,
		ColorBarWidth:   1.1 * vg.Inch,
	}
}

// Renderer draws measurement sets to PNG.
type Renderer struct {
	logger *logging.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(logger *logging.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Render draws the measurement set and returns the encoded PNG. The
// window is validated before any drawing, so a failure never produces
// partial output.
func (r *Renderer) Render(set *astro.MeasurementSet, opts Options) ([]byte, error) {
	window, err := set.Window(opts.Margin)
	if err != nil {
		return nil, err
	}

	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.ColorBarWidth <= 0 {
		opts.ColorBarWidth = DefaultOptions().ColorBarWidth
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.X.Min, p.X.Max = window.XMin, window.XMax
	p.Y.Min, p.Y.Max = window.YMin, window.YMax
	p.Legend.Top = true

	colorMap := moreland.Kindlmann()
	haveTrack := !set.Historical.Empty()
	if haveTrack {
		hist := set.Historical
		if opts.MaxTrackPoints > 0 && hist.Len() > opts.MaxTrackPoints {
			hist = astro.DecimateTrack(hist, opts.MaxTrackPoints)
		}
		if err := addHistoricalLayer(p, hist, colorMap); err != nil {
			return nil, err
		}
	}

	if !set.Catalog.Empty() {
		if err := addFixedLayer(p, seriesXYs(set.Catalog), draw.GlyphStyle{
			Color:  catalogColor,
			Radius: vg.Points(4),
			Shape:  draw.RingGlyph{},
		}, opts.CatalogLabel); err != nil {
			return nil, err
		}
	}

	if mean, ok := set.GroundMean(); ok {
		if err := addFixedLayer(p, plotter.XYs{{X: mean.X, Y: mean.Y}}, draw.GlyphStyle{
			Color:  groundColor,
			Radius: vg.Points(5),
			Shape:  draw.CrossGlyph{},
		}, opts.GroundLabel); err != nil {
			return nil, err
		}
	}

	if set.Prediction != nil {
		if err := addFixedLayer(p, plotter.XYs{{X: set.Prediction.X, Y: set.Prediction.Y}}, draw.GlyphStyle{
			Color:  predictionColor,
			Radius: vg.Points(5.5),
			Shape:  draw.CrossGlyph{},
		}, opts.PredictionLabel); err != nil {
			return nil, err
		}
	}

	canvasWidth := opts.Size
	if haveTrack {
		canvasWidth += opts.ColorBarWidth
	}
	img := vgimg.New(canvasWidth, opts.Size)
	dc := draw.New(img)

	if haveTrack {
		p.Draw(draw.Crop(dc, 0, -opts.ColorBarWidth, 0, 0))
		colorBarPlot(colorMap, opts.ColorBarLabel).Draw(
			draw.Crop(dc, canvasWidth-opts.ColorBarWidth, 0, 0, 0))
	} else {
		p.Draw(dc)
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}

	if r.logger != nil {
		r.logger.Debug("Chart rendered",
			"points", len(set.PlotPoints()),
			"span", window.Span(),
			"bytes", buf.Len(),
		)
	}

	return buf.Bytes(), nil
}

// addHistoricalLayer adds the date-colored historical scatter. The
// color map is scaled in place to the observed date range so the color
// bar drawn from the same map stays consistent.
func addHistoricalLayer(p *plot.Plot, hist astro.DatedSeries, colorMap palette.ColorMap) error {
	minDate, maxDate, _ := hist.DateRange()
	if maxDate == minDate {
		// Degenerate date range, widen so the map stays invertible.
		minDate -= 0.5
		maxDate += 0.5
	}
	colorMap.SetMin(minDate)
	colorMap.SetMax(maxDate)

	scatter, err := plotter.NewScatter(seriesXYs(hist.Series))
	if err != nil {
		return fmt.Errorf("failed to build historical layer: %w", err)
	}

	dates := hist.Dates
	scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c, err := colorMap.At(dates[i])
		if err != nil {
			c = fallbackColor
		}
		return draw.GlyphStyle{
			Color:  c,
			Radius: vg.Points(3.5),
			Shape:  draw.CircleGlyph{},
		}
	}

	p.Add(scatter)
	return nil
}

// addFixedLayer adds a scatter layer with a fixed style, with a legend
// entry when the label is non-empty.
func addFixedLayer(p *plot.Plot, xys plotter.XYs, style draw.GlyphStyle, label string) error {
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("failed to build scatter layer: %w", err)
	}
	scatter.GlyphStyle = style

	p.Add(scatter)
	if label != "" {
		p.Legend.Add(label, scatter)
	}
	return nil
}

// colorBarPlot builds the vertical observation-year color bar from the
// already-scaled color map.
func colorBarPlot(colorMap palette.ColorMap, label string) *plot.Plot {
	bar := plot.New()
	bar.Add(&plotter.ColorBar{ColorMap: colorMap, Vertical: true})
	bar.HideX()
	bar.Y.Label.Text = label
	bar.Y.Padding = 0
	return bar
}

// seriesXYs converts a Series into gonum plotter coordinates.
func seriesXYs(s astro.Series) plotter.XYs {
	xys := make(plotter.XYs, s.Len())
	for i := range xys {
		xys[i].X = s.X[i]
		xys[i].Y = s.Y[i]
	}
	return xys
}
