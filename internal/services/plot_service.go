package services

import (
	"context"
	"errors"

	"github.com/starplotd/starplot/internal/astro"
	"github.com/starplotd/starplot/internal/chart"
	"github.com/starplotd/starplot/internal/config"
	"github.com/starplotd/starplot/internal/logging"
	"github.com/starplotd/starplot/internal/models"
	"gonum.org/v1/plot/vg"
)

// PlotService renders charts synchronously
type PlotService struct {
	logger   *logging.Logger
	renderer *chart.Renderer
	cfg      config.RenderConfig
}

// NewPlotService creates a new PlotService
func NewPlotService(logger *logging.Logger, renderer *chart.Renderer, cfg config.RenderConfig) *PlotService {
	return &PlotService{
		logger:   logger,
		renderer: renderer,
		cfg:      cfg,
	}
}

// Render normalizes the request sources and renders the chart as PNG
func (s *PlotService) Render(ctx context.Context, request *models.PlotRequest) ([]byte, error) {
	set, opts, err := s.prepare(request)
	if err != nil {
		return nil, err
	}

	png, err := s.renderer.Render(set, opts)
	if err != nil {
		return nil, mapRenderError(err)
	}

	s.logger.Info("Chart rendered",
		"title", request.Title,
		"points", len(set.PlotPoints()),
		"bytes", len(png),
	)
	return png, nil
}

// prepare builds the normalized measurement set and chart options for a
// request. Shape errors are surfaced here, before any drawing happens.
func (s *PlotService) prepare(request *models.PlotRequest) (*astro.MeasurementSet, chart.Options, error) {
	set, err := astro.NewMeasurementSet(request.ToInput())
	if err != nil {
		return nil, chart.Options{}, mapRenderError(err)
	}

	opts := chart.DefaultOptions()
	opts.Title = request.Title
	if request.XLabel != "" {
		opts.XLabel = request.XLabel
	}
	if request.YLabel != "" {
		opts.YLabel = request.YLabel
	}
	if request.ColorBarLabel != "" {
		opts.ColorBarLabel = request.ColorBarLabel
	}
	if request.CatalogLabel != "" {
		opts.CatalogLabel = request.CatalogLabel
	}
	if request.GroundLabel != "" {
		opts.GroundLabel = request.GroundLabel
	}
	if request.PredictionLabel != "" {
		opts.PredictionLabel = request.PredictionLabel
	}
	if request.Margin > 0 {
		opts.Margin = request.Margin
	} else if s.cfg.Margin > 0 {
		opts.Margin = s.cfg.Margin
	}
	if s.cfg.SizeInches > 0 {
		opts.Size = vg.Length(s.cfg.SizeInches) * vg.Inch
	}
	if s.cfg.ColorBarInches > 0 {
		opts.ColorBarWidth = vg.Length(s.cfg.ColorBarInches) * vg.Inch
	}

	return set, opts, nil
}

// mapRenderError converts pipeline errors to service errors
func mapRenderError(err error) error {
	var mismatch *astro.ShapeMismatchError
	if errors.As(err, &mismatch) {
		details := make(map[string]interface{}, len(mismatch.Lengths)+1)
		details["source"] = mismatch.Source
		for name, length := range mismatch.Lengths {
			details[name] = length
		}
		return NewServiceErrorWithDetails("INVALID_REQUEST", err.Error(), details)
	}

	if errors.Is(err, astro.ErrNoData) {
		return NewServiceError("INVALID_REQUEST", "no measurement points to plot")
	}

	return err
}
