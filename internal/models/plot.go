package models

import (
	"github.com/gofiber/fiber/v2"

	"github.com/starplotd/starplot/internal/astro"
)

// SeriesInput carries one measurement source, as parallel coordinate slices.
type SeriesInput struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// HistoricalInput carries date-stamped measurements.
type HistoricalInput struct {
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Dates []float64 `json:"dates"`
}

// PointInput is a single optional point, such as a prediction.
type PointInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlotRequest represents a chart render request.
type PlotRequest struct {
	Title      string           `json:"title"`
	Historical *HistoricalInput `json:"historical,omitempty"`
	Catalog    *SeriesInput     `json:"catalog,omitempty"`
	Ground     *SeriesInput     `json:"ground,omitempty"`
	Prediction *PointInput      `json:"prediction,omitempty"`

	XLabel          string  `json:"x_label,omitempty"`
	YLabel          string  `json:"y_label,omitempty"`
	ColorBarLabel   string  `json:"color_bar_label,omitempty"`
	CatalogLabel    string  `json:"catalog_label,omitempty"`
	GroundLabel     string  `json:"ground_label,omitempty"`
	PredictionLabel string  `json:"prediction_label,omitempty"`
	Margin          float64 `json:"margin,omitempty"`
}

// Validate checks request shape before it reaches the render pipeline.
// Per-source length mismatches are reported by astro.NewMeasurementSet,
// which carries the offending source name.
func (r *PlotRequest) Validate() error {
	if r.Title == "" {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "title is required",
		}
	}

	if r.Historical == nil && r.Catalog == nil && r.Ground == nil && r.Prediction == nil {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "at least one measurement source is required",
		}
	}

	if r.Margin < 0 || r.Margin > 1 {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "margin must be between 0 and 1",
		}
	}

	return nil
}

// ToInput converts the request into the measurement input consumed by astro.
func (r *PlotRequest) ToInput() astro.Input {
	var in astro.Input
	if r.Historical != nil {
		in.HistX = r.Historical.X
		in.HistY = r.Historical.Y
		in.HistDates = r.Historical.Dates
	}
	if r.Catalog != nil {
		in.CatalogX = r.Catalog.X
		in.CatalogY = r.Catalog.Y
	}
	if r.Ground != nil {
		in.GroundX = r.Ground.X
		in.GroundY = r.Ground.Y
	}
	if r.Prediction != nil {
		in.Prediction = &astro.Point{X: r.Prediction.X, Y: r.Prediction.Y}
	}
	return in
}
