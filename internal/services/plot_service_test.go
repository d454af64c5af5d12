package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/starplotd/starplot/internal/chart"
	"github.com/starplotd/starplot/internal/logging"
	"github.com/starplotd/starplot/internal/models"
)

func newTestPlotService(t *testing.T) *PlotService {
	t.Helper()
	logger := logging.NewDevelopment()
	return NewPlotService(logger, chart.NewRenderer(logger), testRenderConfig(t))
}

func TestPlotService_Render(t *testing.T) {
	svc := newTestPlotService(t)

	req := testPlotRequest()
	req.Ground = &models.SeriesInput{
		X: []float64{3.0, 3.2},
		Y: []float64{1.0, 1.2},
	}
	req.Prediction = &models.PointInput{X: 3.4, Y: 1.3}

	png, err := svc.Render(context.Background(), req)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestPlotService_ShapeMismatch(t *testing.T) {
	svc := newTestPlotService(t)

	req := testPlotRequest()
	req.Catalog = &models.SeriesInput{X: []float64{1, 2}, Y: []float64{1}}

	_, err := svc.Render(context.Background(), req)
	svcErr, ok := err.(*ServiceError)
	if !ok {
		t.Fatalf("expected ServiceError, got %T (%v)", err, err)
	}
	if svcErr.Code != "INVALID_REQUEST" {
		t.Errorf("unexpected code %s", svcErr.Code)
	}
	if svcErr.Details["source"] != "catalog" {
		t.Errorf("expected catalog source, got %v", svcErr.Details)
	}
}

func TestPlotService_CustomLabelsAndMargin(t *testing.T) {
	svc := newTestPlotService(t)

	set, opts, err := svc.prepare(&models.PlotRequest{
		Title:  "Custom",
		XLabel: "dRA (arcsec)",
		Margin: 0.25,
		Historical: &models.HistoricalInput{
			X:     []float64{0, 1},
			Y:     []float64{0, 1},
			Dates: []float64{2000, 2010},
		},
	})
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	if set == nil || set.Historical.Len() != 2 {
		t.Fatalf("unexpected measurement set: %+v", set)
	}
	if opts.XLabel != "dRA (arcsec)" {
		t.Errorf("x label not applied: %q", opts.XLabel)
	}
	if opts.YLabel == "" {
		t.Error("default y label should be kept")
	}
	if opts.Margin != 0.25 {
		t.Errorf("margin not applied: %v", opts.Margin)
	}
}

func TestPredictService(t *testing.T) {
	svc := NewPredictService(logging.NewDevelopment())

	resp, err := svc.Predict(context.Background(), &models.PredictRequest{
		Historical: &models.HistoricalInput{
			X:     []float64{0, 1, 2},
			Y:     []float64{0, 2, 4},
			Dates: []float64{2000, 2010, 2020},
		},
		Epoch: 2030,
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if resp.X < 2.99 || resp.X > 3.01 {
		t.Errorf("expected x near 3.0, got %v", resp.X)
	}
	if resp.Y < 5.99 || resp.Y > 6.01 {
		t.Errorf("expected y near 6.0, got %v", resp.Y)
	}
	if resp.Model == nil || resp.Model.Algorithm != "linear" {
		t.Errorf("unexpected model info: %+v", resp.Model)
	}
	if resp.Date != "2030-01-01" {
		t.Errorf("expected date 2030-01-01 for epoch 2030, got %q", resp.Date)
	}
}

func TestPredictService_DegenerateDates(t *testing.T) {
	svc := NewPredictService(logging.NewDevelopment())

	_, err := svc.Predict(context.Background(), &models.PredictRequest{
		Historical: &models.HistoricalInput{
			X:     []float64{0, 1, 2},
			Y:     []float64{0, 2, 4},
			Dates: []float64{2000, 2000, 2000},
		},
		Epoch: 2030,
	})
	svcErr, ok := err.(*ServiceError)
	if !ok || svcErr.Code != "INVALID_REQUEST" {
		t.Fatalf("expected INVALID_REQUEST, got %v", err)
	}
}
