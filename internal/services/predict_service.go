package services

import (
	"context"

	"github.com/starplotd/starplot/internal/astro"
	"github.com/starplotd/starplot/internal/logging"
	"github.com/starplotd/starplot/internal/models"
	"github.com/starplotd/starplot/internal/predict"
)

// PredictService extrapolates a historical track to a target epoch
type PredictService struct {
	logger *logging.Logger
}

// NewPredictService creates a new PredictService
func NewPredictService(logger *logging.Logger) *PredictService {
	return &PredictService{logger: logger}
}

// Predict fits the historical track and evaluates it at the requested
// epoch
func (s *PredictService) Predict(ctx context.Context, request *models.PredictRequest) (*models.PredictResponse, error) {
	set, err := astro.NewMeasurementSet(astro.Input{
		HistX:     request.Historical.X,
		HistY:     request.Historical.Y,
		HistDates: request.Historical.Dates,
	})
	if err != nil {
		return nil, mapRenderError(err)
	}

	prediction, err := predict.Linear(set.Historical, request.Epoch)
	if err != nil {
		return nil, NewServiceError("INVALID_REQUEST", err.Error())
	}

	s.logger.Info("Position predicted",
		"epoch", request.Epoch,
		"points", prediction.Model.DataPoints,
		"rmse_x", prediction.Model.RMSEX,
		"rmse_y", prediction.Model.RMSEY,
	)

	return &models.PredictResponse{
		Epoch: prediction.Epoch,
		Date:  astro.YearToTime(prediction.Epoch).Format("2006-01-02"),
		X:     prediction.Point.X,
		Y:     prediction.Point.Y,
		Model: &prediction.Model,
	}, nil
}
