package models

import (
	"github.com/gofiber/fiber/v2"

	"github.com/starplotd/starplot/internal/predict"
)

// PredictRequest represents a position prediction request
type PredictRequest struct {
	Historical *HistoricalInput `json:"historical"`
	Epoch      float64          `json:"epoch"` // Target epoch as fractional year
}

// Validate validates the predict request
func (r *PredictRequest) Validate() error {
	if r.Historical == nil {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "historical measurements are required",
		}
	}

	if len(r.Historical.X) < predict.MinDataPoints {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "at least 3 historical measurements are required",
		}
	}

	if r.Epoch == 0 {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "epoch is required",
		}
	}

	return nil
}

// PredictResponse is the response for a prediction request. Date is
// the target epoch rendered as a calendar date.
type PredictResponse struct {
	Epoch float64            `json:"epoch"`
	Date  string             `json:"date"`
	X     float64            `json:"x"`
	Y     float64            `json:"y"`
	Model *predict.ModelInfo `json:"model,omitempty"`
}
