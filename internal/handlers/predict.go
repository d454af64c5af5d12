package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/starplotd/starplot/internal/models"
)

// Predict handles POST /v1/predict
// Fits the historical track and returns the extrapolated position
func (h *Handler) Predict(c *fiber.Ctx) error {
	var request models.PredictRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "invalid request body: " + err.Error(),
			},
		})
	}

	if err := request.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
	}

	resp, err := h.predictService.Predict(c.Context(), &request)
	if err != nil {
		return h.renderErrorResponse(c, err, "failed to compute prediction")
	}

	return c.JSON(resp)
}
