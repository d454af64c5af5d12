package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/starplotd/starplot/internal/models"
	"github.com/starplotd/starplot/internal/services"
)

// CreatePlot handles POST /v1/plots
// Renders the chart synchronously and returns the PNG
func (h *Handler) CreatePlot(c *fiber.Ctx) error {
	var request models.PlotRequest
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

	png, err := h.plotService.Render(c.Context(), &request)
	if err != nil {
		return h.renderErrorResponse(c, err, "failed to render chart")
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}

// renderErrorResponse maps render pipeline errors to HTTP responses
func (h *Handler) renderErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	if svcErr, ok := err.(*services.ServiceError); ok {
		status := fiber.StatusInternalServerError
		switch svcErr.Code {
		case "INVALID_REQUEST":
			status = fiber.StatusBadRequest
		case "TASK_NOT_FOUND":
			status = fiber.StatusNotFound
		case "RENDER_EXPIRED":
			status = fiber.StatusGone
		case "RENDER_NOT_READY":
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			},
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: fallback + ": " + err.Error(),
		},
	})
}
