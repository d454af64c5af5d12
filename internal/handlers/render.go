package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/starplotd/starplot/internal/models"
)

// CreateRender handles POST /v1/plots/render
// Creates an async render task and returns request_id
func (h *Handler) CreateRender(c *fiber.Ctx) error {
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

	task, err := h.renderService.CreateRender(c.Context(), &request)
	if err != nil {
		return h.renderErrorResponse(c, err, "failed to create render task")
	}

	return c.Status(fiber.StatusAccepted).JSON(&models.RenderCreateResponse{
		RequestID: task.RequestID,
		Status:    string(task.Status),
		Message:   "Render task created. Use the status endpoint to check progress.",
		ExpiresAt: task.ExpiresAt,
	})
}

// GetRenderStatus handles GET /v1/render/status/:request_id
// Returns the status of a render task
func (h *Handler) GetRenderStatus(c *fiber.Ctx) error {
	requestID := c.Params("request_id")

	if requestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "request_id is required",
			},
		})
	}

	task, err := h.renderService.GetTaskStatus(requestID)
	if err != nil {
		return h.renderErrorResponse(c, err, "failed to get render status")
	}

	baseURL := getBaseURL(c)
	return c.JSON(task.ToStatusResponse(baseURL))
}

// GetRenderFile handles GET /v1/render/file/:request_id
// Returns the rendered chart PNG
func (h *Handler) GetRenderFile(c *fiber.Ctx) error {
	requestID := c.Params("request_id")

	if requestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "request_id is required",
			},
		})
	}

	data, filename, err := h.renderService.GetFile(c.Context(), requestID)
	if err != nil {
		return h.renderErrorResponse(c, err, "failed to get chart file")
	}

	c.Set("Content-Type", "image/png")
	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	return c.Send(data)
}

// getBaseURL extracts the base URL from the request
func getBaseURL(c *fiber.Ctx) string {
	scheme := "http"
	if c.Protocol() == "https" || c.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Hostname()
}
