// Package handlers contains the HTTP layer. Handlers parse and
// validate requests, call services, and map service errors to HTTP
// status codes.
package handlers

import (
	"github.com/starplotd/starplot/internal/cache"
	"github.com/starplotd/starplot/internal/chart"
	"github.com/starplotd/starplot/internal/config"
	"github.com/starplotd/starplot/internal/logging"
	"github.com/starplotd/starplot/internal/queue"
	"github.com/starplotd/starplot/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger *logging.Logger
	// Services
	plotService    *services.PlotService
	renderService  *services.RenderService
	predictService *services.PredictService
}

// New creates a new handler instance
func New(
	logger *logging.Logger,
	q queue.Queue,
	store cache.Store,
	renderCfg config.RenderConfig,
) (*Handler, error) {
	renderer := chart.NewRenderer(logger)

	plotService := services.NewPlotService(logger, renderer, renderCfg)
	renderService, err := services.NewRenderService(logger, plotService, q, store, renderCfg)
	if err != nil {
		return nil, err
	}
	predictService := services.NewPredictService(logger)

	return &Handler{
		logger:         logger,
		plotService:    plotService,
		renderService:  renderService,
		predictService: predictService,
	}, nil
}

// Stop stops background work owned by the handler's services
func (h *Handler) Stop() {
	h.renderService.Stop()
}
