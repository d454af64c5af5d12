// Package router wires the fiber app: global middlewares, API key
// protection, and the chart, render and prediction routes.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/starplotd/starplot/internal/cache"
	"github.com/starplotd/starplot/internal/config"
	"github.com/starplotd/starplot/internal/handlers"
	"github.com/starplotd/starplot/internal/logging"
	"github.com/starplotd/starplot/internal/middleware"
	"github.com/starplotd/starplot/internal/queue"
)

// Setup configures all routes and middlewares
func Setup(
	app *fiber.App,
	logger *logging.Logger,
	queueClient queue.Queue,
	store cache.Store,
	cfg config.Config,
) (*handlers.Handler, error) {
	h, err := handlers.New(logger, queueClient, store, cfg.Render)
	if err != nil {
		return nil, err
	}

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Synchronous chart rendering
	v1.Post("/plots", h.CreatePlot)

	// Async render routes
	v1.Post("/plots/render", h.CreateRender)
	v1.Get("/render/status/:request_id", h.GetRenderStatus)
	v1.Get("/render/file/:request_id", h.GetRenderFile)

	// Position prediction
	v1.Post("/predict", h.Predict)

	// 404 handler
	app.Use(h.NotFound)

	return h, nil
}

// New creates a new Fiber app with configuration
func New(
	logger *logging.Logger,
	queueClient queue.Queue,
	store cache.Store,
	cfg config.Config,
) (*fiber.App, *handlers.Handler, error) {
	app := fiber.New(fiber.Config{
		AppName:               "Starplot",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
		BodyLimit:             8 * 1024 * 1024,
	})

	h, err := Setup(app, logger, queueClient, store, cfg)
	if err != nil {
		return nil, nil, err
	}

	return app, h, nil
}
