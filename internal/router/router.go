package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-solver-api/internal/config"
	"github.com/noah-isme/gema-solver-api/internal/handler"
	"github.com/noah-isme/gema-solver-api/internal/middleware"
	"github.com/noah-isme/gema-solver-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SolverHandler *handler.SolverHandler
	// RateLimitStorage shares limiter counters; nil keeps them in memory.
	RateLimitStorage fiber.Storage
}

// NewApp builds the fiber application with the body cap, JSON error rendering
// and the common middleware chain installed.
func NewApp(cfg config.Config, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ServerHeader:          cfg.AppName,
		BodyLimit:             config.BodyLimit,
		ErrorHandler:          handler.ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSOrigin,
	})

	return app
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.SolverHandler != nil {
		limiter := middleware.RateLimit("solver", cfg.RateLimitMax, cfg.RateLimitWindow, deps.RateLimitStorage)
		deps.SolverHandler.Register(api, limiter)
	}

	app.Get("/metrics", observability.MetricsHandler())

	// Anything else falls through to the browser front end.
	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}
}
