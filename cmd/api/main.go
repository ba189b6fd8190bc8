package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-solver-api/internal/config"
	"github.com/noah-isme/gema-solver-api/internal/database"
	"github.com/noah-isme/gema-solver-api/internal/handler"
	"github.com/noah-isme/gema-solver-api/internal/router"
	"github.com/noah-isme/gema-solver-api/internal/service"
	"github.com/noah-isme/gema-solver-api/pkg/ai"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	openAIProvider, err := ai.NewOpenAIProvider(ai.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create openai provider")
	}

	anthropicProvider, err := ai.NewAnthropicProvider(ai.AnthropicConfig{
		APIKey:  cfg.AnthropicAPIKey,
		BaseURL: cfg.AnthropicBaseURL,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create anthropic provider")
	}

	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		limiterStorage = database.NewRedisStorage(redisClient, "solver:limiter:")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	solverService := service.NewSolverService(
		[]ai.Provider{openAIProvider, anthropicProvider},
		validate,
		logger,
		service.SolverConfig{ProviderTimeout: cfg.ProviderTimeout},
	)
	solverHandler := handler.NewSolverHandler(solverService, logger)

	app := router.NewApp(cfg, logger)
	router.Register(app, cfg, router.Dependencies{
		SolverHandler:    solverHandler,
		RateLimitStorage: limiterStorage,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("env", cfg.AppEnv).Msg("server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
