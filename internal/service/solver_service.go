package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-solver-api/internal/dto"
	"github.com/noah-isme/gema-solver-api/internal/observability"
	"github.com/noah-isme/gema-solver-api/pkg/ai"
	"github.com/noah-isme/gema-solver-api/pkg/normalize"
)

// SolverService exposes the solve and evaluate workflows.
type SolverService interface {
	Solve(ctx context.Context, payload dto.SolveRequest) (dto.SolveResponse, error)
	Evaluate(ctx context.Context, payload dto.EvaluateRequest) (dto.EvaluationResponse, error)
}

// ErrUnknownProvider indicates the requested provider is not configured.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrSolveFailed indicates the provider could not produce a solution.
var ErrSolveFailed = errors.New("failed to generate solution")

// SolverConfig describes outbound call knobs.
type SolverConfig struct {
	ProviderTimeout time.Duration
}

type solverService struct {
	providers map[string]ai.Provider
	validator *validator.Validate
	logger    zerolog.Logger
	config    SolverConfig
}

// NewSolverService constructs the service; providers are keyed by their Name.
func NewSolverService(providers []ai.Provider, validate *validator.Validate, logger zerolog.Logger, cfg SolverConfig) SolverService {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 60 * time.Second
	}

	registry := make(map[string]ai.Provider, len(providers))
	for _, provider := range providers {
		if provider != nil {
			registry[provider.Name()] = provider
		}
	}

	return &solverService{
		providers: registry,
		validator: validate,
		logger:    logger.With().Str("component", "solver_service").Logger(),
		config:    cfg,
	}
}

func (s *solverService) Solve(ctx context.Context, payload dto.SolveRequest) (dto.SolveResponse, error) {
	payload.Sanitize()
	if err := s.validator.Struct(payload); err != nil {
		return dto.SolveResponse{}, err
	}

	provider, err := s.provider(payload.Provider)
	if err != nil {
		return dto.SolveResponse{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.ProviderTimeout)
	defer cancel()

	raw, err := provider.Generate(callCtx, ai.Request{
		Model:   payload.Model,
		Task:    ai.TaskSolve,
		Problem: payload.Problem,
	})
	if err != nil {
		s.loggerFor(ctx).Error().Err(err).
			Str("provider", payload.Provider).
			Str("model", payload.Model).
			Bool("upstream", ai.IsProviderError(err)).
			Msg("solve call failed")
		return dto.SolveResponse{}, fmt.Errorf("%w: %w", ErrSolveFailed, err)
	}

	return dto.SolveResponse{Solution: normalize.Solution(raw)}, nil
}

func (s *solverService) Evaluate(ctx context.Context, payload dto.EvaluateRequest) (dto.EvaluationResponse, error) {
	payload.Sanitize()
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	provider, err := s.provider(payload.Provider)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.ProviderTimeout)
	defer cancel()

	logger := s.loggerFor(ctx).With().
		Str("provider", payload.Provider).
		Str("model", payload.Model).
		Logger()

	raw, err := provider.Generate(callCtx, ai.Request{
		Model:    payload.Model,
		Task:     ai.TaskEvaluate,
		Problem:  payload.Problem,
		Solution: payload.Solution,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("evaluate call failed, returning degraded evaluation")
		observability.EvaluationOutcomes().WithLabelValues("unavailable").Inc()
		return dto.NewEvaluationResponse(normalize.Unavailable()), nil
	}

	evaluation, parseErr := normalize.Evaluate(raw)
	switch {
	case parseErr == nil:
		observability.EvaluationOutcomes().WithLabelValues("ok").Inc()
	case errors.Is(parseErr, normalize.ErrEmptyResponse):
		logger.Warn().Msg("provider returned an empty evaluation")
		observability.EvaluationOutcomes().WithLabelValues("empty").Inc()
	default:
		logger.Warn().Err(parseErr).Msg("provider returned a malformed evaluation")
		observability.EvaluationOutcomes().WithLabelValues("malformed").Inc()
	}

	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *solverService) provider(name string) (ai.Provider, error) {
	provider, ok := s.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return provider, nil
}

func (s *solverService) loggerFor(ctx context.Context) *zerolog.Logger {
	logger := s.logger
	if correlation := observability.CorrelationIDFromContext(ctx); correlation != "" {
		logger = s.logger.With().Str("correlation_id", correlation).Logger()
	}
	return &logger
}
