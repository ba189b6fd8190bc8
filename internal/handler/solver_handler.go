package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-solver-api/internal/dto"
	"github.com/noah-isme/gema-solver-api/internal/service"
	"github.com/noah-isme/gema-solver-api/internal/utils"
)

const solveFailureMessage = "Failed to generate solution. Please try again."

// SolverHandler exposes the solve and evaluate endpoints.
type SolverHandler struct {
	service service.SolverService
	logger  zerolog.Logger
}

// NewSolverHandler constructs a solver handler.
func NewSolverHandler(service service.SolverService, logger zerolog.Logger) *SolverHandler {
	return &SolverHandler{
		service: service,
		logger:  logger.With().Str("component", "solver_handler").Logger(),
	}
}

// Register wires solver routes; guards run before each handler.
func (h *SolverHandler) Register(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/solve", chain(guards, h.solve)...)
	router.Post("/evaluate", chain(guards, h.evaluate)...)
}

func chain(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	return append(handlers, handler)
}

func (h *SolverHandler) solve(c *fiber.Ctx) error {
	var payload dto.SolveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Solve(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, response)
}

func (h *SolverHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Evaluate(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, response)
}

func (h *SolverHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, validationMessage(err))
	case errors.Is(err, service.ErrUnknownProvider):
		return utils.SendError(c, fiber.StatusBadRequest, "provider must be one of: openai, anthropic")
	default:
		requestLogger(h.logger, c).Error().Err(err).Str("path", c.Path()).Msg("solver request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, solveFailureMessage)
	}
}
