package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-solver-api/internal/utils"
)

// ErrorHandler renders errors that escape route handlers, including the 413
// raised for oversized bodies, in the same {error} shape the routes use.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	logger = logger.With().Str("component", "error_handler").Logger()

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
				return utils.SendError(c, fiberErr.Code, "request body too large")
			}
			return utils.SendError(c, fiberErr.Code, fiberErr.Message)
		}

		requestLogger(logger, c).Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
