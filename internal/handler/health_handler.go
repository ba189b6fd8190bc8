package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-solver-api/internal/config"
	"github.com/noah-isme/gema-solver-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthCheck reports liveness only; it never contacts a provider.
func HealthCheck(cfg config.Config) fiber.Handler {
	name := cfg.AppName
	if name == "" {
		name = "server"
	}
	message := fmt.Sprintf("%s is running", name)

	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, HealthResponse{
			Status:    "ok",
			Message:   message,
			Timestamp: time.Now().UTC(),
		})
	}
}
