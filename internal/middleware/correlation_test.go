package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-solver-api/internal/observability"
)

func newCorrelatedApp(seen *string) *fiber.App {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		*seen = observability.CorrelationIDFromContext(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestCorrelationIDEchoesIncomingHeader(t *testing.T) {
	var seen string
	app := newCorrelatedApp(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)

	require.Equal(t, "abc-123", resp.Header.Get(CorrelationHeader))
	require.Equal(t, "abc-123", seen)
}

func TestCorrelationIDGeneratesWhenMissingOrInvalid(t *testing.T) {
	var seen string
	app := newCorrelatedApp(&seen)

	for _, incoming := range []string{"", strings.Repeat("x", 200)} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if incoming != "" {
			req.Header.Set(CorrelationHeader, incoming)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)

		generated := resp.Header.Get(CorrelationHeader)
		require.Len(t, generated, 36)
		require.Equal(t, generated, seen)
	}
}

func TestRegisterAllowsConfiguredOriginOnly(t *testing.T) {
	app := fiber.New()
	Register(app, Config{AllowOrigins: "https://solver.example.com"})
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://solver.example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "https://solver.example.com", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(fiber.HeaderOrigin, "https://evil.example.com")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Empty(t, resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
}
