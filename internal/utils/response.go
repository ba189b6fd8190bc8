package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the body returned for every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendSuccess writes the payload unwrapped with HTTP 200.
func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, data)
}

// SendSuccessWithStatus writes the payload unwrapped using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(data)
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(ErrorResponse{Error: message})
}
