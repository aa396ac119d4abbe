package httpx

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/salesboard/salesboard/internal/apperr"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Success writes a success envelope with the given status code.
func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail writes an error envelope with the given status code.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
		Errors:  details,
	})
}

// ErrorHandler is the fiber app error handler. Application errors map to
// their taxonomy status; anything unclassified becomes a 500 with a
// generic message so internals do not leak to clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return Fail(c, appErr.Status(), appErr.Message, appErr.Details)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return Fail(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return Fail(c, fiber.StatusInternalServerError, "Something went wrong", nil)
}
