package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler keeps the JSON error shape for errors raised outside the
// handlers, such as requests rejected by the body size limit.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
}
