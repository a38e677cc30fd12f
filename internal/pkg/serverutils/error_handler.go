package serverutils

import (
	"errors"

	"ai-assistant-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps the error taxonomy onto HTTP statuses so
// controllers can just return errors.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		kind := "internal"

		switch {
		case apperror.IsValidation(err):
			status, kind = fiber.StatusBadRequest, "validation"
		case apperror.IsNotFound(err):
			status, kind = fiber.StatusNotFound, "not_found"
		case apperror.IsConflict(err):
			status, kind = fiber.StatusConflict, "conflict"
		case apperror.IsAPIError(err):
			status, kind = fiber.StatusBadGateway, "api"
		case apperror.IsConfiguration(err):
			status, kind = fiber.StatusInternalServerError, "configuration"
		default:
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		return c.Status(status).JSON(ErrorBody{
			Success: false,
			Message: err.Error(),
			Kind:    kind,
		})
	}
}
