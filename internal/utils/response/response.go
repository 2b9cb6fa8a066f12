// Package response writes the JSON envelopes every handler returns:
// {"message", "data"} on success and {"error"} on failure.
package response

import (
	"errors"

	apperrors "campusrent/internal/errors"
	"campusrent/internal/logger"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *fiber.Ctx) error {
	return Error(c, fiber.StatusForbidden, "Insufficient permissions")
}

// FromError writes the status for a domain error. Anything else is logged
// and reported as a 500 without leaking its text.
func FromError(c *fiber.Ctx, err error) error {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		logger.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "error", err)
		return ServerError(c, "internal server error")
	}

	return c.Status(StatusFor(de.Kind)).JSON(fiber.Map{
		"error": err.Error(),
		"code":  de.Code,
	})
}

func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidInput:
		return fiber.StatusBadRequest
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindInvalidState, apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindPaymentFailed:
		return fiber.StatusPaymentRequired
	case apperrors.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperrors.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}
