package handlers

import (
	"errors"

	"ktmobile/internal/domain"
	applog "ktmobile/internal/log"
	"ktmobile/internal/repos"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to HTTP statuses. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidVariant),
		errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNoPrices),
		errors.Is(err, domain.ErrAmbiguousPrice):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrPricingNotConfigured):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, repos.ErrLockBusy):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// apiError writes a JSON error. Server errors are logged and get a generic message.
func apiError(c *fiber.Ctx, action string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		return c.Status(status).JSON(fiber.Map{"error": "something went wrong, please retry"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
