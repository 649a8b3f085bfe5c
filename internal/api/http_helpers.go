package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/idolanuel5885/serenity-plus/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps the service error taxonomy onto HTTP statuses: NotFound
// and Validation become client errors, everything else is a server error with
// the original cause left to the log.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPartnershipNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrInviteCodeNotFound),
		errors.Is(err, services.ErrNoOpenSession):
		return apiError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidUserData),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrInvalidSitLength),
		errors.Is(err, services.ErrNotInPartnership),
		errors.Is(err, services.ErrEmptyReturnToken):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	default:
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(value), nil
}
