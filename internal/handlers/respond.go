package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/arnavm03/storedesk/internal/services"
)

// errMessages carries the endpoint-specific client texts for the shared
// error mapping.
type errMessages struct {
	NotFound  string
	Duplicate string
	Internal  string
}

// respondError maps a service error onto the HTTP taxonomy. Unexpected
// errors are logged with their cause and surfaced as a generic message.
func respondError(c *fiber.Ctx, err error, op string, m errMessages) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ve.Msg})
	case errors.Is(err, services.ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID format"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": m.NotFound})
	case errors.Is(err, services.ErrDuplicateEmail), errors.Is(err, services.ErrDuplicateSKU):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": m.Duplicate})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	case errors.Is(err, services.ErrSelfDelete):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot delete your own account"})
	case errors.Is(err, services.ErrSuperadminDelete):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot delete a superadmin account"})
	}

	logrus.WithError(err).Error(op)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": m.Internal})
}
