package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnavm03/storedesk/internal/models"
)

// RequireRole gates an endpoint to a set of roles. It must run after
// Auth; a request that carries a valid session but lacks privilege gets
// 403, a request without one gets 401.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		raw, ok := c.Locals(LocalRole).(string)
		if !ok || raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
		}
		if _, ok := allowed[models.Role(raw)]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized access"})
		}
		return c.Next()
	}
}
