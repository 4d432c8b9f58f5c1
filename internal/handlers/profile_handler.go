package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnavm03/storedesk/internal/middleware"
	"github.com/arnavm03/storedesk/internal/services"
)

// ProfileHandler lets any authenticated user read and edit their own
// record.
type ProfileHandler struct {
	users *services.UserService
}

func NewProfileHandler(users *services.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)

	user, err := h.users.Get(c.Context(), userID)
	if err != nil {
		return respondError(c, err, "profile fetch failed", errMessages{
			NotFound: "User not found",
			Internal: "Failed to fetch profile",
		})
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)

	updates := map[string]any{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.users.UpdateProfile(c.Context(), userID, updates)
	if err != nil {
		return respondError(c, err, "profile update failed", errMessages{
			NotFound: "User not found",
			Internal: "Failed to update profile",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}
