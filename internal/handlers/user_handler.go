package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnavm03/storedesk/internal/middleware"
	"github.com/arnavm03/storedesk/internal/query"
	"github.com/arnavm03/storedesk/internal/services"
)

// UserHandler exposes the superadmin-only user management endpoints.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return respondError(c, err, "user list failed", errMessages{
			Internal: "Failed to fetch users",
		})
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in services.CreateUserInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.users.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err, "user create failed", errMessages{
			Duplicate: "User with this email already exists",
			Internal:  "Failed to create user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "user fetch failed", errMessages{
			NotFound: "User not found",
			Internal: "Failed to fetch user",
		})
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	updates := map[string]any{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.users.UpdateAdmin(c.Context(), c.Params("id"), updates)
	if err != nil {
		return respondError(c, err, "user update failed", errMessages{
			NotFound: "User not found",
			Internal: "Failed to update user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	callerID, _ := c.Locals(middleware.LocalUserID).(string)

	if err := h.users.Delete(c.Context(), c.Params("id"), callerID); err != nil {
		return respondError(c, err, "user delete failed", errMessages{
			NotFound: "User not found",
			Internal: "Failed to delete user",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}

func (h *UserHandler) Search(c *fiber.Ctx) error {
	var params query.Params
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	users, pagination, err := h.users.Search(c.Context(), params)
	if err != nil {
		return respondError(c, err, "user search failed", errMessages{
			Internal: "Failed to search users",
		})
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}
