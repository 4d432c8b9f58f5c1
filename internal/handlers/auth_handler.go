package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arnavm03/storedesk/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup registers an email account and returns its first session token.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, token, err := h.auth.Signup(c.Context(), in)
	if err != nil {
		return respondError(c, err, "signup failed", errMessages{
			Duplicate: "User already exists with this email",
			Internal:  "Failed to register user",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"token": token,
	})
}

// Login authenticates credentials and returns a fresh session token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, token, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "login failed", errMessages{
			Internal: "Failed to login",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Logout removes the presented token from the caller's session list.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	token := strings.TrimPrefix(header, "Bearer ")

	if err := h.auth.Logout(c.Context(), token); err != nil {
		return respondError(c, err, "logout failed", errMessages{
			NotFound: "User not found",
			Internal: "Failed to logout",
		})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Logged out successfully"})
}

// OAuth records a provider sign-in, creating the account on first use.
func (h *AuthHandler) OAuth(c *fiber.Ctx) error {
	var in services.OAuthInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.auth.OAuthSignIn(c.Context(), in); err != nil {
		return respondError(c, err, "oauth sign-in failed", errMessages{
			Internal: "Server error",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// Seed bootstraps the superadmin account.
func (h *AuthHandler) Seed(c *fiber.Ctx) error {
	user, created, err := h.auth.SeedSuperadmin(c.Context())
	if err != nil {
		return respondError(c, err, "superadmin seed failed", errMessages{
			Internal: "Failed to create seed data",
		})
	}

	message := "Superadmin user already exists"
	if created {
		message = "Superadmin user created successfully"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
