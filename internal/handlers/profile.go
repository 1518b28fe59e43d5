package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/sokoni/internal/middleware"
	"github.com/example/sokoni/internal/services"
)

// ProfileHandler manages the caller's own profile.
type ProfileHandler struct {
	auth *services.AuthService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(auth *services.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: auth}
}

// GetProfile returns the authenticated user's profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.auth.Me(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": profile})
}

// UpdateProfile updates the identity fields present in the body.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	profile, err := h.auth.UpdateProfile(c.UserContext(), middleware.CurrentSession(c), req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": profile})
}
