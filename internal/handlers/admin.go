package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/sokoni/internal/middleware"
	"github.com/example/sokoni/internal/models"
	"github.com/example/sokoni/internal/services"
	"github.com/example/sokoni/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	console   *services.Console
	lifecycle *services.Lifecycle
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(console *services.Console, lifecycle *services.Lifecycle) *AdminHandler {
	return &AdminHandler{console: console, lifecycle: lifecycle}
}

// Dashboard returns the pending queue, the user roster and the summary counters.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.console.Load(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": dash})
}

// ListAds pages through ads, optionally narrowed by status.
func (h *AdminHandler) ListAds(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	status := models.AdStatus(c.Query("status"))

	ads, total, err := h.console.Ads(c.UserContext(), middleware.CurrentSession(c), status, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       ads,
		"pagination": pg.Envelope(total),
	})
}

type adAction func(ctx context.Context, s *services.Session, id uuid.UUID) (*models.Ad, services.Patch, error)

func (h *AdminHandler) runAdAction(c *fiber.Ctx, action adAction) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ad, patch, err := action(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": ad, "patch": patch})
}

// ApproveAd publishes a pending ad.
func (h *AdminHandler) ApproveAd(c *fiber.Ctx) error {
	return h.runAdAction(c, h.lifecycle.Approve)
}

// RejectAd marks an ad rejected.
func (h *AdminHandler) RejectAd(c *fiber.Ctx) error {
	return h.runAdAction(c, h.lifecycle.Reject)
}

// ToggleFeatured flips the featured flag.
func (h *AdminHandler) ToggleFeatured(c *fiber.Ctx) error {
	return h.runAdAction(c, h.lifecycle.ToggleFeatured)
}

type reorderRequest struct {
	Delta int `json:"delta"`
}

// ReorderAd shifts display_order by the body's delta (one step when absent).
func (h *AdminHandler) ReorderAd(c *fiber.Ctx) error {
	var req reorderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	return h.runAdAction(c, func(ctx context.Context, s *services.Session, id uuid.UUID) (*models.Ad, services.Patch, error) {
		return h.lifecycle.Reorder(ctx, s, id, req.Delta)
	})
}

// DeleteAd removes any ad.
func (h *AdminHandler) DeleteAd(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	patch, err := h.lifecycle.Delete(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "patch": patch})
}

type approvalRequest struct {
	Approved *bool `json:"approved"`
}

// SetApproval allows or blocks posting for an account.
func (h *AdminHandler) SetApproval(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req approvalRequest
	if err := c.BodyParser(&req); err != nil || req.Approved == nil {
		return fiber.NewError(fiber.StatusBadRequest, "approved is required")
	}

	user, patch, err := h.console.SetApproval(c.UserContext(), middleware.CurrentSession(c), id, *req.Approved)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user, "patch": patch})
}

type premiumRequest struct {
	Premium *bool `json:"premium"`
}

// SetPremium grants or revokes premium status.
func (h *AdminHandler) SetPremium(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req premiumRequest
	if err := c.BodyParser(&req); err != nil || req.Premium == nil {
		return fiber.NewError(fiber.StatusBadRequest, "premium is required")
	}

	user, patch, err := h.console.SetPremium(c.UserContext(), middleware.CurrentSession(c), id, *req.Premium)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user, "patch": patch})
}

// DeleteUser removes an account with its ads.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	patch, err := h.console.DeleteUser(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "patch": patch})
}
