package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/sokoni/internal/services"
)

// CatalogHandler serves the read-only category list.
type CatalogHandler struct {
	listing *services.Listing
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(listing *services.Listing) *CatalogHandler {
	return &CatalogHandler{listing: listing}
}

// ListCategories returns every category ordered by name.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.listing.Categories(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

// GetCategory returns a single category by ID.
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	category, err := h.listing.Category(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}
