package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/sokoni/internal/services"
)

// ErrorHandler writes every error as {"success": false, "error": msg}.
// Service sentinels map to 4xx; anything else is logged and hidden behind 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := statusFor(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"success": false, "error": message})
	}
}

func statusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	var ve *services.ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest, ve.Error()
	}

	switch {
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, "You don't have admin privileges."
	case errors.Is(err, services.ErrNotOwner), errors.Is(err, services.ErrAccountNotApproved):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrAdNotFound),
		errors.Is(err, services.ErrProfileNotFound),
		errors.Is(err, services.ErrCategoryNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, err.Error()
	}
	return fiber.StatusInternalServerError, "internal server error"
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}
