package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Mohammedcode007/ByoutBackNew/internal/apperrors"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/service"
)

// actorFromCtx rebuilds the caller identity the auth middleware stored in
// the request locals.
func actorFromCtx(c *fiber.Ctx) (service.Actor, bool) {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	if userID == "" {
		return service.Actor{}, false
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return service.Actor{}, false
	}
	return service.Actor{ID: objID, Role: models.Role(role)}, true
}

func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrBadRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Error("request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
