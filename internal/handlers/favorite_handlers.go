package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/service"
)

type favoriteService interface {
	Add(ctx context.Context, actor service.Actor, propertyID string) (*models.Favorite, error)
	Remove(ctx context.Context, actor service.Actor, propertyID string) error
	List(ctx context.Context, actor service.Actor) ([]service.FavoriteView, error)
}

type FavoriteHandler struct {
	svc favoriteService
	log *zap.Logger
}

func NewFavoriteHandler(svc favoriteService, log *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{svc: svc, log: log}
}

func (h *FavoriteHandler) Add(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	favorite, err := h.svc.Add(c.Context(), actor, c.Params("propertyId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "favorite": favorite})
}

func (h *FavoriteHandler) Remove(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	if err := h.svc.Remove(c.Context(), actor, c.Params("propertyId")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "favorite removed"})
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	favorites, err := h.svc.List(c.Context(), actor)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "favorites": favorites})
}
