package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/service"
)

type notificationService interface {
	Dispatch(ctx context.Context, actor service.Actor, in service.DispatchInput) (*models.Notification, service.DispatchSummary, error)
	ListAll(ctx context.Context, actor service.Actor) ([]service.NotificationView, error)
	ListForUser(ctx context.Context, actor service.Actor, userID string) ([]service.NotificationView, error)
	MarkRead(ctx context.Context, actor service.Actor, id string) (*models.Notification, error)
	Delete(ctx context.Context, actor service.Actor, id string) error
}

type NotificationHandler struct {
	svc      notificationService
	validate *validator.Validate
	log      *zap.Logger
}

func NewNotificationHandler(svc notificationService, validate *validator.Validate, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, validate: validate, log: log}
}

type sendNotificationReq struct {
	Title         string   `json:"title" validate:"required"`
	Message       string   `json:"message" validate:"required"`
	RecipientIDs  []string `json:"recipientIds" validate:"required,min=1"`
	RelatedItemID string   `json:"relatedItemId"`
}

// Send broadcasts a notification to the listed recipients and reports how
// many pushes went out.
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}

	var req sendNotificationReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title, message and recipientIds are required"})
	}

	notification, summary, err := h.svc.Dispatch(c.Context(), actor, service.DispatchInput{
		Title:         req.Title,
		Message:       req.Message,
		RecipientIDs:  req.RecipientIDs,
		RelatedItemID: req.RelatedItemID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"notification": notification,
		"results":      summary,
	})
}

func (h *NotificationHandler) GetAll(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	notifications, err := h.svc.ListAll(c.Context(), actor)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "notifications": notifications})
}

func (h *NotificationHandler) GetForUser(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	notifications, err := h.svc.ListForUser(c.Context(), actor, c.Params("userId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	notification, err := h.svc.MarkRead(c.Context(), actor, c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "notification": notification})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	if err := h.svc.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "notification deleted"})
}
