package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/repository"
	"github.com/Mohammedcode007/ByoutBackNew/internal/service"
)

type propertyService interface {
	Create(ctx context.Context, actor service.Actor, in service.PropertyInput) (*models.Property, error)
	Get(ctx context.Context, id string) (*models.Property, error)
	List(ctx context.Context, f repository.PropertyFilter) ([]models.Property, int64, error)
	Update(ctx context.Context, actor service.Actor, id string, in service.PropertyInput) (*models.Property, error)
	Delete(ctx context.Context, actor service.Actor, id string) error
}

type PropertyHandler struct {
	svc      propertyService
	validate *validator.Validate
	log      *zap.Logger
}

func NewPropertyHandler(svc propertyService, validate *validator.Validate, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, validate: validate, log: log}
}

type propertyReq struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Country     string   `json:"country"`
	City        string   `json:"city"`
	Images      []string `json:"images"`
}

func (r propertyReq) input() service.PropertyInput {
	return service.PropertyInput{
		Title:       r.Title,
		Type:        r.Type,
		Price:       r.Price,
		Description: r.Description,
		Country:     r.Country,
		City:        r.City,
		Images:      r.Images,
	}
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	var req propertyReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	property, err := h.svc.Create(c.Context(), actor, req.input())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "property": property})
}

func (h *PropertyHandler) GetAll(c *fiber.Ctx) error {
	f := repository.PropertyFilter{
		Type:     c.Query("type"),
		Country:  c.Query("country"),
		City:     c.Query("city"),
		MinPrice: c.QueryFloat("min_price"),
		MaxPrice: c.QueryFloat("max_price"),
		Page:     int64(c.QueryInt("page", 1)),
		Limit:    int64(c.QueryInt("limit", 10)),
	}
	properties, total, err := h.svc.List(c.Context(), f)
	if err != nil {
		return respondError(c, h.log, err)
	}

	pages := total / f.Limit
	if total%f.Limit != 0 {
		pages++
	}
	return c.JSON(fiber.Map{
		"total":   total,
		"page":    f.Page,
		"pages":   pages,
		"results": properties,
	})
}

func (h *PropertyHandler) GetByID(c *fiber.Ctx) error {
	property, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(property)
}

func (h *PropertyHandler) Update(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	var req propertyReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	property, err := h.svc.Update(c.Context(), actor, c.Params("id"), req.input())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "property": property})
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	if err := h.svc.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "property deleted"})
}
