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

type userService interface {
	Create(ctx context.Context, in service.CreateUserInput) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, f repository.UserFilter) ([]models.User, int64, error)
	Update(ctx context.Context, id string, in service.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id string) error
	RegisterDeviceToken(ctx context.Context, userID, token string) error
}

type UserHandler struct {
	svc      userService
	validate *validator.Validate
	log      *zap.Logger
}

func NewUserHandler(svc userService, validate *validator.Validate, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, validate: validate, log: log}
}

type createUserReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Country  string `json:"country"`
	City     string `json:"city"`
}

// Create adds a user on behalf of an admin, any role allowed.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req createUserReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.svc.Create(c.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
		Country:  req.Country,
		City:     req.City,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "user": user})
}

func (h *UserHandler) GetAll(c *fiber.Ctx) error {
	f := repository.UserFilter{
		Name:    c.Query("name"),
		Role:    c.Query("role"),
		Country: c.Query("country"),
		City:    c.Query("city"),
		Page:    int64(c.QueryInt("page", 1)),
		Limit:   int64(c.QueryInt("limit", 10)),
	}
	users, total, err := h.svc.List(c.Context(), f)
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
		"results": users,
	})
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(user)
}

type updateUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Country  string `json:"country"`
	City     string `json:"city"`
	Password string `json:"password"`
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req updateUserReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	user, err := h.svc.Update(c.Context(), c.Params("id"), service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Country:  req.Country,
		City:     req.City,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "user deleted"})
}

type deviceTokenReq struct {
	DeviceToken string `json:"deviceToken"`
}

// RegisterDeviceToken stores the caller's push token for later fan-out.
func (h *UserHandler) RegisterDeviceToken(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"})
	}
	var req deviceTokenReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.svc.RegisterDeviceToken(c.Context(), actor.ID.Hex(), req.DeviceToken); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "device token registered"})
}
