package handlers

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Mohammedcode007/ByoutBackNew/internal/apperrors"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/repository"
	"github.com/Mohammedcode007/ByoutBackNew/internal/service"
)

type stubUserService struct {
	createIn  *service.CreateUserInput
	createErr error
}

func (s *stubUserService) Create(_ context.Context, in service.CreateUserInput) (*models.User, error) {
	s.createIn = &in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &models.User{ID: primitive.NewObjectID(), Name: in.Name, Email: in.Email, Role: models.Role(in.Role)}, nil
}

func (s *stubUserService) Get(context.Context, string) (*models.User, error) {
	return &models.User{}, nil
}

func (s *stubUserService) List(context.Context, repository.UserFilter) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserService) Update(context.Context, string, service.UpdateUserInput) (*models.User, error) {
	return &models.User{}, nil
}

func (s *stubUserService) Delete(context.Context, string) error { return nil }

func (s *stubUserService) RegisterDeviceToken(context.Context, string, string) error { return nil }

func newUserApp(svc userService) *fiber.App {
	h := NewUserHandler(svc, validator.New(), zap.NewNop())
	app := fiber.New()
	app.Post("/api/users", h.Create)
	return app
}

func TestCreateUser_Created(t *testing.T) {
	svc := &stubUserService{}
	app := newUserApp(svc)

	resp, parsed := doJSON(t, app, fiber.MethodPost, "/api/users",
		`{"name":"Sara","email":"sara@example.com","password":"s3cret-pass","role":"owner"}`)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, parsed["success"])
	require.NotNil(t, svc.createIn)
	assert.Equal(t, "owner", svc.createIn.Role)
}

func TestCreateUser_ValidationFailures(t *testing.T) {
	cases := []string{
		`not json`,
		`{"email":"sara@example.com","password":"s3cret-pass"}`,
		`{"name":"Sara","email":"not-an-email","password":"s3cret-pass"}`,
		`{"name":"Sara","email":"sara@example.com","password":"short"}`,
	}
	for _, body := range cases {
		svc := &stubUserService{}
		app := newUserApp(svc)

		resp, _ := doJSON(t, app, fiber.MethodPost, "/api/users", body)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body: %s", body)
		assert.Nil(t, svc.createIn, "service must not be reached for body: %s", body)
	}
}

func TestCreateUser_DuplicateEmailMapsTo409(t *testing.T) {
	svc := &stubUserService{createErr: apperrors.ErrConflict}
	app := newUserApp(svc)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/users",
		`{"name":"Sara","email":"sara@example.com","password":"s3cret-pass"}`)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
