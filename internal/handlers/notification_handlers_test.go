package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Mohammedcode007/ByoutBackNew/internal/apperrors"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
	"github.com/Mohammedcode007/ByoutBackNew/internal/service"
)

type stubNotificationService struct {
	dispatchIn      *service.DispatchInput
	dispatchErr     error
	dispatchSummary service.DispatchSummary
	listErr         error
	deleteErr       error
}

func (s *stubNotificationService) Dispatch(_ context.Context, _ service.Actor, in service.DispatchInput) (*models.Notification, service.DispatchSummary, error) {
	s.dispatchIn = &in
	if s.dispatchErr != nil {
		return nil, service.DispatchSummary{}, s.dispatchErr
	}
	return &models.Notification{ID: primitive.NewObjectID(), Title: in.Title, Message: in.Message}, s.dispatchSummary, nil
}

func (s *stubNotificationService) ListAll(context.Context, service.Actor) ([]service.NotificationView, error) {
	return nil, s.listErr
}

func (s *stubNotificationService) ListForUser(context.Context, service.Actor, string) ([]service.NotificationView, error) {
	return nil, s.listErr
}

func (s *stubNotificationService) MarkRead(context.Context, service.Actor, string) (*models.Notification, error) {
	return &models.Notification{}, nil
}

func (s *stubNotificationService) Delete(context.Context, service.Actor, string) error {
	return s.deleteErr
}

func newNotificationApp(svc notificationService, authed bool) *fiber.App {
	h := NewNotificationHandler(svc, validator.New(), zap.NewNop())
	app := fiber.New()
	if authed {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user_id", primitive.NewObjectID().Hex())
			c.Locals("role", string(models.RoleAdmin))
			return c.Next()
		})
	}
	app.Post("/api/notifications", h.Send)
	app.Get("/api/notifications", h.GetAll)
	app.Get("/api/notifications/user/:userId?", h.GetForUser)
	app.Patch("/api/notifications/:id/read", h.MarkRead)
	app.Delete("/api/notifications/:id", h.Delete)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func TestSendNotification_Created(t *testing.T) {
	svc := &stubNotificationService{dispatchSummary: service.DispatchSummary{Sent: 2, Failed: 1}}
	app := newNotificationApp(svc, true)

	recipient := primitive.NewObjectID().Hex()
	body := fmt.Sprintf(`{"title":"New listing","message":"Check it out","recipientIds":[%q]}`, recipient)
	resp, parsed := doJSON(t, app, fiber.MethodPost, "/api/notifications", body)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, parsed["success"])

	results, ok := parsed["results"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, results["sent"])
	assert.EqualValues(t, 1, results["failed"])

	require.NotNil(t, svc.dispatchIn)
	assert.Equal(t, []string{recipient}, svc.dispatchIn.RecipientIDs)
}

func TestSendNotification_Unauthenticated(t *testing.T) {
	svc := &stubNotificationService{}
	app := newNotificationApp(svc, false)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/notifications", `{"title":"t","message":"m","recipientIds":["x"]}`)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Nil(t, svc.dispatchIn)
}

func TestSendNotification_ValidationFailures(t *testing.T) {
	cases := []string{
		`not json`,
		`{"message":"m","recipientIds":["x"]}`,
		`{"title":"t","recipientIds":["x"]}`,
		`{"title":"t","message":"m","recipientIds":[]}`,
		`{"title":"t","message":"m"}`,
	}
	for _, body := range cases {
		svc := &stubNotificationService{}
		app := newNotificationApp(svc, true)

		resp, _ := doJSON(t, app, fiber.MethodPost, "/api/notifications", body)

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body: %s", body)
		assert.Nil(t, svc.dispatchIn, "service must not be reached for body: %s", body)
	}
}

func TestSendNotification_ForbiddenMapsTo403(t *testing.T) {
	svc := &stubNotificationService{dispatchErr: apperrors.ErrForbidden}
	app := newNotificationApp(svc, true)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/notifications",
		fmt.Sprintf(`{"title":"t","message":"m","recipientIds":[%q]}`, primitive.NewObjectID().Hex()))

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSendNotification_InternalMapsTo500(t *testing.T) {
	svc := &stubNotificationService{dispatchErr: fmt.Errorf("%w: reconcile device tokens", apperrors.ErrInternal)}
	app := newNotificationApp(svc, true)

	resp, parsed := doJSON(t, app, fiber.MethodPost, "/api/notifications",
		fmt.Sprintf(`{"title":"t","message":"m","recipientIds":[%q]}`, primitive.NewObjectID().Hex()))

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal error", parsed["error"])
}

func TestGetNotifications_OK(t *testing.T) {
	app := newNotificationApp(&stubNotificationService{}, true)

	resp, parsed := doJSON(t, app, fiber.MethodGet, "/api/notifications", "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, parsed["success"])
}

func TestGetNotificationsForUser_NotFoundMapsTo404(t *testing.T) {
	app := newNotificationApp(&stubNotificationService{listErr: apperrors.ErrNotFound}, true)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/notifications/user/"+primitive.NewObjectID().Hex(), "")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteNotification_OK(t *testing.T) {
	app := newNotificationApp(&stubNotificationService{}, true)

	resp, parsed := doJSON(t, app, fiber.MethodDelete, "/api/notifications/"+primitive.NewObjectID().Hex(), "")

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, parsed["success"])
}
