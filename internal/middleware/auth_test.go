package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohammedcode007/ByoutBackNew/internal/auth"
	"github.com/Mohammedcode007/ByoutBackNew/internal/models"
)

func newAuthApp(t *testing.T) (*fiber.App, *auth.Manager) {
	t.Helper()
	mgr, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", JWTAuth(mgr), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("role"),
		})
	})
	app.Get("/admin", JWTAuth(mgr), RequireRoles(models.RoleAdmin, models.RoleOwner), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, mgr
}

func TestJWTAuth_ValidTokenSetsLocals(t *testing.T) {
	app, mgr := newAuthApp(t)
	signed, _, err := mgr.Generate("user-123", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTAuth_MissingAndMalformedHeaders(t *testing.T) {
	app, _ := newAuthApp(t)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer bad-token"} {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header: %q", header)
	}
}

func TestRequireRoles(t *testing.T) {
	app, mgr := newAuthApp(t)

	cases := []struct {
		role models.Role
		want int
	}{
		{models.RoleAdmin, fiber.StatusOK},
		{models.RoleOwner, fiber.StatusOK},
		{models.RoleUser, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		signed, _, err := mgr.Generate("user-123", tc.role)
		require.NoError(t, err)

		req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, "role: %s", tc.role)
	}
}
