package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-school/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubAuthorizer struct {
	allowed map[string]bool
	err     error
}

func (s *stubAuthorizer) HasPermission(ctx context.Context, userID string, permission string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.allowed[permission], nil
}

func newGatedApp(authorizer Authorizer, permission string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		AuthMiddleware(false),
		RequirePermission(authorizer, false, permission),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"success": true})
		})
	return app
}

func bearerRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func freshToken(t *testing.T) string {
	t.Helper()
	utils.Configure("rbac-test-secret", time.Hour)
	token, err := utils.GenerateToken(primitive.NewObjectID())
	require.NoError(t, err)
	return token
}

func TestRequirePermissionAllows(t *testing.T) {
	token := freshToken(t)
	app := newGatedApp(&stubAuthorizer{allowed: map[string]bool{"view_users": true}}, "view_users")

	resp, err := app.Test(bearerRequest(t, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermissionDeniesWithPermissionName(t *testing.T) {
	token := freshToken(t)
	app := newGatedApp(&stubAuthorizer{allowed: map[string]bool{}}, "approve_users")

	resp, err := app.Test(bearerRequest(t, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.Success)
	require.Contains(t, body.Message, "approve_users")
}

func TestRequirePermissionFailsClosedOnError(t *testing.T) {
	token := freshToken(t)
	app := newGatedApp(&stubAuthorizer{err: errors.New("store down")}, "view_users")

	resp, err := app.Test(bearerRequest(t, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	utils.Configure("rbac-test-secret", time.Hour)
	app := newGatedApp(&stubAuthorizer{allowed: map[string]bool{"view_users": true}}, "view_users")

	// No header at all.
	resp, err := app.Test(bearerRequest(t, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token.
	resp, err = app.Test(bearerRequest(t, "not-a-jwt"))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Token signed under a different secret.
	utils.Configure("some-other-secret", time.Hour)
	foreign, err := utils.GenerateToken(primitive.NewObjectID())
	require.NoError(t, err)
	utils.Configure("rbac-test-secret", time.Hour)

	resp, err = app.Test(bearerRequest(t, foreign))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSkipAuthBypassesGate(t *testing.T) {
	app := fiber.New()
	app.Get("/guarded",
		AuthMiddleware(true),
		RequirePermission(&stubAuthorizer{allowed: map[string]bool{}}, true, "manage_settings"),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"success": true})
		})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
