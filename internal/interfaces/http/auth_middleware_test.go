package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/shopdb-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/shopdb-api/pkg/jwt"
)

func identityApp(allowHeader bool) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", apphttp.AuthMiddleware(testJWTSecret, allowHeader), func(c *fiber.Ctx) error {
		return c.SendString(strconv.FormatInt(apphttp.GetUserID(c), 10) + ":" + apphttp.GetUsername(c))
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, err := pkgjwt.Generate(testJWTSecret, 42, "alice", "test", 5)
	require.NoError(t, err)

	status, body := whoami(t, identityApp(false), map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "42:alice", body)
}

func TestAuthMiddleware_TokenWinsOverHeader(t *testing.T) {
	token, err := pkgjwt.Generate(testJWTSecret, 42, "alice", "test", 5)
	require.NoError(t, err)

	status, body := whoami(t, identityApp(true), map[string]string{
		"Authorization":      "Bearer " + token,
		apphttp.HeaderUserID: "7",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "42:alice", body)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token, err := pkgjwt.Generate("another-secret", 42, "alice", "test", 5)
	require.NoError(t, err)

	status, _ := whoami(t, identityApp(true), map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthMiddleware_UserHeader(t *testing.T) {
	status, body := whoami(t, identityApp(true), map[string]string{apphttp.HeaderUserID: "7"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "7:", body)

	status, _ = whoami(t, identityApp(true), map[string]string{apphttp.HeaderUserID: "-3"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = whoami(t, identityApp(true), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
