package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balagrajendran/purchase-management-sub000/internal/domain"
	apphttp "github.com/balagrajendran/purchase-management-sub000/internal/interfaces/http"
	"github.com/balagrajendran/purchase-management-sub000/pkg/logger"
)

func TestOriginAllowed(t *testing.T) {
	allowed := apphttp.OriginAllowed([]string{"https://ops.example.com"})
	cases := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:5173", true},
		{"http://localhost", true},
		{"http://127.0.0.1:3000", true},
		{"https://ops.example.com", true},
		{"https://ops.example.com/", true},
		{"https://purchase-ui.web.app", true},
		{"https://purchase-ui.firebaseapp.com", true},
		{"http://purchase-ui.web.app", false},
		{"https://web.app", false},
		{"https://evil.example.com", false},
		{"https://localhost.evil.com", false},
		{"null", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, allowed(tc.origin), tc.origin)
	}
}

func TestCORS_Preflight(t *testing.T) {
	app := fiber.New()
	app.Use(apphttp.CORS(nil))
	app.Get("/api/clients", func(c *fiber.Ctx) error { return c.SendString("[]") })

	req := httptest.NewRequest(http.MethodOptions, "/api/clients", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func errorApp(production bool, err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(production, logger.Nop())})
	app.Get("/boom", func(c *fiber.Ctx) error { return err })
	return app
}

func envelope(t *testing.T, app *fiber.App) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorHandler_Taxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Validation("clientId is required"), 400, apphttp.CodeValidation},
		{domain.NotFound("invoice", "x"), 404, apphttp.CodeNotFound},
		{domain.ErrUnauthorized, 401, apphttp.CodeUnauthorized},
		{domain.ErrForbidden, 403, apphttp.CodeForbidden},
		{domain.ErrConflict, 409, apphttp.CodeConflict},
		{domain.ErrInvalidTransition, 409, apphttp.CodeInvalidTransition},
		{domain.Storage("insert", errors.New("disk full")), 500, apphttp.CodeStorage},
		{errors.New("boom"), 500, apphttp.CodeUnexpected},
		{fiber.ErrTooManyRequests, 429, apphttp.CodeRateLimited},
	}
	for _, tc := range cases {
		status, body := envelope(t, errorApp(true, tc.err))
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, body["code"], tc.err.Error())
		assert.NotEmpty(t, body["error"])
		assert.NotContains(t, body, "stack")
	}
}

func TestErrorHandler_StackOutsideProduction(t *testing.T) {
	_, body := envelope(t, errorApp(false, domain.Storage("insert", errors.New("disk full"))))
	assert.Contains(t, body["stack"], "middleware_test.go", "stack points at where the error was created")

	_, body = envelope(t, errorApp(false, errors.New("boom")))
	assert.Equal(t, "boom", body["error"])
	assert.NotContains(t, body, "stack", "no stack was recorded for a plain error")

	_, body = envelope(t, errorApp(false, domain.Validation("bad")))
	assert.NotContains(t, body, "stack", "4xx never carries a stack")

	_, body = envelope(t, errorApp(true, domain.Storage("select", errors.New("pq: secret detail"))))
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, body, "stack")
}

func explode() { panic("kaboom") }

func TestErrorHandler_PanicStack(t *testing.T) {
	app := apphttp.NewApp(apphttp.AppConfig{Service: "test"}, logger.Nop())
	app.Get("/boom", func(c *fiber.Ctx) error {
		explode()
		return nil
	})
	status, body := envelope(t, app)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, apphttp.CodeUnexpected, body["code"])
	stack, _ := body["stack"].(string)
	assert.Contains(t, stack, "panic: kaboom")
	assert.Contains(t, stack, "explode", "stack is taken at the panic site")

	prod := apphttp.NewApp(apphttp.AppConfig{Service: "test", Production: true}, logger.Nop())
	prod.Get("/boom", func(c *fiber.Ctx) error {
		explode()
		return nil
	})
	status, body = envelope(t, prod)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, body, "stack")
}
