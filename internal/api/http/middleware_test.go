package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/garage-scheduler/internal/observability"
	apperrors "github.com/spec-kit/garage-scheduler/pkg/util"
)

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func middlewareTestApp() *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (*http.Response, errorEnvelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return resp, envelope
}

func TestErrorMiddlewareMapsDomainErrors(t *testing.T) {
	app := middlewareTestApp()
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return apperrors.NewSchedulingConflict(map[string]any{"mechanic_id": "m-1"})
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("appointment", nil)
	})

	resp, envelope := doRequest(t, app, "/conflict")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SCHEDULING_CONFLICT", envelope.Error.Code)
	assert.Equal(t, "mechanic already booked for this time", envelope.Error.Message)
	assert.Equal(t, "m-1", envelope.Error.Details["mechanic_id"])

	resp, envelope = doRequest(t, app, "/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestErrorMiddlewareHidesUnknownErrors(t *testing.T) {
	app := middlewareTestApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	resp, envelope := doRequest(t, app, "/boom")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
	assert.Equal(t, "internal server error", envelope.Error.Message)
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	app := middlewareTestApp()
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("handler exploded")
	})

	resp, envelope := doRequest(t, app, "/panic")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
}

func TestSuccessfulRequestsPassThrough(t *testing.T) {
	app := middlewareTestApp()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
