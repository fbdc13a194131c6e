package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-pipeline/internal/observability"
	"github.com/spec-kit/support-pipeline/internal/repository"
)

func newErrorTestApp() *fiber.App {
	app := fiber.New()
	app.Use(errorHandlingMiddleware(zap.NewNop(), observability.NewMetrics()))
	return app
}

func decodeErrorBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body struct {
		Error map[string]any `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestErrorMiddlewareMapsDuplicateTicketToConflict(t *testing.T) {
	app := newErrorTestApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fmt.Errorf("create ticket: %w", repository.ErrDuplicateTicket)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
	if code := decodeErrorBody(t, resp)["code"]; code != "CONFLICT" {
		t.Errorf("error code = %v, want CONFLICT", code)
	}
}

func TestErrorMiddlewareRecoversPanic(t *testing.T) {
	app := newErrorTestApp()
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusInternalServerError)
	}
	if code := decodeErrorBody(t, resp)["code"]; code != "INTERNAL_ERROR" {
		t.Errorf("error code = %v, want INTERNAL_ERROR", code)
	}
}
