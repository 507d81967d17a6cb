package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"rag-tutor/internal/domain"
	"rag-tutor/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v))
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.NewValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", domain.NewNotFoundError("missing"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid attempt", domain.NewInvalidAttemptError("empty"), http.StatusConflict, "INVALID_ATTEMPT"},
		{"generation", domain.NewGenerationError("no passage", nil), http.StatusUnprocessableEntity, "GENERATION_FAILURE"},
		{"upstream", domain.NewUpstreamError("llm down", errors.New("503")), http.StatusBadGateway, "UPSTREAM_FAILURE"},
		{"internal", domain.NewInternalError("oops", nil), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unknown", errors.New("plain"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"fiber", fiber.NewError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "HTTP_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp()
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			decode(t, resp, &body)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
		})
	}
}

func TestErrorHandler_DetailsAndWrapping(t *testing.T) {
	app := newTestApp()
	app.Get("/", func(c *fiber.Ctx) error {
		inner := domain.NewUpstreamError("no chunks could be stored", nil).WithContext("chunkCount", 2)
		return errors.Join(errors.New("outer"), inner)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, float64(2), body.Details["chunkCount"])
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	app := newTestApp()
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.ValidationErrors{domain.NewMissingFieldError("subject")}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ValidationErrorResponse
	decode(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "subject", body.Errors[0].Field)
}

func TestValidateTopicsQuery(t *testing.T) {
	vm := NewValidationMiddleware()
	app := newTestApp()
	app.Get("/topics", vm.ValidateTopicsQuery(), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals(TopicsRequestKey).(dto.TopicsRequest))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/topics?subject=BM&year=3", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.TopicsRequest
	decode(t, resp, &got)
	assert.Equal(t, 3, got.Year)

	for _, target := range []string{"/topics?subject=BM", "/topics?subject=BM&year=three", "/topics?year=3", "/topics?subject=BM&year=7"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestValidateProgressQuery(t *testing.T) {
	vm := NewValidationMiddleware()
	app := newTestApp()
	app.Get("/progress", vm.ValidateProgressQuery(), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals(ProgressRequestKey).(dto.ProgressRequest))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/progress", nil))
	require.NoError(t, err)
	var got dto.ProgressRequest
	decode(t, resp, &got)
	assert.Equal(t, dto.DefaultProgressSize, got.Limit)

	for _, target := range []string{"/progress?limit=0", "/progress?limit=101", "/progress?limit=x"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}
