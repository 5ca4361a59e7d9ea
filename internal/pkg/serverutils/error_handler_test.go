package serverutils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(handlerErr error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.NewNopLogger())})
	app.Use(ErrorHandlerMiddleware())
	app.Get("/", func(ctx *fiber.Ctx) error { return handlerErr })
	app.Get("/panic", func(ctx *fiber.Ctx) error { panic("boom") })
	return app
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"invalid input", apperror.InvalidInput("query is required"), 400, "InvalidInput"},
		{"unsupported format", apperror.UnsupportedFormat("notes.txt"), 400, "UnsupportedFormatError"},
		{"not found", apperror.NotFound("no such document"), 404, "NotFoundError"},
		{"embedding", apperror.EmbeddingService("timeout", errors.New("deadline")), 500, "EmbeddingServiceError"},
		{"partial", &apperror.PartialIngestionError{DocumentId: "x", Stored: 2, Expected: 3}, 500, "PartialIngestionError"},
		{"plain", errors.New("boom"), 500, "InternalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newTestApp(tt.err).Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestErrorHandlerKeepsFiberCode(t *testing.T) {
	resp, err := newTestApp(fiber.ErrRequestEntityTooLarge).Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestErrorHandlerMiddlewareRecoversPanic(t *testing.T) {
	resp, err := newTestApp(nil).Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Query string `validate:"required,notblank"`
	}

	assert.NoError(t, ValidateRequest(request{Query: "what?"}))

	err := ValidateRequest(request{Query: "   "})
	require.Error(t, err)
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "query")
}
