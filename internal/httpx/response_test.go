package httpx

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/salesboard/internal/apperr"
)

func doRequest(t *testing.T, handler fiber.Handler) (int, Envelope) {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return resp.StatusCode, envelope
}

func TestSuccessEnvelope(t *testing.T) {
	status, envelope := doRequest(t, func(c *fiber.Ctx) error {
		return Success(c, fiber.StatusCreated, "Created", fiber.Map{"id": "abc"})
	})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, envelope.Success)
	assert.Equal(t, "Created", envelope.Message)
	assert.NotNil(t, envelope.Data)
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{apperr.Validation("bad input"), fiber.StatusBadRequest},
		{apperr.Authentication("who are you"), fiber.StatusUnauthorized},
		{apperr.Forbidden("not yours"), fiber.StatusForbidden},
		{apperr.NotFound("gone"), fiber.StatusNotFound},
		{apperr.Conflict("duplicate"), fiber.StatusConflict},
		{apperr.Internal("boom"), fiber.StatusInternalServerError},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		err := tc.err
		status, envelope := doRequest(t, func(c *fiber.Ctx) error { return err })
		assert.Equal(t, tc.wantStatus, status)
		assert.False(t, envelope.Success)
		assert.NotEmpty(t, envelope.Message)
	}
}

func TestErrorHandlerHidesInternalDetails(t *testing.T) {
	status, envelope := doRequest(t, func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Something went wrong", envelope.Message)
}

func TestErrorHandlerValidationDetails(t *testing.T) {
	status, envelope := doRequest(t, func(c *fiber.Ctx) error {
		return apperr.ValidationDetails("Excel file contains errors", []fiber.Map{
			{"row": 2, "error": "Missing fields: revenue"},
		})
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Excel file contains errors", envelope.Message)
	assert.NotNil(t, envelope.Errors)
}
