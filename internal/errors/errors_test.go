package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorImplementsError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestUnknownDomainError(t *testing.T) {
	err := UnknownDomainError("GPU")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "UNKNOWN_DOMAIN", err.ErrorCode)
	assert.Contains(t, err.Message, "GPU")
	assert.Equal(t, "GPU", err.Details)
}

func TestRenderErrorWithAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RenderError(rec, req, ErrValidationFailed)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_FAILED", body.ErrorCode)
}

func TestRenderErrorWrapsGenericError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RenderError(rec, req, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.ErrorCode)
	assert.Equal(t, "disk on fire", body.Details)
}

func TestErrValidationCarriesField(t *testing.T) {
	err := ErrValidation("window_days", "must be at least 1")
	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "window_days", details.Field)
}
