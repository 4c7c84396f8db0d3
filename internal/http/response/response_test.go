package response

import (
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/cinescope/cinescope-server/internal/errors"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	Success(w, map[string]any{"id": "ses-1", "count": 3}, quietLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, Version, result.Version)
	assert.True(t, result.Success)
	dataMap, ok := result.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ses-1", dataMap["id"])
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"message": "test"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStatusCodeBoundary(t *testing.T) {
	tests := []struct {
		status          int
		expectedSuccess bool
	}{
		{200, true},
		{201, true},
		{399, true},
		{400, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		JSON(w, tt.status, nil, nil)

		var result Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, tt.expectedSuccess, result.Success, "status %d", tt.status)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		code   string
	}{
		{"not found", func(w http.ResponseWriter) { NotFound(w, "no such route", nil) }, http.StatusNotFound, "NOT_FOUND"},
		{"too many", func(w http.ResponseWriter) { TooManyRequests(w, "slow down", nil) }, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "boom", nil) }, http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)

			var result ErrorEnvelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, Version, result.Version)
			assert.False(t, result.Success)
			assert.Equal(t, tt.code, result.Code)
			assert.Equal(t, result.Message, result.Error)
		})
	}
}

func TestHandleError_DomainError(t *testing.T) {
	w := httptest.NewRecorder()

	err := domainerrors.Validation("bad filter").WithDetails(map[string]string{"filter": "must be one of: all movie series game"})
	HandleError(w, err, quietLogger())

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var result ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "VALIDATION", result.Code)
	assert.Equal(t, "bad filter", result.Message)
	assert.NotNil(t, result.Details)
}

func TestHandleError_Unknown(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("disk on fire"), quietLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestEnvelope_OmitEmpty(t *testing.T) {
	data, err := json.Marshal(Envelope{Version: Version, Success: true})
	require.NoError(t, err)

	assert.JSONEq(t, `{"v":1,"success":true}`, string(data))
}
