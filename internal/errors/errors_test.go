package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad branch"), http.StatusBadRequest},
		{BadRequest("bad"), http.StatusBadRequest},
		{NotFound("no chart"), http.StatusNotFound},
		{RateLimit("slow down"), http.StatusTooManyRequests},
		{ServiceUnavailable("loading"), http.StatusServiceUnavailable},
		{Internal("oops"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode)
		})
	}
}

func TestWrap_Unwraps(t *testing.T) {
	cause := stderrors.New("root cause")
	err := ValidationWrap(cause, "invalid selection")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "root cause")
	assert.Contains(t, err.Error(), string(CodeValidation))
}

func TestWithDetails_Copies(t *testing.T) {
	base := NotFound("chart not found")
	detailed := base.WithDetails("unknown chart \"pie\"")

	assert.Empty(t, base.Details)
	assert.Equal(t, "unknown chart \"pie\"", detailed.Details)
}

func TestWriteError_AppError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, discardLogger(), fmt.Errorf("handler: %w", Validation("unknown branch")), "req-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "unknown branch", resp.Error.Message)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

func TestWriteError_PlainError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, discardLogger(), stderrors.New("disk on fire"), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")
}

func TestWriteSuccessWithHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteSuccessWithHeaders(w, map[string]int{"n": 1}, map[string]string{"Cache-Control": "no-store"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"success":true,"data":{"n":1}}`, w.Body.String())
}

func TestWriteSuccess_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	err := WriteSuccess(w, map[string]any{"bad": func() {}})

	assert.Error(t, err)
	assert.Zero(t, w.Body.Len())
}

func TestClassify(t *testing.T) {
	errUnknown := stderrors.New("unknown chart")
	errMissing := stderrors.New("dataset not loaded")
	rules := []Rule{
		{Target: errUnknown, Code: CodeNotFound},
		{Target: errMissing, Code: CodeServiceUnavail, Message: "Dataset is not loaded yet"},
	}

	tests := []struct {
		name    string
		err     error
		code    ErrorCode
		message string
	}{
		{"app error passes through", fmt.Errorf("wrap: %w", Validation("bad month")), CodeValidation, "bad month"},
		{"rule uses error text", fmt.Errorf("%w: %q", errUnknown, "pie"), CodeNotFound, `unknown chart: "pie"`},
		{"rule message", errMissing, CodeServiceUnavail, "Dataset is not loaded yet"},
		{"cancelled", fmt.Errorf("evaluate: %w", context.Canceled), CodeServiceUnavail, "Request was cancelled"},
		{"deadline", context.DeadlineExceeded, CodeServiceUnavail, "Request timed out"},
		{"unmatched", stderrors.New("boom"), CodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, rules...)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestWriteError_DoesNotMutateSharedError(t *testing.T) {
	shared := NotFound("no chart")

	WriteError(httptest.NewRecorder(), discardLogger(), shared, "req-1")
	assert.Empty(t, shared.RequestID)
}
