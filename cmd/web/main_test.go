package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Chdir(t.TempDir())
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func newTestAnalytics(cfg *config.Config) *services.Analytics {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := services.NewAnalytics(analyticsOptions(cfg), config.DefaultPresentation(), logger)
	a.SetData([]models.Transaction{
		{BusinessUnit: "Decathlon Makati", Month: "June", TimeOfDay: "9 AM-10 AM", TransactionID: "T1", CustomerID: "C1", Quantity: 2, UnitPrice: 100, Model: "M1"},
		{BusinessUnit: "Decathlon Alabang", Month: "July", TimeOfDay: "2 PM-3 PM", TransactionID: "T2", CustomerID: "C2", Quantity: 1, UnitPrice: 300, Model: "M2"},
	})
	return a
}

func TestAnalyticsOptions(t *testing.T) {
	t.Setenv("DASHBOARD_TOP_N", "3")
	t.Setenv("DASHBOARD_ONLINE_BRANCH", "Shop Online")
	cfg := testConfig(t)

	opts := analyticsOptions(cfg)
	assert.Equal(t, 3, opts.TopN)
	assert.Equal(t, "Shop Online", opts.OnlineBranch)
	assert.Equal(t, "Non Members", opts.NonMemberID)
	assert.Len(t, opts.TimeOfDayOrder, 19)
}

func TestBuildHandler(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler, err := buildHandler(cfg, newTestAnalytics(cfg), logger)
	require.NoError(t, err)

	t.Run("page with middleware headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Contains(t, w.Body.String(), "Decathlon Sales Dashboard")
	})

	t.Run("svg is compressed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/charts/total-sales.svg", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	})

	t.Run("event stream is not compressed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/sse/dashboard", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Contains(t, w.Body.String(), "datastar-patch-elements")
	})

	t.Run("validation error envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/charts?month=December", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		assert.Contains(t, w.Body.String(), w.Header().Get("X-Request-ID"))
	})
}
