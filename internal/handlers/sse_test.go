package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"

	"sales-dashboard/internal/analytics"
	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

func newTestSSE(a *services.Analytics) *SSEHandlers {
	return NewSSEHandlers(a, charts.NewRenderer(), testLogger())
}

func TestSSEHandlers_HandleDashboard(t *testing.T) {
	h := newTestSSE(createTestAnalytics())

	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/sse/dashboard", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	body := w.Body.String()
	assert.Equal(t, 7, strings.Count(body, "event: datastar-patch-elements"), "six panels and the status banner")
	assert.Contains(t, body, "event: datastar-patch-signals")
	for _, id := range []string{
		"chart-top-models", "chart-transactions-by-time", "chart-transactions-per-branch",
		"chart-avg-basket-value", "chart-avg-basket-size", "chart-total-sales",
	} {
		assert.Contains(t, body, `id="`+id+`"`)
	}
	assert.Contains(t, body, `"branch":"Decathlon Makati"`)
}

func TestSSEHandlers_DatastarSignals(t *testing.T) {
	h := newTestSSE(createTestAnalytics())

	signals := `{"overview":{"branch":"Decathlon Alabang","applyBranch":true,"month":"July","applyMonth":true},"perBranch":{"month":"June","applyMonth":false}}`
	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard?datastar="+url.QueryEscape(signals), nil)
	w := httptest.NewRecorder()
	h.HandleDashboard(w, req)

	body := w.Body.String()
	assert.Contains(t, body, `"top-models":{"empty":true`)
	assert.Contains(t, body, `class="panel empty"`)
	assert.Contains(t, body, "No data available")
	assert.Contains(t, body, `"applyMonth":true`)
}

func TestSSEHandlers_InvalidSelectionPatchesStatus(t *testing.T) {
	h := newTestSSE(createTestAnalytics())

	signals := `{"overview":{"branch":"Decathlon Cebu"}}`
	req := httptest.NewRequest(http.MethodGet, "/sse/dashboard?datastar="+url.QueryEscape(signals), nil)
	w := httptest.NewRecorder()
	h.HandleDashboard(w, req)

	body := w.Body.String()
	assert.Contains(t, body, `id="dashboard-status"`)
	assert.Contains(t, body, "unknown branch")
	assert.NotContains(t, body, "chart-top-models")
	assert.NotContains(t, body, "datastar-patch-signals")
}

func TestSSEHandlers_NotLoaded(t *testing.T) {
	a := services.NewAnalytics(analytics.DefaultOptions(), config.DefaultPresentation(), testLogger())
	h := newTestSSE(a)

	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/sse/dashboard", nil))

	assert.Contains(t, w.Body.String(), "Dataset is not loaded yet")
}

func TestSSEHandlers_PanelRenderFailurePatchesStatus(t *testing.T) {
	h := newTestSSE(createTestAnalytics())
	rendered := 0
	h.panel = func(p templates.Panel) templ.Component {
		rendered++
		if rendered > 1 {
			return templ.ComponentFunc(func(context.Context, io.Writer) error {
				return errors.New("template failed")
			})
		}
		return templates.ChartPanel(p)
	}

	w := httptest.NewRecorder()
	h.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/sse/dashboard", nil))

	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, "event: datastar-patch-elements"), "one panel and the status banner")
	assert.Contains(t, body, `id="chart-top-models"`)
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "Could not update the dashboard")
	assert.NotContains(t, body, "datastar-patch-signals")
}
