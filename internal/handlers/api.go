package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const svgSuffix = ".svg"

type APIHandlers struct {
	analytics *services.Analytics
	renderer  *charts.Renderer
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, renderer *charts.Renderer, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		renderer:  renderer,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleDimensions(w http.ResponseWriter, r *http.Request) {
	dims, err := h.analytics.Dimensions()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, r, h.logger, dims, "public, max-age=300")
}

// HandleDashboard evaluates all six charts for the query selection.
func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := SelectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dash, err := h.analytics.Dashboard(r.Context(), sel)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeSuccess(w, r, h.logger, dash, "no-cache")
}

func (h *APIHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	series, ok := h.chart(w, r, models.ChartID(r.PathValue("id")))
	if !ok {
		return
	}

	writeSuccess(w, r, h.logger, series, "no-cache")
}

// HandleChartSVG serves /charts/{file} where file is "<chart id>.svg".
func (h *APIHandlers) HandleChartSVG(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if !strings.HasSuffix(file, svgSuffix) {
		writeError(w, r, h.logger, errors.NotFound("Chart images are served as .svg"))
		return
	}

	series, ok := h.chart(w, r, models.ChartID(strings.TrimSuffix(file, svgSuffix)))
	if !ok {
		return
	}

	svg, err := h.renderer.RenderString(series)
	if err != nil {
		writeError(w, r, h.logger, errors.InternalWrap(err, "Failed to render chart"))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(svg))
}

func (h *APIHandlers) chart(w http.ResponseWriter, r *http.Request, id models.ChartID) (models.Series, bool) {
	sel, err := SelectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return models.Series{}, false
	}

	series, err := h.analytics.Chart(r.Context(), id, sel)
	if err != nil {
		writeError(w, r, h.logger, err)
		return models.Series{}, false
	}
	return series, true
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.analytics.Ready() {
		writeError(w, r, h.logger, errors.ServiceUnavailable("Dataset is not loaded yet"))
		return
	}

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	writeSuccess(w, r, h.logger, healthData, "no-store")
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, r, h.logger, h.analytics.Stats(), "no-store")
}
