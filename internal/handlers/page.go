package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	analytics *services.Analytics
	renderer  *charts.Renderer
	logger    *slog.Logger
}

func NewPageHandlers(analytics *services.Analytics, renderer *charts.Renderer, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		analytics: analytics,
		renderer:  renderer,
		logger:    logger,
	}
}

// HandleDashboard renders the full page for the query selection, so the
// first paint already shows all six charts.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	sel, err := SelectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dash, err := h.analytics.Dashboard(ctx, sel)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	dims, err := h.analytics.Dimensions()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page := templates.DashboardPage{
		Title:      dash.Title,
		Layout:     h.analytics.Presentation().Layout,
		Dimensions: dims,
		Selection:  dash.Selection,
		Panels:     make([]templates.Panel, 0, len(dash.Charts)),
	}
	for _, s := range dash.Charts {
		panel, err := renderPanel(h.renderer, s)
		if err != nil {
			writeError(w, r, h.logger, errors.InternalWrap(err, "Failed to render chart"))
			return
		}
		page.Panels = append(page.Panels, panel)
	}

	html, err := renderComponent(ctx, templates.Dashboard(page))
	if err != nil {
		writeError(w, r, h.logger, errors.InternalWrap(err, "Failed to render page"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}
