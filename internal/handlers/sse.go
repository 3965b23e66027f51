package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	analytics *services.Analytics
	renderer  *charts.Renderer
	logger    *slog.Logger
	panel     func(templates.Panel) templ.Component
}

func NewSSEHandlers(analytics *services.Analytics, renderer *charts.Renderer, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		renderer:  renderer,
		logger:    logger,
		panel:     templates.ChartPanel,
	}
}

type chartSignal struct {
	Empty  bool `json:"empty"`
	Points int  `json:"points"`
	Rows   int  `json:"rows"`
}

type dashboardSignals struct {
	Overview  models.OverviewFilters  `json:"overview"`
	PerBranch models.PerBranchFilters `json:"perBranch"`
	Charts    map[string]chartSignal  `json:"charts"`
}

// readSelection takes the selection from Datastar signals when present and
// falls back to query parameters.
func readSelection(r *http.Request) (models.Selection, error) {
	if r.URL.Query().Get("datastar") == "" {
		return SelectionFromQuery(r.URL.Query())
	}

	var sel models.Selection
	if err := datastar.ReadSignals(r, &sel); err != nil {
		return sel, errors.BadRequest("Malformed dashboard signals")
	}
	return sel, nil
}

// HandleDashboard recomputes every chart for the current selection and
// patches the six panels, the status banner and the resolved signals.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, readErr := readSelection(r)

	sse := datastar.NewSSE(w, r)

	if readErr != nil {
		h.patchStatus(r.Context(), sse, readErr)
		return
	}

	dash, err := h.analytics.Dashboard(r.Context(), sel)
	if err != nil {
		h.patchStatus(r.Context(), sse, err)
		return
	}

	signals := dashboardSignals{
		Overview:  dash.Selection.Overview,
		PerBranch: dash.Selection.PerBranch,
		Charts:    make(map[string]chartSignal, len(dash.Charts)),
	}

	for _, s := range dash.Charts {
		panel, err := renderPanel(h.renderer, s)
		if err != nil {
			h.logger.Error("render chart", "chart", s.Chart, "error", err)
			panel = templates.Panel{Chart: s.Chart, Group: s.Group, Title: s.Title, Empty: true}
		}

		html, err := renderComponent(r.Context(), h.panel(panel))
		if err != nil {
			h.logger.Error("render panel", "chart", s.Chart, "error", err)
			h.patchStatus(r.Context(), sse, err)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch panel", "chart", s.Chart, "error", err)
			return
		}

		signals.Charts[string(s.Chart)] = chartSignal{
			Empty:  s.Empty,
			Points: len(s.Points),
			Rows:   s.WorkingRows,
		}
	}

	h.patchStatus(r.Context(), sse, nil)

	if err := sse.MarshalAndPatchSignals(signals); err != nil {
		h.logger.Warn("patch signals", "error", err)
	}
}

// patchStatus shows err in the status banner, or clears it when err is nil.
func (h *SSEHandlers) patchStatus(ctx context.Context, sse *datastar.ServerSentEventGenerator, err error) {
	message := ""
	if err != nil {
		h.logger.Warn("dashboard update failed", "error", err)
		message = "Could not update the dashboard"
		if appErr := classify(err); appErr.Code != errors.CodeInternal {
			message = appErr.Message
		}
	}

	html, renderErr := renderComponent(ctx, templates.Status(message))
	if renderErr != nil {
		h.logger.Error("render status", "error", renderErr)
		return
	}
	if patchErr := sse.PatchElements(html); patchErr != nil {
		h.logger.Warn("patch status", "error", patchErr)
	}
}
