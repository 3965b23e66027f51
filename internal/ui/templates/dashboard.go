package templates

import "sales-dashboard/internal/models"

//go:generate templ generate

const (
	DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"
	StatusID       = "dashboard-status"
)

// Panel is one rendered chart slot. SVG comes from the chart renderer, which
// escapes every dataset string it draws.
type Panel struct {
	Chart models.ChartID
	Group models.ChartGroup
	Title string
	SVG   string
	Empty bool
}

type DashboardPage struct {
	Title      string
	Layout     string
	Dimensions models.Dimensions
	Selection  models.Selection
	Panels     []Panel
}

// PanelsIn returns the panels of one section in display order.
func (p DashboardPage) PanelsIn(group models.ChartGroup) []Panel {
	var out []Panel
	for _, panel := range p.Panels {
		if panel.Group == group {
			out = append(out, panel)
		}
	}
	return out
}

// PanelID is the DOM id of a chart panel, the target of SSE patches.
func PanelID(chart models.ChartID) string {
	return "chart-" + string(chart)
}

func layoutClass(layout string) string {
	return "layout-" + layout
}
