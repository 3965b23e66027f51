package models

import "time"

type ChartID string

// NoDataMessage replaces a chart whose working set is empty.
const NoDataMessage = "No data available"

const (
	ChartTopModels             ChartID = "top-models"
	ChartTransactionsByTime    ChartID = "transactions-by-time"
	ChartTransactionsPerBranch ChartID = "transactions-per-branch"
	ChartAvgBasketValue        ChartID = "avg-basket-value"
	ChartAvgBasketSize         ChartID = "avg-basket-size"
	ChartTotalSales            ChartID = "total-sales"
)

// ChartGroup identifies which set of selectors drives a chart.
type ChartGroup string

const (
	GroupOverview  ChartGroup = "overview"
	GroupPerBranch ChartGroup = "per-branch"
)

// OverviewFilters drive the top models and time of day charts.
type OverviewFilters struct {
	Branch      string `json:"branch"`
	ApplyBranch bool   `json:"applyBranch"`
	Month       string `json:"month"`
	ApplyMonth  bool   `json:"applyMonth"`
}

// PerBranchFilters drive the per store branch section. It has its own month
// selector and a single toggle.
type PerBranchFilters struct {
	Month      string `json:"month"`
	ApplyMonth bool   `json:"applyMonth"`
}

type Selection struct {
	Overview  OverviewFilters  `json:"overview"`
	PerBranch PerBranchFilters `json:"perBranch"`
}

type Figure struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Point struct {
	Key     string   `json:"key"`
	Value   float64  `json:"value"`
	Percent *float64 `json:"percent,omitempty"`
}

// Series is the ordered result of one chart evaluation. Empty is set when
// the chart's working set had no rows; Points is then empty.
type Series struct {
	Chart        ChartID    `json:"chart"`
	Group        ChartGroup `json:"group"`
	Title        string     `json:"title"`
	XLabel       string     `json:"x_label"`
	YLabel       string     `json:"y_label"`
	ShareLabel   string     `json:"share_label,omitempty"`
	RotateLabels bool       `json:"rotate_labels,omitempty"`
	Figure       Figure     `json:"figure"`
	Points       []Point    `json:"points"`
	Empty        bool       `json:"empty"`
	WorkingRows  int        `json:"working_rows"`
}

type Dashboard struct {
	Title       string    `json:"title"`
	Selection   Selection `json:"selection"`
	Charts      []Series  `json:"charts"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Chart returns the series with the given id, if present.
func (d *Dashboard) Chart(id ChartID) (Series, bool) {
	for _, s := range d.Charts {
		if s.Chart == id {
			return s, true
		}
	}
	return Series{}, false
}
