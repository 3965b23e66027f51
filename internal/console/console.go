package console

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"sales-dashboard/internal/models"
)

// Colors used for highlighted values.
var (
	BrightCyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	BrightGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// barScale is the length of the longest bar in the terminal bar charts.
const barScale = 50

// Console renders dashboards and status messages for the terminal.
type Console struct {
	out io.Writer
}

func NewConsole() *Console {
	return NewConsoleTo(os.Stdout)
}

func NewConsoleTo(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) LogInfo(format string, a ...any) {
	fmt.Fprintln(c.out, pterm.Info.Sprintf(format, a...))
}

func (c *Console) LogWarning(format string, a ...any) {
	fmt.Fprintln(c.out, pterm.Warning.Sprintf(format, a...))
}

func (c *Console) LogSuccess(format string, a ...any) {
	fmt.Fprintln(c.out, pterm.Success.Sprintf(format, a...))
}

// RenderDashboard prints every chart as a section with a value table and a
// horizontal bar chart. Charts without data print the placeholder warning.
func (c *Console) RenderDashboard(dash *models.Dashboard) error {
	fmt.Fprintln(c.out, pterm.DefaultBox.WithTitle(dash.Title).Sprint(selectionSummary(dash.Selection)))

	for _, s := range dash.Charts {
		fmt.Fprint(c.out, pterm.DefaultSection.Sprint(s.Title))

		if s.Empty || len(s.Points) == 0 {
			fmt.Fprintln(c.out, pterm.Warning.Sprint(models.NoDataMessage))
			continue
		}

		table, err := pointsTable(s).Srender()
		if err != nil {
			return fmt.Errorf("render table for %s: %w", s.Chart, err)
		}
		fmt.Fprintln(c.out, table)

		bars := scaledBars(s.Points)
		if !hasValue(bars) {
			continue
		}
		chart, err := pterm.DefaultBarChart.
			WithHorizontal().
			WithBars(bars).
			Srender()
		if err != nil {
			return fmt.Errorf("render bars for %s: %w", s.Chart, err)
		}
		fmt.Fprintln(c.out, chart)
	}
	return nil
}

func hasValue(bars pterm.Bars) bool {
	for _, b := range bars {
		if b.Value > 0 {
			return true
		}
	}
	return false
}

// RenderDimensions prints the selectable branches and months.
func (c *Console) RenderDimensions(dims models.Dimensions) error {
	data := pterm.TableData{{"Branches", "Months"}}
	for i := 0; i < max(len(dims.Branches), len(dims.Months)); i++ {
		var branch, month string
		if i < len(dims.Branches) {
			branch = dims.Branches[i]
		}
		if i < len(dims.Months) {
			month = dims.Months[i]
		}
		data = append(data, []string{branch, month})
	}

	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("render dimensions: %w", err)
	}
	fmt.Fprintln(c.out, table)
	return nil
}

func selectionSummary(sel models.Selection) string {
	onOff := func(b bool) string {
		if b {
			return BrightGreen("applied")
		}
		return BrightYellow("ignored")
	}
	return fmt.Sprintf("Branch: %s (%s)\nMonth: %s (%s)\nPer-branch month: %s (%s)",
		BrightCyan(sel.Overview.Branch), onOff(sel.Overview.ApplyBranch),
		BrightCyan(sel.Overview.Month), onOff(sel.Overview.ApplyMonth),
		BrightCyan(sel.PerBranch.Month), onOff(sel.PerBranch.ApplyMonth),
	)
}

func pointsTable(s models.Series) *pterm.TablePrinter {
	header := []string{s.XLabel, s.YLabel}
	if s.ShareLabel != "" {
		header = append(header, s.ShareLabel)
	}
	data := pterm.TableData{header}
	for _, p := range s.Points {
		row := []string{p.Key, strconv.FormatFloat(p.Value, 'f', 2, 64)}
		if s.ShareLabel != "" {
			share := "-"
			if p.Percent != nil {
				share = fmt.Sprintf("%.1f%%", *p.Percent)
			}
			row = append(row, share)
		}
		data = append(data, row)
	}
	return pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data)
}

// scaledBars maps values onto 0..barScale so small averages still draw.
func scaledBars(points []models.Point) pterm.Bars {
	maxValue := 0.0
	for _, p := range points {
		maxValue = math.Max(maxValue, p.Value)
	}
	bars := make(pterm.Bars, len(points))
	for i, p := range points {
		v := 0
		if maxValue > 0 {
			v = int(math.Round(p.Value / maxValue * barScale))
		}
		bars[i] = pterm.Bar{Label: p.Key, Value: v}
	}
	return bars
}
