package charts

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-dashboard/internal/models"
)

const (
	defaultWidth  = 1000
	defaultHeight = 500

	// horizontal room taken by the y axis and padding
	axisAllowance = 140
	// extra right padding holding the share axis
	shareAxisWidth = 70
	shareTicks     = 5
)

var (
	barColor       = drawing.ColorFromHex("1f77b4")
	highlightColor = drawing.ColorFromHex("ff7f0e")
	mutedColor     = drawing.ColorFromHex("888888")
)

// Renderer draws chart series as SVG bar charts. Charts with a share
// label get their leading bar highlighted.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes s to w as SVG. Empty series render the no data placeholder.
func (r *Renderer) Render(w io.Writer, s models.Series) error {
	width, height := size(s.Figure)

	if s.Empty || len(s.Points) == 0 {
		return renderPlaceholder(w, s.Title, width, height)
	}

	bars := make([]chart.Value, len(s.Points))
	maxValue := 0.0
	for i, p := range s.Points {
		fill := barColor
		if i == 0 && s.ShareLabel != "" {
			fill = highlightColor
		}
		bars[i] = chart.Value{
			Label: html.EscapeString(barLabel(p)),
			Value: p.Value,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			},
		}
		maxValue = math.Max(maxValue, p.Value)
	}

	padRight, plotWidth := 20, width
	total, hasShare := shareTotal(s)
	if hasShare {
		padRight += shareAxisWidth
		plotWidth -= shareAxisWidth
	}
	barWidth, spacing := barGeometry(plotWidth, len(bars))
	yMax := niceMax(maxValue)

	// go-chart writes text into the SVG verbatim, so dataset values are
	// escaped before they reach it.
	bc := chart.BarChart{
		Title:  html.EscapeString(s.Title),
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: padRight, Bottom: 20},
		},
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis: chart.YAxis{
			Name:  html.EscapeString(s.YLabel),
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return formatValue(f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	if s.RotateLabels {
		bc.XAxis = chart.Style{TextRotationDegrees: 45}
	}
	if hasShare {
		bc.Elements = []chart.Renderable{shareAxis(html.EscapeString(s.ShareLabel), yMax, total)}
	}

	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render %s: %w", s.Chart, err)
	}
	return nil
}

// RenderString renders s into a string, for inlining into HTML.
func (r *Renderer) RenderString(s models.Series) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderPlaceholder(w io.Writer, title string, width, height int) error {
	rend, err := chart.SVG(width, height)
	if err != nil {
		return fmt.Errorf("create svg renderer: %w", err)
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("load default font: %w", err)
	}
	rend.SetFont(font)

	if title != "" {
		title = html.EscapeString(title)
		rend.SetFontColor(drawing.ColorBlack)
		rend.SetFontSize(16)
		tb := rend.MeasureText(title)
		rend.Text(title, (width-tb.Width())/2, 30)
	}

	rend.SetFontColor(mutedColor)
	rend.SetFontSize(20)
	tb := rend.MeasureText(models.NoDataMessage)
	rend.Text(models.NoDataMessage, (width-tb.Width())/2, height/2)

	if err := rend.Save(w); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}
	return nil
}

// shareTotal recovers the total behind the points' percentages. A series
// without a share label or without any non-zero percentage has none.
func shareTotal(s models.Series) (float64, bool) {
	if s.ShareLabel == "" {
		return 0, false
	}
	for _, p := range s.Points {
		if p.Percent != nil && *p.Percent > 0 {
			return p.Value * 100 / *p.Percent, true
		}
	}
	return 0, false
}

// shareAxis draws a secondary axis on the right of the plot mapping the bar
// scale [0, yMax] onto percentages of total.
func shareAxis(label string, yMax, total float64) chart.Renderable {
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		x := canvas.Right
		r.SetStrokeColor(mutedColor)
		r.SetStrokeWidth(1)
		r.MoveTo(x, canvas.Top)
		r.LineTo(x, canvas.Bottom)
		r.Stroke()

		if defaults.Font != nil {
			r.SetFont(defaults.Font)
		}
		r.SetFontColor(mutedColor)
		r.SetFontSize(10)

		for i := 0; i <= shareTicks; i++ {
			v := yMax * float64(i) / shareTicks
			y := canvas.Bottom - int(float64(canvas.Height())*v/yMax)
			r.MoveTo(x, y)
			r.LineTo(x+4, y)
			r.Stroke()
			r.Text(shareTickLabel(v*100/total), x+7, y+4)
		}

		tb := r.MeasureText(label)
		r.SetTextRotation(chart.DegreesToRadians(90))
		r.Text(label, x+shareAxisWidth-14, canvas.Top+(canvas.Height()-tb.Width())/2)
		r.ClearTextRotation()
	}
}

func shareTickLabel(pct float64) string {
	if pct == math.Trunc(pct) {
		return fmt.Sprintf("%.0f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

func size(f models.Figure) (int, int) {
	width, height := f.Width, f.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

// barGeometry splits the plot width evenly between bars, 60/40 bar to gap.
func barGeometry(width, n int) (barWidth, spacing int) {
	slot := (width - axisAllowance) / max(n, 1)
	barWidth = max(slot*3/5, 4)
	spacing = max(slot-barWidth, 2)
	return barWidth, spacing
}

func barLabel(p models.Point) string {
	if p.Percent == nil {
		return p.Key
	}
	return fmt.Sprintf("%s (%.1f%%)", p.Key, *p.Percent)
}

// niceMax rounds v up to a 1, 2, 2.5 or 5 multiple of a power of ten. The
// axis never collapses to a zero range.
func niceMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, step := range []float64{1, 2, 2.5, 5, 10} {
		if candidate := step * exp; candidate >= v*1.05 {
			return candidate
		}
	}
	return 20 * exp
}

func formatValue(v float64) string {
	switch {
	case math.Abs(v) >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case math.Abs(v) >= 10_000:
		return fmt.Sprintf("%.0fK", v/1_000)
	case v == math.Trunc(v):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
