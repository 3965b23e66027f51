package charts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func pct(v float64) *float64 { return &v }

func TestRender_BarChart(t *testing.T) {
	s := models.Series{
		Chart:      models.ChartTopModels,
		Title:      "Top 5 Models in Sales",
		YLabel:     "Sales (Php)",
		ShareLabel: "Percentage in Total Sales (%)",
		Figure:     models.Figure{Width: 800, Height: 400},
		Points: []models.Point{
			{Key: "8529", Value: 1500, Percent: pct(75)},
			{Key: "8330", Value: 500, Percent: pct(25)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(&buf, s))

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<svg"))
	assert.Contains(t, out, `width="800"`)
	assert.Contains(t, out, "8529")
	assert.Contains(t, out, "75.0%")
	assert.NotContains(t, out, models.NoDataMessage)
}

func TestRender_ShareAxis(t *testing.T) {
	out, err := NewRenderer().RenderString(models.Series{
		Chart:      models.ChartTopModels,
		Title:      "Top 5 Models in Sales",
		ShareLabel: "Percentage in Total Sales (%)",
		Points: []models.Point{
			{Key: "8529", Value: 1500, Percent: pct(75)},
			{Key: "8330", Value: 500, Percent: pct(25)},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Percentage in Total Sales (%)")
	for _, tick := range []string{">0%<", ">20%<", ">60%<", ">100%<"} {
		assert.Contains(t, out, tick)
	}
}

func TestShareTotal(t *testing.T) {
	total, ok := shareTotal(models.Series{
		ShareLabel: "share",
		Points:     []models.Point{{Key: "a", Value: 0, Percent: pct(0)}, {Key: "b", Value: 50, Percent: pct(25)}},
	})
	require.True(t, ok)
	assert.InDelta(t, 200, total, 1e-9)

	_, ok = shareTotal(models.Series{Points: []models.Point{{Key: "a", Value: 1, Percent: pct(10)}}})
	assert.False(t, ok)

	_, ok = shareTotal(models.Series{ShareLabel: "share", Points: []models.Point{{Key: "a", Value: 1}}})
	assert.False(t, ok)
}

func TestRender_EscapesDatasetText(t *testing.T) {
	r := NewRenderer()

	out, err := r.RenderString(models.Series{
		Chart:  models.ChartTotalSales,
		Title:  `<img src=x onerror="alert(1)">`,
		YLabel: "<b>Sales</b>",
		Points: []models.Point{{Key: "<script>alert(1)</script>", Value: 10}},
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;script&gt;")

	placeholder, err := r.RenderString(models.Series{
		Chart: models.ChartTotalSales,
		Title: "<script>x</script>",
		Empty: true,
	})
	require.NoError(t, err)
	assert.NotContains(t, placeholder, "<script>")
}

func TestRender_RotatedLabelsAndZeros(t *testing.T) {
	points := make([]models.Point, 0, 19)
	for i := range 19 {
		points = append(points, models.Point{Key: "bucket" + string(rune('a'+i)), Value: 0})
	}
	points[4].Value = 3

	out, err := NewRenderer().RenderString(models.Series{
		Chart:        models.ChartTransactionsByTime,
		Title:        "Number of Transactions at Different Times of Day",
		RotateLabels: true,
		Points:       points,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
}

func TestRender_AllZeroValues(t *testing.T) {
	out, err := NewRenderer().RenderString(models.Series{
		Chart:  models.ChartTransactionsByTime,
		Points: []models.Point{{Key: "9 AM-10 AM"}, {Key: "10 AM-11 AM"}},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
}

func TestRender_EmptyPlaceholder(t *testing.T) {
	for _, id := range []models.ChartID{
		models.ChartTopModels,
		models.ChartTransactionsByTime,
		models.ChartTransactionsPerBranch,
		models.ChartAvgBasketValue,
		models.ChartAvgBasketSize,
		models.ChartTotalSales,
	} {
		t.Run(string(id), func(t *testing.T) {
			out, err := NewRenderer().RenderString(models.Series{
				Chart:  id,
				Title:  "Total Sales",
				Empty:  true,
				Points: []models.Point{},
			})
			require.NoError(t, err)
			assert.Contains(t, out, "<svg")
			assert.Contains(t, out, models.NoDataMessage)
			assert.Contains(t, out, `width="1000"`)
		})
	}
}

func TestNiceMax(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 1},
		{-5, 1},
		{1, 2},
		{3, 5},
		{9, 10},
		{180, 200},
		{2300, 2500},
		{9800, 20000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, niceMax(tt.in), "niceMax(%v)", tt.in)
	}
}

func TestBarGeometry(t *testing.T) {
	w, s := barGeometry(1000, 5)
	assert.Equal(t, 103, w)
	assert.Equal(t, 69, s)

	w, s = barGeometry(200, 100)
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, s)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "12", formatValue(12))
	assert.Equal(t, "12.50", formatValue(12.5))
	assert.Equal(t, "25K", formatValue(25_000))
	assert.Equal(t, "1.5M", formatValue(1_500_000))
}
