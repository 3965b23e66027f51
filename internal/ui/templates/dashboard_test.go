package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func testPage() DashboardPage {
	return DashboardPage{
		Title:  "Decathlon Sales Dashboard",
		Layout: "wide",
		Dimensions: models.Dimensions{
			Branches: []string{"Decathlon Makati", "Decathlon <Alabang>"},
			Months:   []string{"June", "July"},
		},
		Selection: models.Selection{
			Overview:  models.OverviewFilters{Branch: "Decathlon Makati", Month: "July", ApplyMonth: true},
			PerBranch: models.PerBranchFilters{Month: "June"},
		},
		Panels: []Panel{
			{Chart: models.ChartTopModels, Group: models.GroupOverview, Title: "Top 5 Models in Sales", SVG: "<svg id=\"top\"></svg>"},
			{Chart: models.ChartTotalSales, Group: models.GroupPerBranch, Title: "Total Sales", Empty: true},
		},
	}
}

func TestDashboard_Page(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Dashboard(testPage()).Render(context.Background(), &b))
	out := b.String()

	assert.True(t, strings.HasPrefix(strings.ToLower(out), "<!doctype html>"))
	assert.Contains(t, out, "<title>Decathlon Sales Dashboard</title>")
	assert.Contains(t, out, DatastarScript)
	assert.Contains(t, out, `class="layout-wide"`)
	assert.Contains(t, out, "&#34;applyMonth&#34;:true")
	assert.Contains(t, out, `data-bind="overview.branch"`)
	assert.Contains(t, out, `data-bind="perBranch.applyMonth"`)
	assert.Contains(t, out, `data-on:change="@get('/sse/dashboard')"`)
	assert.Contains(t, out, `<option value="Decathlon Makati" selected>`)
	assert.Contains(t, out, "Decathlon &lt;Alabang&gt;")
	assert.NotContains(t, out, "Decathlon <Alabang>")
	assert.Contains(t, out, `<option value="July" selected>`)
	assert.Contains(t, out, `id="dashboard-status"`)
}

func TestDashboard_PanelsInTheirSections(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Dashboard(testPage()).Render(context.Background(), &b))
	out := b.String()

	overview := strings.Index(out, `id="overview"`)
	perBranch := strings.Index(out, `id="per-branch"`)
	top := strings.Index(out, `id="chart-top-models"`)
	total := strings.Index(out, `id="chart-total-sales"`)

	require.True(t, overview >= 0 && perBranch >= 0 && top >= 0 && total >= 0)
	assert.True(t, overview < top && top < perBranch, "top models in overview section")
	assert.True(t, perBranch < total, "total sales in per branch section")
}

func TestChartPanel(t *testing.T) {
	t.Run("svg", func(t *testing.T) {
		var b strings.Builder
		require.NoError(t, ChartPanel(Panel{Chart: models.ChartAvgBasketSize, Title: "Average Basket Size", SVG: "<svg></svg>"}).Render(context.Background(), &b))

		assert.Equal(t, `<figure id="chart-avg-basket-size" class="panel"><figcaption>Average Basket Size</figcaption><svg></svg></figure>`, b.String())
	})

	t.Run("empty without svg", func(t *testing.T) {
		var b strings.Builder
		require.NoError(t, ChartPanel(Panel{Chart: models.ChartTopModels, Title: "Top", Empty: true}).Render(context.Background(), &b))

		assert.Contains(t, b.String(), `class="panel empty"`)
		assert.Contains(t, b.String(), models.NoDataMessage)
	})
}

func TestDashboard_EscapesDatasetText(t *testing.T) {
	page := testPage()
	page.Title = `<script>alert("title")</script>`
	page.Dimensions.Months = append(page.Dimensions.Months, `"><img src=x onerror=alert(1)>`)
	page.Panels[1].Title = "<b>Total</b>"

	var b strings.Builder
	require.NoError(t, Dashboard(page).Render(context.Background(), &b))
	out := b.String()

	assert.NotContains(t, out, "<script>alert")
	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "<b>Total</b>")
	assert.Contains(t, out, "&lt;b&gt;Total&lt;/b&gt;")
}

func TestDashboardPage_PanelsIn(t *testing.T) {
	page := testPage()

	overview := page.PanelsIn(models.GroupOverview)
	require.Len(t, overview, 1)
	assert.Equal(t, models.ChartTopModels, overview[0].Chart)
	assert.Empty(t, DashboardPage{}.PanelsIn(models.GroupPerBranch))
}

func TestStatus(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Status("invalid selection: unknown branch \"X\"").Render(context.Background(), &b))
	assert.Contains(t, b.String(), `role="alert"`)
	assert.Contains(t, b.String(), "unknown branch &#34;X&#34;")

	b.Reset()
	require.NoError(t, Status("").Render(context.Background(), &b))
	assert.Equal(t, `<div id="dashboard-status" class="status"></div>`, b.String())
}
