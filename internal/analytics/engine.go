package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

// ErrEvaluation reports a chart that failed while aggregating.
var ErrEvaluation = errors.New("chart evaluation failed")

// Evaluate runs one chart against the dataset rows. An empty working set
// yields an Empty series with no points.
func Evaluate(rows []models.Transaction, spec ChartSpec, sel models.Selection) models.Series {
	series := models.Series{
		Chart:        spec.ID,
		Group:        spec.Group,
		Title:        spec.Title,
		XLabel:       spec.XLabel,
		YLabel:       spec.YLabel,
		ShareLabel:   spec.ShareLabel,
		RotateLabels: spec.RotateLabels,
		Points:       []models.Point{},
	}

	ws := spec.WorkingSet(rows, sel)
	series.WorkingRows = len(ws)
	if len(ws) == 0 {
		series.Empty = true
		return series
	}

	values := spec.Reduction.Reduce(ws, spec.GroupKey)
	series.Points = spec.Order.Order(values)

	if spec.ShareLabel != "" {
		addShare(series.Points, TotalSales(rows))
	}
	return series
}

func addShare(points []models.Point, total decimal.Decimal) {
	if total.IsZero() {
		return
	}
	hundred := decimal.NewFromInt(100)
	for i := range points {
		pct := decimal.NewFromFloat(points[i].Value).Mul(hundred).Div(total).InexactFloat64()
		points[i].Percent = &pct
	}
}

// EvaluateAll evaluates every spec concurrently. Each goroutine builds its
// own working set, so results are independent of scheduling. Output order
// follows specs.
func EvaluateAll(ctx context.Context, rows []models.Transaction, specs []ChartSpec, sel models.Selection) ([]models.Series, error) {
	results := make([]models.Series, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() (err error) {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Panics here would bypass the HTTP recovery middleware.
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: chart %s: %v", ErrEvaluation, spec.ID, r)
				}
			}()
			results[i] = Evaluate(rows, spec, sel)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
