package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/analytics"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

var (
	ErrUnknownChart     = errors.New("unknown chart")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrNoDataset        = errors.New("dataset not loaded")
)

// Analytics owns the loaded dataset and the chart definitions. Every query
// evaluates the charts against the current rows; nothing is cached between
// selections.
type Analytics struct {
	mu           sync.RWMutex
	data         *dataset.Dataset
	specs        []analytics.ChartSpec
	presentation config.Presentation
	logger       *slog.Logger

	evaluations  atomic.Int64
	lastDuration atomic.Int64
}

func NewAnalytics(opts analytics.Options, presentation config.Presentation, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	if len(presentation.TimeOfDayOrder) > 0 {
		opts.TimeOfDayOrder = slices.Clone(presentation.TimeOfDayOrder)
	}
	return &Analytics{
		specs:        analytics.DefaultCharts(opts),
		presentation: presentation,
		logger:       logger,
	}
}

// SetData replaces the dataset with rows. Used by tests and the CLI.
func (a *Analytics) SetData(rows []models.Transaction) {
	a.SetDataset(dataset.New(rows))
}

func (a *Analytics) SetDataset(d *dataset.Dataset) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = d
}

// Load reads location with loader and swaps the dataset in on success. The
// previous dataset stays active when loading fails.
func (a *Analytics) Load(ctx context.Context, loader *dataset.Loader, location string) error {
	ctx, span := observability.StartSpan(ctx, "analytics.load")
	defer span.End(ctx, a.logger)
	span.SetTag("dataset", location)

	d, err := loader.Load(ctx, location)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("load dataset: %w", err)
	}
	span.SetTag("records", strconv.Itoa(d.Len()))

	a.SetDataset(d)
	return nil
}

func (a *Analytics) current() (*dataset.Dataset, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.data == nil {
		return nil, ErrNoDataset
	}
	return a.data, nil
}

func (a *Analytics) Ready() bool {
	_, err := a.current()
	return err == nil
}

func (a *Analytics) Presentation() config.Presentation {
	return a.presentation
}

// ChartIDs lists the charts in display order.
func (a *Analytics) ChartIDs() []models.ChartID {
	ids := make([]models.ChartID, len(a.specs))
	for i, spec := range a.specs {
		ids[i] = spec.ID
	}
	return ids
}

// Dimensions returns the selectable branches and months, in the order they
// first appear in the data.
func (a *Analytics) Dimensions() (models.Dimensions, error) {
	d, err := a.current()
	if err != nil {
		return models.Dimensions{}, err
	}
	return d.Dimensions(), nil
}

// DefaultSelection selects the first branch and month with every toggle off.
func (a *Analytics) DefaultSelection() (models.Selection, error) {
	d, err := a.current()
	if err != nil {
		return models.Selection{}, err
	}
	return defaultSelection(d), nil
}

func defaultSelection(d *dataset.Dataset) models.Selection {
	var branch, month string
	if branches := d.Branches(); len(branches) > 0 {
		branch = branches[0]
	}
	if months := d.Months(); len(months) > 0 {
		month = months[0]
	}
	return models.Selection{
		Overview:  models.OverviewFilters{Branch: branch, Month: month},
		PerBranch: models.PerBranchFilters{Month: month},
	}
}

// ResolveSelection fills blank selector values with the defaults and checks
// that every chosen value exists in the data.
func (a *Analytics) ResolveSelection(sel models.Selection) (models.Selection, error) {
	d, err := a.current()
	if err != nil {
		return sel, err
	}
	return resolveSelection(d, sel)
}

func resolveSelection(d *dataset.Dataset, sel models.Selection) (models.Selection, error) {
	def := defaultSelection(d)
	if sel.Overview.Branch == "" {
		sel.Overview.Branch = def.Overview.Branch
	}
	if sel.Overview.Month == "" {
		sel.Overview.Month = def.Overview.Month
	}
	if sel.PerBranch.Month == "" {
		sel.PerBranch.Month = def.PerBranch.Month
	}

	if !d.HasBranch(sel.Overview.Branch) {
		return sel, fmt.Errorf("%w: unknown branch %q", ErrInvalidSelection, sel.Overview.Branch)
	}
	if !d.HasMonth(sel.Overview.Month) {
		return sel, fmt.Errorf("%w: unknown month %q", ErrInvalidSelection, sel.Overview.Month)
	}
	if !d.HasMonth(sel.PerBranch.Month) {
		return sel, fmt.Errorf("%w: unknown month %q", ErrInvalidSelection, sel.PerBranch.Month)
	}
	return sel, nil
}

// Dashboard evaluates all six charts for sel.
func (a *Analytics) Dashboard(ctx context.Context, sel models.Selection) (*models.Dashboard, error) {
	ctx, span := observability.StartSpan(ctx, "analytics.dashboard")
	defer span.End(ctx, a.logger)

	d, err := a.current()
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	sel, err = resolveSelection(d, sel)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	start := time.Now()
	series, err := analytics.EvaluateAll(ctx, d.Rows(), a.specs, sel)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("evaluate charts: %w", err)
	}
	a.record(time.Since(start))

	empty := 0
	for i := range series {
		a.applyFigure(&series[i])
		if series[i].Empty {
			empty++
		}
	}
	span.SetTag("empty_charts", strconv.Itoa(empty))

	return &models.Dashboard{
		Title:       a.presentation.Title,
		Selection:   sel,
		Charts:      series,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Chart evaluates a single chart for sel.
func (a *Analytics) Chart(ctx context.Context, id models.ChartID, sel models.Selection) (models.Series, error) {
	ctx, span := observability.StartSpan(ctx, "analytics.chart")
	defer span.End(ctx, a.logger)
	span.SetTag("chart", string(id))

	idx := slices.IndexFunc(a.specs, func(s analytics.ChartSpec) bool { return s.ID == id })
	if idx < 0 {
		err := fmt.Errorf("%w: %q", ErrUnknownChart, id)
		span.SetError(err)
		return models.Series{}, err
	}

	d, err := a.current()
	if err != nil {
		span.SetError(err)
		return models.Series{}, err
	}
	sel, err = resolveSelection(d, sel)
	if err != nil {
		span.SetError(err)
		return models.Series{}, err
	}

	start := time.Now()
	series := analytics.Evaluate(d.Rows(), a.specs[idx], sel)
	a.record(time.Since(start))
	a.applyFigure(&series)
	return series, nil
}

func (a *Analytics) applyFigure(s *models.Series) {
	f := a.presentation.FigureFor(string(s.Chart))
	s.Figure = models.Figure{Width: f.Width, Height: f.Height}
}

func (a *Analytics) record(d time.Duration) {
	a.evaluations.Add(1)
	a.lastDuration.Store(int64(d))
}

// Stats reports dataset and evaluation counters for monitoring.
func (a *Analytics) Stats() map[string]any {
	stats := map[string]any{
		"charts":              len(a.specs),
		"evaluations":         a.evaluations.Load(),
		"last_evaluation_ms":  time.Duration(a.lastDuration.Load()).Milliseconds(),
		"dataset_loaded":      false,
		"presentation_title":  a.presentation.Title,
		"presentation_layout": a.presentation.Layout,
	}

	d, err := a.current()
	if err != nil {
		return stats
	}
	stats["dataset_loaded"] = true
	stats["record_count"] = d.Len()
	stats["skipped_rows"] = d.Skipped
	stats["branches"] = len(d.Branches())
	stats["months"] = len(d.Months())
	stats["source"] = d.Source
	stats["loaded_at"] = d.LoadedAt
	return stats
}
