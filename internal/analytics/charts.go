package analytics

import (
	"slices"

	"sales-dashboard/internal/models"
)

const (
	DefaultOnlineBranch = "Decathlon.ph"
	DefaultNonMemberID  = "Non Members"
	DefaultTopN         = 5
)

// TimeOfDayBuckets is the canonical display order of the time of day chart.
var TimeOfDayBuckets = []string{
	"5 AM-6 AM", "6 AM-7 AM", "7 AM-8 AM", "8 AM-9 AM", "9 AM-10 AM",
	"10 AM-11 AM", "11 AM-12 PM", "12 PM-1 PM", "1 PM-2 PM", "2 PM-3 PM",
	"3 PM-4 PM", "4 PM-5 PM", "5 PM-6 PM", "6 PM-7 PM", "7 PM-8 PM",
	"8 PM-9 PM", "9 PM-10 PM", "10 PM-11 PM", "11 PM-12 AM",
}

type Options struct {
	// OnlineBranch is the non-physical branch excluded from the top models chart.
	OnlineBranch string
	// NonMemberID is the customer id sentinel for transactions without a member.
	NonMemberID    string
	TopN           int
	TimeOfDayOrder []string
}

func DefaultOptions() Options {
	return Options{
		OnlineBranch:   DefaultOnlineBranch,
		NonMemberID:    DefaultNonMemberID,
		TopN:           DefaultTopN,
		TimeOfDayOrder: slices.Clone(TimeOfDayBuckets),
	}
}

// ChartSpec is the declarative filter and aggregation contract of one chart.
// Base filters always apply; Optional filters apply in declared order when
// their toggle is on.
type ChartSpec struct {
	ID     models.ChartID
	Group  models.ChartGroup
	Title  string
	XLabel string
	YLabel string
	// ShareLabel, when set, adds each point's percentage of the dataset's
	// total Sales.
	ShareLabel   string
	RotateLabels bool

	Base      []Predicate
	Optional  []OptionalFilter
	GroupKey  KeyFunc
	Reduction Reduction
	Order     OrderPolicy
}

// WorkingSet materialises the chart's working set from the base rows. The
// result never aliases rows.
func (c ChartSpec) WorkingSet(rows []models.Transaction, sel models.Selection) WorkingSet {
	ws := NewWorkingSet(rows)
	for _, p := range c.Base {
		ws = ws.Filter(p)
	}
	for _, f := range c.Optional {
		if p, ok := f.Resolve(sel); ok {
			ws = ws.Filter(p)
		}
	}
	return ws
}

// DefaultCharts returns the six dashboard charts in display order.
func DefaultCharts(opts Options) []ChartSpec {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if len(opts.TimeOfDayOrder) == 0 {
		opts.TimeOfDayOrder = TimeOfDayBuckets
	}

	return []ChartSpec{
		{
			ID:         models.ChartTopModels,
			Group:      models.GroupOverview,
			Title:      "Top 5 Models in Sales",
			XLabel:     "Model Number",
			YLabel:     "Sales (Php)",
			ShareLabel: "Percentage in Total Sales (%)",
			Base:       []Predicate{BranchIsNot(opts.OnlineBranch)},
			Optional:   []OptionalFilter{OverviewBranch(), OverviewMonth()},
			GroupKey:   ByModel,
			Reduction:  SumOf(SalesMeasure),
			Order:      Descending(opts.TopN),
		},
		{
			ID:           models.ChartTransactionsByTime,
			Group:        models.GroupOverview,
			Title:        "Number of Transactions at Different Times of Day",
			XLabel:       "Time of Day",
			YLabel:       "Number of Transactions",
			RotateLabels: true,
			Optional:     []OptionalFilter{OverviewBranch()},
			GroupKey:     ByTimeOfDay,
			Reduction:    DistinctTransactions(),
			Order:        FixedOrder(opts.TimeOfDayOrder),
		},
		{
			ID:        models.ChartTransactionsPerBranch,
			Group:     models.GroupPerBranch,
			Title:     "Number of Transactions",
			XLabel:    "Store Branch",
			YLabel:    "Number of Transactions",
			Base:      []Predicate{CustomerIsNot(opts.NonMemberID)},
			Optional:  []OptionalFilter{PerBranchMonth()},
			GroupKey:  ByBranch,
			Reduction: DistinctTransactions(),
			Order:     Descending(0),
		},
		{
			ID:        models.ChartAvgBasketValue,
			Group:     models.GroupPerBranch,
			Title:     "Average Basket Value",
			XLabel:    "Store Branch",
			YLabel:    "Basket Value (Php)",
			Optional:  []OptionalFilter{PerBranchMonth()},
			GroupKey:  ByBranch,
			Reduction: BasketMean(SalesMeasure),
			Order:     Descending(0),
		},
		{
			ID:        models.ChartAvgBasketSize,
			Group:     models.GroupPerBranch,
			Title:     "Average Basket Size",
			XLabel:    "Store Branch",
			YLabel:    "Basket Size",
			Optional:  []OptionalFilter{PerBranchMonth()},
			GroupKey:  ByBranch,
			Reduction: BasketMean(QuantityMeasure),
			Order:     Descending(0),
		},
		{
			ID:        models.ChartTotalSales,
			Group:     models.GroupPerBranch,
			Title:     "Total Sales",
			XLabel:    "Store Branch",
			YLabel:    "Total Sales (Php)",
			Optional:  []OptionalFilter{PerBranchMonth()},
			GroupKey:  ByBranch,
			Reduction: SumOf(SalesMeasure),
			Order:     Descending(0),
		},
	}
}
