package analytics

import (
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

type KeyFunc func(models.Transaction) string

func ByModel(tx models.Transaction) string     { return tx.Model }
func ByBranch(tx models.Transaction) string    { return tx.BusinessUnit }
func ByTimeOfDay(tx models.Transaction) string { return tx.TimeOfDay }

type Measure func(Line) decimal.Decimal

func SalesMeasure(l Line) decimal.Decimal { return l.Sales }

func QuantityMeasure(l Line) decimal.Decimal { return decimal.NewFromFloat(l.Quantity) }

// Reduction folds a working set into one value per group key.
type Reduction interface {
	Reduce(ws WorkingSet, key KeyFunc) map[string]float64
}

type sumReduction struct {
	measure Measure
}

// SumOf sums measure per group.
func SumOf(measure Measure) Reduction {
	return sumReduction{measure: measure}
}

func (r sumReduction) Reduce(ws WorkingSet, key KeyFunc) map[string]float64 {
	totals := make(map[string]decimal.Decimal)
	for _, l := range ws {
		k := key(l.Transaction)
		totals[k] = totals[k].Add(r.measure(l))
	}

	result := make(map[string]float64, len(totals))
	for k, v := range totals {
		result[k] = v.InexactFloat64()
	}
	return result
}

type distinctReduction struct{}

// DistinctTransactions counts unique transaction ids per group.
func DistinctTransactions() Reduction {
	return distinctReduction{}
}

func (distinctReduction) Reduce(ws WorkingSet, key KeyFunc) map[string]float64 {
	seen := make(map[string]map[string]struct{})
	for _, l := range ws {
		k := key(l.Transaction)
		if seen[k] == nil {
			seen[k] = make(map[string]struct{})
		}
		seen[k][l.TransactionID] = struct{}{}
	}

	result := make(map[string]float64, len(seen))
	for k, ids := range seen {
		result[k] = float64(len(ids))
	}
	return result
}

type basketKey struct {
	group         string
	transactionID string
}

type basketMeanReduction struct {
	measure Measure
}

// BasketMean sums measure per (group, transaction) basket, then averages the
// basket totals per group.
func BasketMean(measure Measure) Reduction {
	return basketMeanReduction{measure: measure}
}

func (r basketMeanReduction) Reduce(ws WorkingSet, key KeyFunc) map[string]float64 {
	baskets := make(map[basketKey]decimal.Decimal)
	for _, l := range ws {
		bk := basketKey{group: key(l.Transaction), transactionID: l.TransactionID}
		baskets[bk] = baskets[bk].Add(r.measure(l))
	}

	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for bk, v := range baskets {
		totals[bk.group] = totals[bk.group].Add(v)
		counts[bk.group]++
	}

	result := make(map[string]float64, len(totals))
	for k, total := range totals {
		result[k] = total.Div(decimal.NewFromInt(counts[k])).InexactFloat64()
	}
	return result
}
