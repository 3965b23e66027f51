package analytics

import (
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

// Line is a transaction row paired with its derived Sales value.
type Line struct {
	models.Transaction
	Sales decimal.Decimal
}

func newLine(tx models.Transaction) Line {
	return Line{
		Transaction: tx,
		Sales:       sales(tx),
	}
}

func sales(tx models.Transaction) decimal.Decimal {
	return decimal.NewFromFloat(tx.Quantity).Mul(decimal.NewFromFloat(tx.UnitPrice))
}

// WorkingSet is the row subset a chart aggregates over. Every WorkingSet owns
// its backing array; filtering never shares memory with the source.
type WorkingSet []Line

// NewWorkingSet copies rows into a fresh working set and derives Sales.
func NewWorkingSet(rows []models.Transaction) WorkingSet {
	ws := make(WorkingSet, len(rows))
	for i, tx := range rows {
		ws[i] = newLine(tx)
	}
	return ws
}

// Filter returns a new working set with the lines matching p, Sales
// recomputed on the copy.
func (ws WorkingSet) Filter(p Predicate) WorkingSet {
	out := make(WorkingSet, 0, len(ws))
	for _, l := range ws {
		if p(l.Transaction) {
			out = append(out, newLine(l.Transaction))
		}
	}
	return out
}

func (ws WorkingSet) Rows() []models.Transaction {
	rows := make([]models.Transaction, len(ws))
	for i, l := range ws {
		rows[i] = l.Transaction
	}
	return rows
}

func (ws WorkingSet) TotalSales() decimal.Decimal {
	total := decimal.Zero
	for _, l := range ws {
		total = total.Add(l.Sales)
	}
	return total
}

// TotalSales sums quantity × unit price over rows without materialising a
// working set.
func TotalSales(rows []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range rows {
		total = total.Add(sales(tx))
	}
	return total
}
