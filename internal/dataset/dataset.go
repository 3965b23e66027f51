package dataset

import (
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

// Dataset is the immutable in-memory row set. Callers must treat Rows as
// read-only.
type Dataset struct {
	rows     []models.Transaction
	branches []string
	months   []string

	Source   string
	Skipped  int
	LoadedAt time.Time
}

func New(rows []models.Transaction) *Dataset {
	d := &Dataset{
		rows:     rows,
		LoadedAt: time.Now(),
	}
	d.branches = distinct(rows, func(tx models.Transaction) string { return tx.BusinessUnit })
	d.months = distinct(rows, func(tx models.Transaction) string { return tx.Month })
	return d
}

// distinct returns values in first-seen order.
func distinct(rows []models.Transaction, field func(models.Transaction) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, tx := range rows {
		v := field(tx)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (d *Dataset) Rows() []models.Transaction { return d.rows }

func (d *Dataset) Len() int { return len(d.rows) }

func (d *Dataset) Branches() []string { return slices.Clone(d.branches) }

func (d *Dataset) Months() []string { return slices.Clone(d.months) }

func (d *Dataset) HasBranch(branch string) bool { return slices.Contains(d.branches, branch) }

func (d *Dataset) HasMonth(month string) bool { return slices.Contains(d.months, month) }

func (d *Dataset) Dimensions() models.Dimensions {
	return models.Dimensions{
		Branches: d.Branches(),
		Months:   d.Months(),
	}
}
