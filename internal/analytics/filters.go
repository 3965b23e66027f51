package analytics

import "sales-dashboard/internal/models"

type Predicate func(models.Transaction) bool

func BranchIs(branch string) Predicate {
	return func(tx models.Transaction) bool { return tx.BusinessUnit == branch }
}

func BranchIsNot(branch string) Predicate {
	return func(tx models.Transaction) bool { return tx.BusinessUnit != branch }
}

func MonthIs(month string) Predicate {
	return func(tx models.Transaction) bool { return tx.Month == month }
}

func CustomerIsNot(customerID string) Predicate {
	return func(tx models.Transaction) bool { return tx.CustomerID != customerID }
}

// OptionalFilter is a predicate switched on by a toggle of the selection.
// Resolve reports false when the toggle is off.
type OptionalFilter struct {
	Name    string
	Resolve func(sel models.Selection) (Predicate, bool)
}

// OverviewBranch filters on the overview branch when its toggle is on.
func OverviewBranch() OptionalFilter {
	return OptionalFilter{
		Name: "overview.branch",
		Resolve: func(sel models.Selection) (Predicate, bool) {
			if !sel.Overview.ApplyBranch {
				return nil, false
			}
			return BranchIs(sel.Overview.Branch), true
		},
	}
}

func OverviewMonth() OptionalFilter {
	return OptionalFilter{
		Name: "overview.month",
		Resolve: func(sel models.Selection) (Predicate, bool) {
			if !sel.Overview.ApplyMonth {
				return nil, false
			}
			return MonthIs(sel.Overview.Month), true
		},
	}
}

func PerBranchMonth() OptionalFilter {
	return OptionalFilter{
		Name: "per_branch.month",
		Resolve: func(sel models.Selection) (Predicate, bool) {
			if !sel.PerBranch.ApplyMonth {
				return nil, false
			}
			return MonthIs(sel.PerBranch.Month), true
		},
	}
}
