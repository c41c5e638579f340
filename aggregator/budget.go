package aggregator

import (
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// Utilization is a budget with its derived spending figures.
//
// Invariants: Remaining + Spent == Budgeted, IsOverBudget <=> Spent > Budgeted.
type Utilization struct {
	Budget          finance.Budget
	Category        string
	Budgeted        decimal.Decimal
	Spent           decimal.Decimal
	Remaining       decimal.Decimal
	UtilizationRate decimal.Decimal // percent; 0 when Budgeted is 0
	IsOverBudget    bool
}

// BudgetUtilization derives one row per budget, in budget order. An expense
// counts toward every budget whose category matches case-insensitively; an
// expense matching no budget simply contributes to no row.
func BudgetUtilization(budgets []finance.Budget, expenses []finance.Expense) []Utilization {
	rows := make([]Utilization, 0, len(budgets))
	for _, b := range budgets {
		spent := decimal.Zero
		for _, e := range expenses {
			if finance.SameCategory(e.Category, b.Category) {
				spent = spent.Add(e.Amount)
			}
		}
		rows = append(rows, Utilization{
			Budget:          b,
			Category:        b.Category,
			Budgeted:        b.Limit,
			Spent:           spent,
			Remaining:       b.Limit.Sub(spent),
			UtilizationRate: finance.Percent(spent, b.Limit),
			IsOverBudget:    spent.GreaterThan(b.Limit),
		})
	}
	return rows
}

// OverBudget filters rows that exceed their limit.
func OverBudget(rows []Utilization) []Utilization {
	var over []Utilization
	for _, r := range rows {
		if r.IsOverBudget {
			over = append(over, r)
		}
	}
	return over
}
