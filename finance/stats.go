package finance

import "github.com/shopspring/decimal"

// UserStats is the snapshot the achievement evaluator reads. Fully derived
// from records on demand; never persisted.
type UserStats struct {
	TotalExpenses  decimal.Decimal
	GoalsCompleted int
	BudgetsCreated int
	TotalSavings   decimal.Decimal
}

// DerivedCounts are plain record counts that accompany UserStats.
type DerivedCounts struct {
	ExpenseCount int
	GoalCount    int
	BudgetCount  int
}

// DeriveStats folds a user's records into a stats snapshot.
//
// TotalSavings is the sum of goal balances: the only savings figure the
// records actually carry.
func DeriveStats(expenses []Expense, budgets []Budget, goals []SavingsGoal) (UserStats, DerivedCounts) {
	stats := UserStats{
		TotalExpenses:  decimal.Zero,
		TotalSavings:   decimal.Zero,
		BudgetsCreated: len(budgets),
	}

	for _, e := range expenses {
		stats.TotalExpenses = stats.TotalExpenses.Add(e.Amount)
	}
	for _, g := range goals {
		stats.TotalSavings = stats.TotalSavings.Add(g.CurrentAmount)
		if g.IsCompleted() {
			stats.GoalsCompleted++
		}
	}

	return stats, DerivedCounts{
		ExpenseCount: len(expenses),
		GoalCount:    len(goals),
		BudgetCount:  len(budgets),
	}
}
