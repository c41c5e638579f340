package aggregator

import (
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// ExpenseSummary backs the expense summary view.
type ExpenseSummary struct {
	CategoryTotals Totals
	Comparison     []Comparison
	TotalSpent     decimal.Decimal
	ExpenseCount   int
}

// Summarize totals the expenses and compares them to the benchmark.
func Summarize(expenses []finance.Expense, benchmark Benchmark) ExpenseSummary {
	totals := CategoryTotals(expenses)
	return ExpenseSummary{
		CategoryTotals: totals,
		Comparison:     CompareToBenchmark(totals, benchmark),
		TotalSpent:     totals.Sum(),
		ExpenseCount:   len(expenses),
	}
}

// SpendingPatterns are headline figures over all of a user's expenses.
type SpendingPatterns struct {
	AverageDailySpending  decimal.Decimal // total / 30
	MostExpensiveCategory CategoryAmount  // zero value when nothing was spent
	Trend                 SpendingTrend
}

type DataCompleteness struct {
	HasExpenses  bool
	HasBudgets   bool
	ExpenseCount int
	BudgetCount  int
	TrackingDays int
}

// FinancialSummary is the combined per-user financial picture.
type FinancialSummary struct {
	UserID               finance.UserID
	CurrentMonthSpending Totals
	CategoryTotals       Totals
	BudgetUtilization    []Utilization
	Patterns             SpendingPatterns
	Segment              Segment
	Completeness         DataCompleteness
}

// BuildFinancialSummary derives the summary as of the given day (which
// selects the "current month").
func BuildFinancialSummary(userID finance.UserID, expenses []finance.Expense, budgets []finance.Budget, asOf finance.Day) FinancialSummary {
	totals := CategoryTotals(expenses)

	patterns := SpendingPatterns{
		AverageDailySpending: decimal.Zero,
		Trend:                SpendingTrendOf(MonthlySeries(expenses)),
	}
	if len(expenses) > 0 {
		patterns.AverageDailySpending = totals.Sum().Div(decimal.NewFromInt(30))
	}
	if top, ok := totals.Top(); ok && top.Amount.IsPositive() {
		patterns.MostExpensiveCategory = top
	}

	return FinancialSummary{
		UserID:               userID,
		CurrentMonthSpending: MonthTotals(expenses, asOf.MonthLabel()),
		CategoryTotals:       totals,
		BudgetUtilization:    BudgetUtilization(budgets, expenses),
		Patterns:             patterns,
		Segment:              UserSegment(totals, len(budgets), len(expenses)),
		Completeness: DataCompleteness{
			HasExpenses:  len(expenses) > 0,
			HasBudgets:   len(budgets) > 0,
			ExpenseCount: len(expenses),
			BudgetCount:  len(budgets),
			TrackingDays: TrackingDays(expenses),
		},
	}
}
