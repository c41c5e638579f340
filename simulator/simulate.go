package simulator

import (
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// Result is the outcome of a simulation. Every field is derived from the
// Input; nothing here is persisted.
type Result struct {
	MonthlyIncome        decimal.Decimal
	MonthlyExpenses      decimal.Decimal
	MonthlyRemaining     decimal.Decimal // may be negative
	MonthlySavingsGoal   decimal.Decimal
	CanReachGoal         bool
	ActualMonthlySavings decimal.Decimal // never negative
	TotalSaved           decimal.Decimal
	GoalAmount           decimal.Decimal
	Shortfall            decimal.Decimal // <= 0 means no shortfall
	Months               int

	Projection []ProjectionPoint
	Breakdown  []Share
}

// ProjectionPoint is the cumulative position at the end of a month.
type ProjectionPoint struct {
	Month int
	Saved decimal.Decimal
	Goal  decimal.Decimal
}

// Share is one expense category as a percentage of income.
type Share struct {
	Category        string
	Amount          decimal.Decimal
	PercentOfIncome decimal.Decimal
}

// HasShortfall reports whether the goal is missed over the horizon.
func (r Result) HasShortfall() bool {
	return r.Shortfall.IsPositive()
}

// Simulate validates the input and projects it over the horizon.
func Simulate(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	months := decimal.NewFromInt(int64(in.Months))
	expenses := in.Expenses.Total()
	remaining := in.Income.Sub(expenses)
	actual := decimal.Max(decimal.Zero, remaining)

	r := Result{
		MonthlyIncome:        in.Income,
		MonthlyExpenses:      expenses,
		MonthlyRemaining:     remaining,
		MonthlySavingsGoal:   in.SavingsGoal,
		CanReachGoal:         remaining.GreaterThanOrEqual(in.SavingsGoal),
		ActualMonthlySavings: actual,
		TotalSaved:           actual.Mul(months),
		GoalAmount:           in.SavingsGoal.Mul(months),
		Months:               in.Months,
	}
	r.Shortfall = r.GoalAmount.Sub(r.TotalSaved)

	r.Projection = make([]ProjectionPoint, 0, in.Months)
	for m := 1; m <= in.Months; m++ {
		n := decimal.NewFromInt(int64(m))
		r.Projection = append(r.Projection, ProjectionPoint{
			Month: m,
			Saved: actual.Mul(n),
			Goal:  in.SavingsGoal.Mul(n),
		})
	}

	r.Breakdown = make([]Share, 0, len(in.Expenses))
	for _, l := range in.Expenses {
		r.Breakdown = append(r.Breakdown, Share{
			Category:        l.Category,
			Amount:          l.Amount,
			PercentOfIncome: finance.Percent(l.Amount, in.Income),
		})
	}

	return r, nil
}
