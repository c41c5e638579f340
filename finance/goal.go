package finance

import "github.com/shopspring/decimal"

// GoalProgress is the derived view of a savings goal. Never stored.
type GoalProgress struct {
	Progress    decimal.Decimal // percent of target, capped at 100
	Remaining   decimal.Decimal // never negative
	DaysLeft    int             // never negative
	IsCompleted bool
}

// Progress derives the goal's progress as of the given day.
func (g SavingsGoal) Progress(asOf Day) GoalProgress {
	hundred := decimal.NewFromInt(100)
	pct := Percent(g.CurrentAmount, g.TargetAmount)

	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	daysLeft := 0
	if !g.Deadline.IsZero() {
		daysLeft = max(0, asOf.DaysUntil(g.Deadline))
	}

	return GoalProgress{
		Progress:    decimal.Min(pct, hundred),
		Remaining:   remaining,
		DaysLeft:    daysLeft,
		IsCompleted: g.TargetAmount.IsPositive() && pct.GreaterThanOrEqual(hundred),
	}
}

// IsCompleted reports currentAmount/targetAmount >= 1.
func (g SavingsGoal) IsCompleted() bool {
	return g.TargetAmount.IsPositive() && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// WithFunds returns the goal with amount added to CurrentAmount. Amounts must
// be positive, so CurrentAmount never decreases through this path.
func (g SavingsGoal) WithFunds(amount decimal.Decimal) (SavingsGoal, error) {
	if !amount.IsPositive() {
		return g, &InvalidInputError{Field: "amount", Value: amount.String(), Reason: "must be positive"}
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	return g, nil
}
