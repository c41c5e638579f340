/*
Package finance provides the record shapes and derived views shared by the
financial rule and simulation engine.

PURPOSE:
  This package contains the data model consumed by the engine packages
  (aggregator, simulator, achievements) and the store interfaces that the
  outer layers (api, store/sqlite, finance/store) implement. The engine
  packages never import a store; they share only these shapes.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money:       decimal.Decimal amounts, rounded to cents only on display
  - Expense:     a single spending record (immutable except via update)
  - Budget:      a category spending limit; "spent" is never stored
  - SavingsGoal: a target amount; progress is never stored
  - Achievement: an append-only badge, unique per (user, type)

DESIGN PRINCIPLES:
  1. Derived, not persisted: spent, remaining, progress, percentages are
     recomputed from source records on every read
  2. Precision: decimal.Decimal for every amount
  3. Type Safety: strong typing for user IDs and enums

SEE ALSO:
  - day.go:    calendar-day handling
  - stats.go:  UserStats derivation
  - goal.go:   savings goal progress
  - store.go:  persistence interfaces
  - errors.go: error taxonomy
*/
package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY
// =============================================================================

// NewMoney converts a float (typically from a JSON payload) into a decimal.
func NewMoney(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// MustParseMoney parses a decimal string and panics on malformed input.
// Only for literals in code and tests.
func MustParseMoney(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Cents rounds an amount to two decimal places and returns it as a float
// for display and JSON responses.
func Cents(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// Percent returns part/whole x 100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}

// SumAmounts folds a slice of amounts.
func SumAmounts(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// =============================================================================
// IDENTIFIERS & ENUMS
// =============================================================================

type UserID string

// BudgetPeriod is the cadence a budget limit applies to.
type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// SameCategory reports whether two category labels match. Matching is
// case-insensitive and exact (no trimming, no prefix matching).
func SameCategory(a, b string) bool {
	return strings.EqualFold(a, b)
}

// =============================================================================
// RECORDS
// =============================================================================

type User struct {
	ID        UserID
	Email     string
	Name      string
	CreatedAt time.Time
}

type Expense struct {
	ID          string
	UserID      UserID
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        Day
	CreatedAt   time.Time
}

// Budget is a spending limit for one category. Spent is deliberately absent:
// it is derived from expenses at query time (see aggregator.BudgetUtilization).
type Budget struct {
	ID        string
	UserID    UserID
	Category  string
	Limit     decimal.Decimal
	Period    BudgetPeriod
	CreatedAt time.Time
}

// SavingsGoal is a target amount. CurrentAmount only grows through AddFunds
// (or an explicit update); progress fields are derived by Progress.
type SavingsGoal struct {
	ID            string
	UserID        UserID
	Name          string
	Description   string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      Day
	Category      string
	Priority      Priority
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Achievement is an unlocked badge. Created only by the evaluator path and
// never mutated or deleted.
type Achievement struct {
	ID          string
	UserID      UserID
	Type        string
	Title       string
	Description string
	Icon        string
	Rarity      Rarity
	UnlockedAt  time.Time
}

// =============================================================================
// PATCHES - Partial updates (nil = leave unchanged)
// =============================================================================

type ExpensePatch struct {
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Date        *Day
}

func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	return e
}

type BudgetPatch struct {
	Category *string
	Limit    *decimal.Decimal
	Period   *BudgetPeriod
}

func (p BudgetPatch) Apply(b Budget) Budget {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Limit != nil {
		b.Limit = *p.Limit
	}
	if p.Period != nil {
		b.Period = *p.Period
	}
	return b
}

type GoalPatch struct {
	Name          *string
	Description   *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Deadline      *Day
	Category      *string
	Priority      *Priority
}

// Apply returns the patched goal. UpdatedAt is set by the store.
func (p GoalPatch) Apply(g SavingsGoal) SavingsGoal {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.Deadline != nil {
		g.Deadline = *p.Deadline
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	return g
}
