/*
Package achievements decides which badges a user newly qualifies for.

PURPOSE:
  A fixed, ordered catalog of definitions is evaluated against a stats
  snapshot. Each achievement type moves locked -> unlocked exactly once;
  the evaluator never re-unlocks a type and never re-locks one.

CATALOG RULES:
  - Built once by DefaultCatalog and never mutated afterwards
  - Evaluation walks the catalog in order
  - Predicates read only the snapshot and are monotonic: once true for some
    stats, they stay true for any stats that are further along
  - Zero stats never qualify for anything

SEE ALSO:
  - finance/stats.go: DeriveStats builds the snapshot
  - api/handlers.go: CheckAchievements persists drafts and publishes events
*/
package achievements

import (
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// Predicate decides whether a snapshot qualifies for an achievement.
type Predicate func(stats finance.UserStats, counts finance.DerivedCounts) bool

// Definition is one catalog entry.
type Definition struct {
	Type        string
	Title       string
	Description string
	Icon        string
	Rarity      finance.Rarity
	Predicate   Predicate
}

// Catalog is an immutable ordered list of definitions. The zero value is an
// empty catalog.
type Catalog struct {
	defs []Definition
}

// NewCatalog copies the definitions into a catalog.
func NewCatalog(defs ...Definition) Catalog {
	return Catalog{defs: append([]Definition(nil), defs...)}
}

// Definitions returns a copy of the entries in catalog order.
func (c Catalog) Definitions() []Definition {
	return append([]Definition(nil), c.defs...)
}

// Types returns the achievement types in catalog order.
func (c Catalog) Types() []string {
	types := make([]string, len(c.defs))
	for i, d := range c.defs {
		types[i] = d.Type
	}
	return types
}

// Lookup finds a definition by type.
func (c Catalog) Lookup(achievementType string) (Definition, bool) {
	for _, d := range c.defs {
		if d.Type == achievementType {
			return d, true
		}
	}
	return Definition{}, false
}

func (c Catalog) Len() int { return len(c.defs) }

// =============================================================================
// DEFAULT CATALOG
// =============================================================================

var (
	bigSpenderThreshold = decimal.NewFromInt(1000)
	saverRateThreshold  = decimal.NewFromInt(20)
)

// DefaultCatalog returns the built-in achievements.
func DefaultCatalog() Catalog {
	return NewCatalog(
		Definition{
			Type:        "first_expense",
			Title:       "🎯 First Expense Added!",
			Description: "You've tracked your first expense. Great start!",
			Icon:        "🎯",
			Rarity:      finance.RarityCommon,
			Predicate: func(s finance.UserStats, _ finance.DerivedCounts) bool {
				return s.TotalExpenses.IsPositive()
			},
		},
		Definition{
			Type:        "expense_tracker",
			Title:       "📊 Expense Tracker",
			Description: "Tracked 10 expenses. You're building great habits!",
			Icon:        "📊",
			Rarity:      finance.RarityCommon,
			Predicate: func(_ finance.UserStats, c finance.DerivedCounts) bool {
				return c.ExpenseCount >= 10
			},
		},
		Definition{
			Type:        "budget_master",
			Title:       "💰 Budget Master",
			Description: "Created your first budget. Smart financial planning!",
			Icon:        "💰",
			Rarity:      finance.RarityCommon,
			Predicate: func(s finance.UserStats, _ finance.DerivedCounts) bool {
				return s.BudgetsCreated > 0
			},
		},
		Definition{
			Type:        "goal_setter",
			Title:       "🎯 Goal Setter",
			Description: "Set your first savings goal. Dream big!",
			Icon:        "🎯",
			Rarity:      finance.RarityCommon,
			Predicate: func(_ finance.UserStats, c finance.DerivedCounts) bool {
				return c.GoalCount > 0
			},
		},
		Definition{
			Type:        "goal_achiever",
			Title:       "🏆 Goal Achiever",
			Description: "Completed your first savings goal. Outstanding!",
			Icon:        "🏆",
			Rarity:      finance.RarityRare,
			Predicate: func(s finance.UserStats, _ finance.DerivedCounts) bool {
				return s.GoalsCompleted > 0
			},
		},
		Definition{
			Type:        "saver_20",
			Title:       "🔥 Smart Saver",
			Description: "Saved 20% this month. You're on fire!",
			Icon:        "🔥",
			Rarity:      finance.RarityRare,
			Predicate: func(s finance.UserStats, _ finance.DerivedCounts) bool {
				return SavingsRate(s.TotalExpenses).GreaterThanOrEqual(saverRateThreshold)
			},
		},
		Definition{
			Type:        "big_spender",
			Title:       "💳 Big Spender",
			Description: "Tracked over $1,000 in expenses. Knowledge is power!",
			Icon:        "💳",
			Rarity:      finance.RarityRare,
			Predicate: func(s finance.UserStats, _ finance.DerivedCounts) bool {
				return s.TotalExpenses.GreaterThanOrEqual(bigSpenderThreshold)
			},
		},
		Definition{
			Type:        "financial_guru",
			Title:       "🧙‍♂️ Financial Guru",
			Description: "Completed 5+ goals and maintained 3+ budgets. You're a master!",
			Icon:        "🧙‍♂️",
			Rarity:      finance.RarityEpic,
			Predicate: func(s finance.UserStats, _ finance.DerivedCounts) bool {
				return s.GoalsCompleted >= 5 && s.BudgetsCreated >= 3
			},
		},
	)
}
