package achievements

import (
	"time"

	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// Draft is a newly qualified achievement that has not been persisted yet.
// The caller assigns the id and unlock time.
type Draft struct {
	Type        string
	Title       string
	Description string
	Icon        string
	Rarity      finance.Rarity
}

// Unlock turns the draft into a record for the given user.
func (d Draft) Unlock(userID finance.UserID, id string, at time.Time) finance.Achievement {
	return finance.Achievement{
		ID:          id,
		UserID:      userID,
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		Icon:        d.Icon,
		Rarity:      d.Rarity,
		UnlockedAt:  at,
	}
}

// Unlocked is the set of achievement types a user already has.
type Unlocked map[string]struct{}

// UnlockedTypes collects the types of existing achievements.
func UnlockedTypes(existing []finance.Achievement) Unlocked {
	set := make(Unlocked, len(existing))
	for _, a := range existing {
		set[a.Type] = struct{}{}
	}
	return set
}

func (u Unlocked) Has(achievementType string) bool {
	_, ok := u[achievementType]
	return ok
}

// Add records the drafts' types, for callers evaluating repeatedly.
func (u Unlocked) Add(drafts ...Draft) {
	for _, d := range drafts {
		u[d.Type] = struct{}{}
	}
}

// =============================================================================
// EVALUATION
// =============================================================================

var defaultCatalog = DefaultCatalog()

// Evaluate runs the default catalog. See Catalog.Evaluate.
func Evaluate(stats finance.UserStats, counts finance.DerivedCounts, unlocked Unlocked) []Draft {
	return defaultCatalog.Evaluate(stats, counts, unlocked)
}

// Evaluate returns a draft for every definition whose predicate holds and
// whose type is not already unlocked, in catalog order. A nil set means
// nothing is unlocked yet.
func (c Catalog) Evaluate(stats finance.UserStats, counts finance.DerivedCounts, unlocked Unlocked) []Draft {
	drafts := []Draft{}
	for _, def := range c.defs {
		if unlocked.Has(def.Type) || def.Predicate == nil {
			continue
		}
		if !def.Predicate(stats, counts) {
			continue
		}
		drafts = append(drafts, Draft{
			Type:        def.Type,
			Title:       def.Title,
			Description: def.Description,
			Icon:        def.Icon,
			Rarity:      def.Rarity,
		})
	}
	return drafts
}

// =============================================================================
// SAVINGS RATE
// =============================================================================

var incomeMultiplier = decimal.RequireFromString("1.5")

// EstimatedIncome approximates income as 1.5x total expenses. No real income
// figure reaches the evaluator, so this is a proxy and nothing more.
func EstimatedIncome(totalExpenses decimal.Decimal) decimal.Decimal {
	if !totalExpenses.IsPositive() {
		return decimal.Zero
	}
	return totalExpenses.Mul(incomeMultiplier)
}

// SavingsRate is (estimatedIncome - totalExpenses) / estimatedIncome x 100,
// or 0 when there is no estimated income.
func SavingsRate(totalExpenses decimal.Decimal) decimal.Decimal {
	income := EstimatedIncome(totalExpenses)
	return finance.Percent(income.Sub(totalExpenses), income)
}
