package achievements_test

import (
	"testing"
	"time"

	"github.com/shashwat106/the-financial-blueprint/achievements"
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(drafts []achievements.Draft) []string {
	out := make([]string, len(drafts))
	for i, d := range drafts {
		out[i] = d.Type
	}
	return out
}

// =============================================================================
// CATALOG
// =============================================================================

func TestDefaultCatalog_UniqueTypesInOrder(t *testing.T) {
	catalog := achievements.DefaultCatalog()

	assert.Equal(t, []string{
		"first_expense", "expense_tracker", "budget_master", "goal_setter",
		"goal_achiever", "saver_20", "big_spender", "financial_guru",
	}, catalog.Types())

	seen := map[string]bool{}
	for _, d := range catalog.Definitions() {
		assert.False(t, seen[d.Type], "duplicate type %s", d.Type)
		seen[d.Type] = true
		assert.NotNil(t, d.Predicate, d.Type)
		assert.NotEmpty(t, d.Title, d.Type)
		assert.NotEmpty(t, d.Icon, d.Type)
	}
}

func TestCatalog_DefinitionsAreCopies(t *testing.T) {
	catalog := achievements.DefaultCatalog()

	defs := catalog.Definitions()
	defs[0].Type = "tampered"

	assert.Equal(t, "first_expense", catalog.Types()[0])
	def, ok := catalog.Lookup("saver_20")
	require.True(t, ok)
	assert.Equal(t, finance.RarityRare, def.Rarity)
}

// =============================================================================
// EVALUATE
// =============================================================================

func TestEvaluate_ZeroStats(t *testing.T) {
	// GIVEN: A user with nothing tracked
	// WHEN: Evaluating
	drafts := achievements.Evaluate(finance.UserStats{}, finance.DerivedCounts{}, nil)

	// THEN: Nothing qualifies and the result is an empty list, not nil
	assert.NotNil(t, drafts)
	assert.Empty(t, drafts)
}

func TestEvaluate_CatalogOrder(t *testing.T) {
	// GIVEN: Stats that qualify for everything
	stats := finance.UserStats{
		TotalExpenses:  decimal.NewFromInt(2500),
		GoalsCompleted: 5,
		BudgetsCreated: 3,
	}
	counts := finance.DerivedCounts{ExpenseCount: 12, GoalCount: 6, BudgetCount: 3}

	// WHEN
	drafts := achievements.Evaluate(stats, counts, nil)

	// THEN: All eight, in catalog order
	assert.Equal(t, achievements.DefaultCatalog().Types(), types(drafts))
	assert.Equal(t, finance.RarityEpic, drafts[7].Rarity)
}

func TestEvaluate_SkipsUnlocked(t *testing.T) {
	stats := finance.UserStats{TotalExpenses: decimal.NewFromInt(50), BudgetsCreated: 1}
	counts := finance.DerivedCounts{ExpenseCount: 2, BudgetCount: 1}
	unlocked := achievements.UnlockedTypes([]finance.Achievement{{Type: "first_expense"}})

	drafts := achievements.Evaluate(stats, counts, unlocked)

	assert.Equal(t, []string{"budget_master", "saver_20"}, types(drafts))
}

func TestEvaluate_Idempotent(t *testing.T) {
	// GIVEN: A first evaluation that unlocks several types
	stats := finance.UserStats{TotalExpenses: decimal.NewFromInt(1200), GoalsCompleted: 1}
	counts := finance.DerivedCounts{ExpenseCount: 10, GoalCount: 1}
	unlocked := achievements.Unlocked{}

	first := achievements.Evaluate(stats, counts, unlocked)
	require.NotEmpty(t, first)

	// WHEN: Evaluating again with the results recorded
	unlocked.Add(first...)
	second := achievements.Evaluate(stats, counts, unlocked)

	// THEN: Nothing is unlocked twice
	assert.Empty(t, second)
}

func TestEvaluate_Monotonic(t *testing.T) {
	// More of everything never loses a qualification.
	base := finance.UserStats{TotalExpenses: decimal.NewFromInt(100), GoalsCompleted: 1, BudgetsCreated: 1}
	baseCounts := finance.DerivedCounts{ExpenseCount: 3, GoalCount: 1, BudgetCount: 1}
	more := finance.UserStats{TotalExpenses: decimal.NewFromInt(5000), GoalsCompleted: 6, BudgetsCreated: 4}
	moreCounts := finance.DerivedCounts{ExpenseCount: 40, GoalCount: 8, BudgetCount: 4}

	before := types(achievements.Evaluate(base, baseCounts, nil))
	after := types(achievements.Evaluate(more, moreCounts, nil))

	for _, typ := range before {
		assert.Contains(t, after, typ)
	}
}

func TestDraft_Unlock(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	drafts := achievements.Evaluate(finance.UserStats{BudgetsCreated: 1}, finance.DerivedCounts{BudgetCount: 1}, nil)
	require.Len(t, drafts, 1)

	a := drafts[0].Unlock("u1", "id-1", at)

	assert.Equal(t, finance.Achievement{
		ID:          "id-1",
		UserID:      "u1",
		Type:        "budget_master",
		Title:       "💰 Budget Master",
		Description: "Created your first budget. Smart financial planning!",
		Icon:        "💰",
		Rarity:      finance.RarityCommon,
		UnlockedAt:  at,
	}, a)
}

// =============================================================================
// SAVINGS RATE
// =============================================================================

func TestSavingsRate(t *testing.T) {
	assert.True(t, achievements.EstimatedIncome(decimal.Zero).IsZero())
	assert.True(t, achievements.SavingsRate(decimal.Zero).IsZero(), "no income, no rate")

	assert.True(t, achievements.EstimatedIncome(decimal.NewFromInt(200)).Equal(decimal.NewFromInt(300)))
	rate := achievements.SavingsRate(decimal.NewFromInt(200))
	assert.Equal(t, "33.33", rate.StringFixed(2))
}
