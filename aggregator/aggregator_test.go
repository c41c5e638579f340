package aggregator_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shashwat106/the-financial-blueprint/aggregator"
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(s string) decimal.Decimal { return finance.MustParseMoney(s) }

func expense(category, amount, date string) finance.Expense {
	return finance.Expense{
		UserID:   "u1",
		Category: category,
		Amount:   money(amount),
		Date:     finance.MustParseDay(date),
	}
}

func budget(category, limit string) finance.Budget {
	return finance.Budget{UserID: "u1", Category: category, Limit: money(limit), Period: finance.PeriodMonthly}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, note ...string) {
	t.Helper()
	assert.True(t, got.Equal(money(want)), "want %s got %s %v", want, got, note)
}

// =============================================================================
// CATEGORY TOTALS
// =============================================================================

func TestCategoryTotals_Conservation(t *testing.T) {
	expenses := []finance.Expense{
		expense("Food", "12.40", "2025-01-03"),
		expense("Housing", "1500", "2025-01-01"),
		expense("Food", "7.60", "2025-01-09"),
		expense("", "3.33", "2025-01-10"),
		expense("food", "1.01", "2025-01-11"),
	}

	totals := aggregator.CategoryTotals(expenses)

	inputSum := decimal.Zero
	for _, e := range expenses {
		inputSum = inputSum.Add(e.Amount)
	}
	assert.True(t, totals.Sum().Equal(inputSum), "category totals must conserve the input sum")

	assertMoney(t, "20", totals.Get("Food"))
	assertMoney(t, "3.33", totals.Get(""), "empty category is its own bucket")
	assertMoney(t, "1.01", totals.Get("food"), "exact keys are not merged")
	assertMoney(t, "21.01", totals.GetFold("FOOD"))
	assert.Equal(t, []string{"Food", "Housing", "", "food"}, totals.Categories())
}

func TestCategoryTotals_Empty(t *testing.T) {
	totals := aggregator.CategoryTotals(nil)
	assert.Equal(t, 0, totals.Len())
	assert.True(t, totals.Sum().IsZero())
	assert.Empty(t, totals.Ordered())
	_, ok := totals.Top()
	assert.False(t, ok)
}

func TestTotals_OrderedPercentages(t *testing.T) {
	totals := aggregator.CategoryTotals([]finance.Expense{
		expense("Food", "25", "2025-01-01"),
		expense("Rent", "75", "2025-01-01"),
	})

	ordered := totals.Ordered()
	require.Len(t, ordered, 2)
	assertMoney(t, "25", ordered[0].Percentage)
	assertMoney(t, "75", ordered[1].Percentage)

	top, ok := totals.Top()
	require.True(t, ok)
	assert.Equal(t, "Rent", top.Category)
}

// =============================================================================
// BUDGET UTILIZATION
// =============================================================================

func TestBudgetUtilization_Invariants(t *testing.T) {
	// GIVEN: Two budgets, expenses in mixed case plus one unbudgeted category
	budgets := []finance.Budget{budget("Food", "200"), budget("Fun", "50"), budget("Zero", "0")}
	expenses := []finance.Expense{
		expense("food", "120", "2025-01-02"),
		expense("FOOD", "30.50", "2025-01-05"),
		expense("Fun", "80", "2025-01-07"),
		expense("Travel", "999", "2025-01-08"),
	}

	// WHEN: Deriving utilization
	rows := aggregator.BudgetUtilization(budgets, expenses)

	// THEN: One row per budget, with the documented invariants
	require.Len(t, rows, 3)

	food := rows[0]
	assertMoney(t, "150.50", food.Spent)
	assertMoney(t, "49.50", food.Remaining)
	assertMoney(t, "75.25", food.UtilizationRate)
	assert.False(t, food.IsOverBudget)

	fun := rows[1]
	assertMoney(t, "-30", fun.Remaining)
	assertMoney(t, "160", fun.UtilizationRate)
	assert.True(t, fun.IsOverBudget)

	zero := rows[2]
	assert.True(t, zero.UtilizationRate.IsZero(), "zero limit yields zero rate")
	assert.False(t, zero.IsOverBudget)

	for _, r := range rows {
		assert.True(t, r.Remaining.Add(r.Spent).Equal(r.Budgeted), "remaining + spent == budgeted for %s", r.Category)
		assert.Equal(t, r.Spent.GreaterThan(r.Budgeted), r.IsOverBudget)
	}

	assert.Len(t, aggregator.OverBudget(rows), 1)
}

func TestBudgetUtilization_NoBudgets(t *testing.T) {
	rows := aggregator.BudgetUtilization(nil, []finance.Expense{expense("Food", "5", "2025-01-01")})
	assert.Empty(t, rows)
}

// =============================================================================
// BENCHMARK
// =============================================================================

func TestCompareToBenchmark_ZeroAverageGuard(t *testing.T) {
	// GIVEN: A category whose reference amount is zero
	bench := aggregator.Benchmark{Entries: []aggregator.BenchmarkEntry{
		{Category: "Pets", Average: decimal.Zero},
		{Category: "Gifts", Average: decimal.Zero},
	}}
	totals := aggregator.CategoryTotals([]finance.Expense{expense("Pets", "50", "2025-01-01")})

	// WHEN: Comparing
	rows := aggregator.CompareToBenchmark(totals, bench)

	// THEN: changePct is 0; trend is up only when the user spent something
	require.Len(t, rows, 2)
	assert.True(t, rows[0].ChangePct.IsZero())
	assert.Equal(t, aggregator.TrendUp, rows[0].Trend)
	assert.True(t, rows[1].ChangePct.IsZero())
	assert.Equal(t, aggregator.TrendDown, rows[1].Trend)
	assert.Equal(t, aggregator.DefaultColor, rows[0].Color)
}

func TestCompareToBenchmark_National(t *testing.T) {
	totals := aggregator.CategoryTotals([]finance.Expense{
		expense("housing", "2160", "2025-01-01"),
		expense("Food", "600", "2025-01-02"),
	})

	rows := aggregator.CompareToBenchmark(totals, aggregator.NationalBenchmark())

	require.Len(t, rows, 8)
	assert.Equal(t, "Housing", rows[0].Category, "benchmark order is preserved")
	assertMoney(t, "2160", rows[0].User, "lookup is case-insensitive")
	assert.Equal(t, aggregator.TrendUp, rows[0].Trend)
	assertMoney(t, "20", rows[0].ChangePct)
	assert.Equal(t, "#27ae60", rows[0].Color)

	assert.Equal(t, aggregator.TrendDown, rows[1].Trend)
	assertMoney(t, "-20", rows[1].ChangePct)

	other := rows[7]
	assert.True(t, other.User.IsZero())
	assertMoney(t, "-100", other.ChangePct)
}

func TestCompare_EqualIsDown(t *testing.T) {
	c := aggregator.Compare("Food", money("750"), money("750"))
	assert.Equal(t, aggregator.TrendDown, c.Trend)
	assert.True(t, c.ChangePct.IsZero())
}

// =============================================================================
// MONTHLY SERIES & TREND
// =============================================================================

func TestMonthlySeries_Chronological(t *testing.T) {
	expenses := []finance.Expense{
		expense("Food", "10", "2025-03-05"),
		expense("Food", "20", "2025-01-15"),
		expense("Rent", "5", "2025-03-30"),
		{Category: "Misc", Amount: money("1")},
		expense("Food", "7", "2024-12-31"),
	}

	series := aggregator.MonthlySeries(expenses)

	labels := make([]string, len(series))
	for i, p := range series {
		labels[i] = p.PeriodLabel
	}
	assert.Equal(t, []string{"2024-12", "2025-01", "2025-03", aggregator.UndatedLabel}, labels)
	assertMoney(t, "15", series[2].Amount)

	// Pure: same input, same output
	assert.Equal(t, series, aggregator.MonthlySeries(expenses))
}

func TestSpendingTrendOf(t *testing.T) {
	series := func(prev, last string) []aggregator.PeriodAmount {
		return []aggregator.PeriodAmount{
			{PeriodLabel: "2025-01", Amount: money(prev)},
			{PeriodLabel: "2025-02", Amount: money(last)},
		}
	}

	assert.Equal(t, aggregator.TrendInsufficientData, aggregator.SpendingTrendOf(series("1", "1")[:1]))
	assert.Equal(t, aggregator.TrendIncreasing, aggregator.SpendingTrendOf(series("100", "111")))
	assert.Equal(t, aggregator.TrendStable, aggregator.SpendingTrendOf(series("100", "110")))
	assert.Equal(t, aggregator.TrendDecreasing, aggregator.SpendingTrendOf(series("100", "89")))
	assert.Equal(t, aggregator.TrendStable, aggregator.SpendingTrendOf(series("100", "90")))
}

func TestTrackingDays(t *testing.T) {
	assert.Equal(t, 0, aggregator.TrackingDays(nil))
	assert.Equal(t, 45, aggregator.TrackingDays([]finance.Expense{
		expense("Food", "1", "2025-02-15"),
		expense("Food", "1", "2025-01-01"),
		{Category: "Undated", Amount: money("1")},
	}))
}

// =============================================================================
// SEGMENTS & INSIGHTS
// =============================================================================

func manyExpenses(n int, amount string) []finance.Expense {
	out := make([]finance.Expense, n)
	for i := range out {
		out[i] = expense(fmt.Sprintf("cat-%d", i%3), amount, "2025-01-01")
	}
	return out
}

func TestUserSegment_RuleOrder(t *testing.T) {
	seg := func(expenses []finance.Expense, budgets int) aggregator.Segment {
		return aggregator.UserSegment(aggregator.CategoryTotals(expenses), budgets, len(expenses))
	}

	assert.Equal(t, aggregator.SegmentNewUser, seg(manyExpenses(4, "10000"), 5))
	assert.Equal(t, aggregator.SegmentExpenseTracker, seg(manyExpenses(60, "1"), 0))
	assert.Equal(t, aggregator.SegmentActiveBudgeter, seg(manyExpenses(60, "100"), 5), "spending rule wins over advanced")
	assert.Equal(t, aggregator.SegmentAdvancedUser, seg(manyExpenses(60, "1"), 4))
	assert.Equal(t, aggregator.SegmentRegularUser, seg(manyExpenses(10, "1"), 1))
}

func TestInsights_Order(t *testing.T) {
	// GIVEN: 11 expenses, one budget that is blown
	expenses := append(manyExpenses(10, "10"), expense("Dining", "400", "2025-01-20"))
	budgets := []finance.Budget{budget("dining", "100")}

	// WHEN
	insights := aggregator.Insights(expenses, budgets)

	// THEN: pattern, alert, opportunity - in that order
	require.Len(t, insights, 3)
	assert.Equal(t, aggregator.InsightSpendingPattern, insights[0].Type)
	assert.Equal(t, "You spend most on Dining (80.0% of total)", insights[0].Description)
	assert.Equal(t, aggregator.InsightBudgetAlert, insights[1].Type)
	assert.Equal(t, "You're over budget in 1 categories", insights[1].Description)
	assert.Equal(t, aggregator.InsightSavingsOpportunity, insights[2].Type)
}

func TestInsights_BudgetSuccessAndEmpty(t *testing.T) {
	assert.Empty(t, aggregator.Insights(nil, nil))

	insights := aggregator.Insights(nil, []finance.Budget{budget("Food", "100")})
	require.Len(t, insights, 1)
	assert.Equal(t, aggregator.InsightBudgetSuccess, insights[0].Type)
	assert.False(t, insights[0].Actionable)
}

// =============================================================================
// SUMMARIES
// =============================================================================

func TestSummarize(t *testing.T) {
	s := aggregator.Summarize([]finance.Expense{
		expense("Food", "100", "2025-01-01"),
		expense("Housing", "900", "2025-01-01"),
	}, aggregator.NationalBenchmark())

	assertMoney(t, "1000", s.TotalSpent)
	assert.Equal(t, 2, s.ExpenseCount)
	assert.Len(t, s.Comparison, 8)
}

func TestBuildFinancialSummary(t *testing.T) {
	expenses := []finance.Expense{
		expense("Food", "100", "2025-01-10"),
		expense("Food", "200", "2025-02-10"),
		expense("Rent", "600", "2025-02-01"),
	}
	budgets := []finance.Budget{budget("Food", "250")}

	s := aggregator.BuildFinancialSummary("u1", expenses, budgets, finance.NewDay(2025, time.February, 20))

	assertMoney(t, "800", s.CurrentMonthSpending.Sum())
	assertMoney(t, "900", s.CategoryTotals.Sum())
	assertMoney(t, "30", s.Patterns.AverageDailySpending)
	assert.Equal(t, "Rent", s.Patterns.MostExpensiveCategory.Category)
	assert.Equal(t, aggregator.TrendIncreasing, s.Patterns.Trend)
	assert.Equal(t, aggregator.SegmentNewUser, s.Segment)
	require.Len(t, s.BudgetUtilization, 1)
	assert.True(t, s.BudgetUtilization[0].IsOverBudget)
	assert.Equal(t, aggregator.DataCompleteness{
		HasExpenses: true, HasBudgets: true, ExpenseCount: 3, BudgetCount: 1, TrackingDays: 31,
	}, s.Completeness)
}
