package simulator_test

import (
	"errors"
	"testing"

	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shashwat106/the-financial-blueprint/simulator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func typicalExpenses() map[string]string {
	return map[string]string{
		"housing":        "1500",
		"food":           "600",
		"transportation": "300",
		"entertainment":  "250",
		"utilities":      "200",
		"healthcare":     "150",
		"other":          "200",
	}
}

func parse(t *testing.T, income, goal, months string, expenses map[string]string) simulator.Input {
	t.Helper()
	in, err := simulator.ParseInput(simulator.RawInput{
		Income: income, SavingsGoal: goal, Months: months, Expenses: expenses,
	})
	require.NoError(t, err)
	return in
}

// =============================================================================
// SIMULATE
// =============================================================================

func TestSimulate_GoalReachable(t *testing.T) {
	// GIVEN: A 5000 income with 3200 of monthly expenses
	in := parse(t, "5000", "500", "12", typicalExpenses())

	// WHEN: Simulating a year
	r, err := simulator.Simulate(in)
	require.NoError(t, err)

	// THEN: The remainder covers the goal
	assert.True(t, r.MonthlyExpenses.Equal(d("3200")))
	assert.True(t, r.MonthlyRemaining.Equal(d("1800")))
	assert.True(t, r.ActualMonthlySavings.Equal(d("1800")))
	assert.True(t, r.CanReachGoal)
	assert.True(t, r.TotalSaved.Equal(d("21600")))
	assert.True(t, r.GoalAmount.Equal(d("6000")))
	assert.False(t, r.HasShortfall())

	require.Len(t, r.Projection, 12)
	assert.True(t, r.Projection[0].Saved.Equal(d("1800")))
	assert.True(t, r.Projection[11].Saved.Equal(r.TotalSaved))
	assert.True(t, r.Projection[11].Goal.Equal(r.GoalAmount))

	require.Len(t, r.Breakdown, 7)
	assert.Equal(t, "entertainment", r.Breakdown[0].Category, "breakdown is ordered by category")
	assert.True(t, r.Breakdown[0].PercentOfIncome.Equal(d("5")))

	recs := simulator.Recommend(in.Income, in.Expenses, in.SavingsGoal)
	assert.Equal(t, []string{simulator.MsgOnTrack, simulator.MsgSurplus}, recs)
}

func TestSimulate_NegativeRemainder(t *testing.T) {
	// GIVEN: The same expenses on a 3000 income
	in := parse(t, "3000", "500", "12", typicalExpenses())

	// WHEN
	r, err := simulator.Simulate(in)
	require.NoError(t, err)

	// THEN: A negative remainder saves nothing and the goal is missed
	assert.True(t, r.MonthlyRemaining.Equal(d("-200")))
	assert.True(t, r.ActualMonthlySavings.IsZero())
	assert.True(t, r.TotalSaved.IsZero())
	assert.False(t, r.CanReachGoal)
	assert.True(t, r.Shortfall.Equal(d("6000")))

	// housing 1500 > 900, food 600 > 450, entertainment 250 <= 300
	recs := simulator.Recommend(in.Income, in.Expenses, in.SavingsGoal)
	assert.Equal(t, []string{simulator.MsgShortfall, simulator.MsgHousing, simulator.MsgFood}, recs)
}

func TestSimulate_ShortfallProperties(t *testing.T) {
	cases := []struct {
		income, goal, months string
	}{
		{"1000", "100", "1"},
		{"1000", "1000", "3"},
		{"1000", "1001", "3"},
		{"0", "50", "24"},
		{"3200", "0.01", "6"},
		{"3199.99", "0.01", "6"},
	}

	for _, tc := range cases {
		t.Run(tc.income+"/"+tc.goal, func(t *testing.T) {
			in := parse(t, tc.income, tc.goal, tc.months, map[string]string{"housing": "1600", "food": "1600"})
			r, err := simulator.Simulate(in)
			require.NoError(t, err)

			if r.CanReachGoal {
				assert.False(t, r.Shortfall.IsPositive())
			} else {
				assert.True(t, r.Shortfall.IsPositive())
			}
			assert.True(t, r.TotalSaved.Equal(r.ActualMonthlySavings.Mul(decimal.NewFromInt(int64(r.Months)))))
		})
	}
}

func TestSimulate_EmptyBreakdown(t *testing.T) {
	in := parse(t, "2000", "300", "2", map[string]string{})

	r, err := simulator.Simulate(in)
	require.NoError(t, err)

	assert.True(t, r.MonthlyExpenses.IsZero())
	assert.True(t, r.MonthlyRemaining.Equal(d("2000")))
	assert.Empty(t, r.Breakdown)
}

func TestSimulate_ZeroIncomeShares(t *testing.T) {
	in := parse(t, "0", "10", "1", map[string]string{"food": "5"})

	r, err := simulator.Simulate(in)
	require.NoError(t, err)

	require.Len(t, r.Breakdown, 1)
	assert.True(t, r.Breakdown[0].PercentOfIncome.IsZero())
}

func TestSimulate_RejectsUnvalidatedInput(t *testing.T) {
	_, err := simulator.Simulate(simulator.Input{Income: d("100"), SavingsGoal: d("10"), Months: 0})
	assert.ErrorIs(t, err, finance.ErrInvalidInput)
}

func TestSimulate_HugeHorizonRejected(t *testing.T) {
	// GIVEN: A horizon far beyond any plausible plan
	in := simulator.Input{Income: d("5000"), SavingsGoal: d("500"), Months: 1_000_000_000_000}

	// WHEN
	var err error
	assert.NotPanics(t, func() { _, err = simulator.Simulate(in) })

	// THEN: Rejected before any projection is built
	var inv *finance.InvalidInputError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "months", inv.Field)
}

func TestSimulate_MaxHorizon(t *testing.T) {
	r, err := simulator.Simulate(simulator.Input{Income: d("5000"), SavingsGoal: d("500"), Months: simulator.MaxMonths})

	require.NoError(t, err)
	assert.Len(t, r.Projection, simulator.MaxMonths)
}

// =============================================================================
// INPUT VALIDATION
// =============================================================================

func TestParseInput_Invalid(t *testing.T) {
	valid := simulator.RawInput{Income: "5000", SavingsGoal: "500", Months: "12"}

	cases := []struct {
		name  string
		edit  func(r *simulator.RawInput)
		field string
	}{
		{"missing income", func(r *simulator.RawInput) { r.Income = "" }, "income"},
		{"non-numeric income", func(r *simulator.RawInput) { r.Income = "lots" }, "income"},
		{"negative income", func(r *simulator.RawInput) { r.Income = "-1" }, "income"},
		{"missing goal", func(r *simulator.RawInput) { r.SavingsGoal = "  " }, "savingsGoal"},
		{"zero goal", func(r *simulator.RawInput) { r.SavingsGoal = "0" }, "savingsGoal"},
		{"missing months", func(r *simulator.RawInput) { r.Months = "" }, "months"},
		{"fractional months", func(r *simulator.RawInput) { r.Months = "1.5" }, "months"},
		{"zero months", func(r *simulator.RawInput) { r.Months = "0" }, "months"},
		{"negative months", func(r *simulator.RawInput) { r.Months = "-3" }, "months"},
		{"months beyond horizon", func(r *simulator.RawInput) { r.Months = "1201" }, "months"},
		{"months overflowing int", func(r *simulator.RawInput) { r.Months = "99999999999999999999" }, "months"},
		{"bad expense", func(r *simulator.RawInput) { r.Expenses = map[string]string{"food": "abc"} }, "expenses.food"},
		{"negative expense", func(r *simulator.RawInput) { r.Expenses = map[string]string{"food": "-5"} }, "expenses.food"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := valid
			tc.edit(&raw)

			_, err := simulator.ParseInput(raw)

			require.Error(t, err)
			assert.True(t, finance.IsClientError(err))
			var inv *finance.InvalidInputError
			require.True(t, errors.As(err, &inv))
			assert.Equal(t, tc.field, inv.Field)
		})
	}
}

// =============================================================================
// RECOMMEND
// =============================================================================

func TestRecommend_RuleOrder(t *testing.T) {
	// GIVEN: Every category over its threshold
	expenses := simulator.NewBreakdown(map[string]decimal.Decimal{
		"Food":          d("200"),
		"Entertainment": d("150"),
		"Housing":       d("400"),
	})

	// WHEN
	recs := simulator.Recommend(d("1000"), expenses, d("300"))

	// THEN: Shortfall first, then housing, entertainment, food
	assert.Equal(t, []string{
		simulator.MsgShortfall,
		simulator.MsgHousing,
		simulator.MsgEntertainment,
		simulator.MsgFood,
	}, recs)
}

func TestRecommend_Boundaries(t *testing.T) {
	// Remainder equal to the goal is on track; exactly 1.5x is not a surplus.
	assert.Equal(t, []string{simulator.MsgOnTrack},
		simulator.Recommend(d("1000"), simulator.Breakdown{{Category: "rent", Amount: d("700")}}, d("300")))
	assert.Equal(t, []string{simulator.MsgOnTrack},
		simulator.Recommend(d("1000"), simulator.Breakdown{{Category: "rent", Amount: d("550")}}, d("300")))
	assert.Equal(t, []string{simulator.MsgOnTrack, simulator.MsgSurplus},
		simulator.Recommend(d("1000"), simulator.Breakdown{{Category: "rent", Amount: d("549")}}, d("300")))

	// Exactly 30% of income on housing does not trigger.
	assert.Equal(t, []string{simulator.MsgShortfall},
		simulator.Recommend(d("1000"), simulator.Breakdown{{Category: "housing", Amount: d("300")}, {Category: "x", Amount: d("600")}}, d("300")))
}

func TestRecommend_Deterministic(t *testing.T) {
	in := parse(t, "3000", "500", "12", typicalExpenses())

	first := simulator.Recommend(in.Income, in.Expenses, in.SavingsGoal)
	for i := 0; i < 20; i++ {
		again := parse(t, "3000", "500", "12", typicalExpenses())
		assert.Equal(t, first, simulator.Recommend(again.Income, again.Expenses, again.SavingsGoal))
	}
}
