/*
scenarios_test.go - Tests for demo data sets

PURPOSE:
	Tests that each scenario loads the expected records for the calling
	user only, that reloading replaces earlier data (achievements
	included), and that each lands the user in the intended segment.
*/
package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_List(t *testing.T) {
	a := newTestAPI(t)

	list := decode[[]ScenarioDTO](t, a.do(t, http.MethodGet, "/api/scenarios", "alice", nil))

	require.Len(t, list, len(scenarios))
	seen := map[string]bool{}
	for _, s := range list {
		assert.False(t, seen[s.ID], "duplicate scenario %s", s.ID)
		seen[s.ID] = true
	}
}

func TestScenarios_EachLoads(t *testing.T) {
	segments := map[string]string{
		"fresh-start": "new_user",
		"over-budget": "active_budgeter",
		"goal-getter": "regular_user",
		"power-user":  "active_budgeter",
	}

	for _, s := range scenarios {
		t.Run(s.ID, func(t *testing.T) {
			// GIVEN: A fresh API
			a := newTestAPI(t)

			// WHEN: Loading the scenario
			rec := a.do(t, http.MethodPost, "/api/scenarios/load", "demo", map[string]string{"scenario_id": s.ID})

			// THEN: Records exist and the summary reflects them
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, map[string]string{"status": "loaded", "scenario": s.ID}, decode[map[string]string](t, rec))

			expenses := decode[[]ExpenseDTO](t, a.do(t, http.MethodGet, "/api/expenses", "demo", nil))
			assert.NotEmpty(t, expenses)

			summary := decode[FinancialSummaryDTO](t, a.do(t, http.MethodGet, "/api/user-data/financial-summary", "demo", nil))
			assert.Equal(t, segments[s.ID], summary.UserSegment)

			current := decode[ScenarioDTO](t, a.do(t, http.MethodGet, "/api/scenarios/current", "demo", nil))
			assert.Equal(t, s.ID, current.ID)
		})
	}
}

func TestScenarios_GoalGetterUnlocksGoalAchiever(t *testing.T) {
	a := newTestAPI(t)
	rec := a.do(t, http.MethodPost, "/api/scenarios/load", "demo", map[string]string{"scenario_id": "goal-getter"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[CheckAchievementsResponse](t, a.do(t, http.MethodPost, "/api/achievements/check", "demo", nil))

	var types []string
	for _, ach := range resp.NewAchievements {
		types = append(types, ach.AchievementType)
	}
	assert.Contains(t, types, "goal_setter")
	assert.Contains(t, types, "goal_achiever")
	assert.NotContains(t, types, "financial_guru")
}

func TestScenarios_ReloadReplacesUserData(t *testing.T) {
	a := newTestAPI(t)
	ctx := context.Background()

	// GIVEN: A user with their own data and unlocked achievements, and a bystander
	a.createExpense(t, "demo", 5000, "Travel", "2025-03-01")
	a.createExpense(t, "bystander", 10, "Food", "2025-03-01")
	a.do(t, http.MethodPost, "/api/achievements/check", "demo", nil)

	// WHEN: Loading a scenario
	rec := a.do(t, http.MethodPost, "/api/scenarios/load", "demo", map[string]string{"scenario_id": "fresh-start"})
	require.Equal(t, http.StatusOK, rec.Code)

	// THEN: Only the scenario's records remain for the caller
	expenses, err := a.store.ListExpenses(ctx, "demo")
	require.NoError(t, err)
	assert.Len(t, expenses, 3)
	for _, e := range expenses {
		assert.NotEqual(t, "Travel", e.Category)
	}
	unlocked, err := a.store.ListAchievements(ctx, "demo")
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	// The other user is untouched
	others, err := a.store.ListExpenses(ctx, "bystander")
	require.NoError(t, err)
	assert.Len(t, others, 1)
}

func TestScenarios_Unknown(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/scenarios/load", "demo", map[string]string{"scenario_id": "lottery-win"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "null\n", a.do(t, http.MethodGet, "/api/scenarios/current", "demo", nil).Body.String())
}
