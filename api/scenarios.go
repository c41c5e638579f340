/*
scenarios.go - Demo data sets for testing and demonstrations

PURPOSE:

	Provides pre-built data sets that populate the calling user's records
	with realistic expenses, budgets and savings goals. Each scenario lands
	the user in a different segment and unlocks a different mix of
	achievements once /api/achievements/check runs.

AVAILABLE SCENARIOS:

	fresh-start:   A handful of expenses and one budget (new user)
	over-budget:   Three months of spending that blows two budgets
	goal-getter:   Savings goals, one of them already reached
	power-user:    Sixty expenses, five budgets, big monthly spend

HOW SCENARIOS WORK:
 1. Purge the user's records (achievements included)
 2. Build records relative to today
 3. Append them through the store

USAGE VIA API:

	POST /api/scenarios/load
	X-User-ID: demo
	{"scenario_id": "over-budget"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(b)
 3. Add case to LoadScenario handler

NOTE:

	Loading a scenario erases the user's own data. Only the calling user is
	affected.

SEE ALSO:
  - handlers.go: record handlers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashwat106/the-financial-blueprint/finance"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "A few expenses and a first budget",
		Category:    "basics",
	},
	{
		ID:          "over-budget",
		Name:        "Over Budget",
		Description: "Three months of rising spending, two budgets exceeded",
		Category:    "budgets",
	},
	{
		ID:          "goal-getter",
		Name:        "Goal Getter",
		Description: "Several savings goals, one already reached",
		Category:    "savings",
	},
	{
		ID:          "power-user",
		Name:        "Power User",
		Description: "Sixty expenses across five budgets with high monthly spend",
		Category:    "advanced",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the scenario the user last loaded, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.scenarioMu.Lock()
	current := h.currentScenario[userFrom(r.Context())]
	h.scenarioMu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario replaces the user's records with a predefined data set.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var loader func(b *scenarioBuilder)
	switch req.ScenarioID {
	case "fresh-start":
		loader = loadFreshStartScenario
	case "over-budget":
		loader = loadOverBudgetScenario
	case "goal-getter":
		loader = loadGoalGetterScenario
	case "power-user":
		loader = loadPowerUserScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q does not exist", req.ScenarioID))
		return
	}

	userID := userFrom(r.Context())
	if err := h.loadScenario(r.Context(), userID, loader); err != nil {
		h.fail(w, r, "Failed to load scenario", err)
		return
	}

	h.scenarioMu.Lock()
	h.currentScenario[userID] = req.ScenarioID
	h.scenarioMu.Unlock()

	h.Logger.Info("scenario loaded", "user_id", userID, "scenario", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

func (h *Handler) loadScenario(ctx context.Context, userID finance.UserID, loader func(b *scenarioBuilder)) error {
	if err := h.Store.PurgeUser(ctx, userID); err != nil {
		return fmt.Errorf("purging user %s: %w", userID, err)
	}

	b := &scenarioBuilder{h: h, userID: userID, today: h.today(), created: h.now().UTC()}
	loader(b)

	for _, e := range b.expenses {
		if err := h.Store.AppendExpense(ctx, e); err != nil {
			return err
		}
	}
	for _, bg := range b.budgets {
		if err := h.Store.AppendBudget(ctx, bg); err != nil {
			return err
		}
	}
	for _, g := range b.goals {
		if err := h.Store.AppendGoal(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// BUILDER
// =============================================================================

// scenarioBuilder collects records dated relative to today.
type scenarioBuilder struct {
	h       *Handler
	userID  finance.UserID
	today   finance.Day
	created time.Time

	expenses []finance.Expense
	budgets  []finance.Budget
	goals    []finance.SavingsGoal
}

func (b *scenarioBuilder) expense(daysAgo int, amount, category, description string) {
	b.expenses = append(b.expenses, finance.Expense{
		ID:          b.h.newID(),
		UserID:      b.userID,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: description,
		Date:        b.today.AddDays(-daysAgo),
		CreatedAt:   b.created,
	})
}

func (b *scenarioBuilder) budget(category, limit string, period finance.BudgetPeriod) {
	b.budgets = append(b.budgets, finance.Budget{
		ID:        b.h.newID(),
		UserID:    b.userID,
		Category:  category,
		Limit:     decimal.RequireFromString(limit),
		Period:    period,
		CreatedAt: b.created,
	})
}

func (b *scenarioBuilder) goal(name, target, current string, daysLeft int, category string, priority finance.Priority) {
	b.goals = append(b.goals, finance.SavingsGoal{
		ID:            b.h.newID(),
		UserID:        b.userID,
		Name:          name,
		TargetAmount:  decimal.RequireFromString(target),
		CurrentAmount: decimal.RequireFromString(current),
		Deadline:      b.today.AddDays(daysLeft),
		Category:      category,
		Priority:      priority,
		CreatedAt:     b.created,
		UpdatedAt:     b.created,
	})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadFreshStartScenario(b *scenarioBuilder) {
	b.expense(3, "42.50", "Food", "Groceries")
	b.expense(2, "12.00", "Transportation", "Bus pass top-up")
	b.expense(1, "18.75", "Entertainment", "Movie night")
	b.budget("Food", "400", finance.PeriodMonthly)
}

func loadOverBudgetScenario(b *scenarioBuilder) {
	// Spending climbs month over month
	for month, scale := range []string{"1", "1.2", "1.5"} {
		s := decimal.RequireFromString(scale)
		daysAgo := 60 - month*30
		b.expense(daysAgo+5, "1500", "Housing", "Rent")
		b.expense(daysAgo+4, decimal.RequireFromString("320").Mul(s).String(), "Food", "Groceries")
		b.expense(daysAgo+3, decimal.RequireFromString("140").Mul(s).String(), "Food", "Restaurants")
		b.expense(daysAgo+2, decimal.RequireFromString("180").Mul(s).String(), "Entertainment", "Concert tickets")
		b.expense(daysAgo+1, "95", "Utilities", "Electricity")
	}
	b.budget("Food", "900", finance.PeriodMonthly)
	b.budget("Entertainment", "300", finance.PeriodMonthly)
	b.budget("Housing", "1600", finance.PeriodMonthly)
}

func loadGoalGetterScenario(b *scenarioBuilder) {
	b.expense(10, "60", "Food", "Farmers market")
	b.expense(8, "35", "Transportation", "Fuel")
	b.expense(6, "25", "Entertainment", "Streaming")
	b.expense(4, "80", "Healthcare", "Pharmacy")
	b.expense(2, "48", "Food", "Groceries")
	b.expense(1, "15", "Other", "Gift wrap")

	b.budget("Food", "500", finance.PeriodMonthly)
	b.budget("Entertainment", "150", finance.PeriodMonthly)

	b.goal("Emergency Fund", "3000", "3000", 30, "Emergency", finance.PriorityHigh)
	b.goal("Summer Trip", "1800", "650", 150, "Travel", finance.PriorityMedium)
	b.goal("New Laptop", "1200", "200", 240, "Electronics", finance.PriorityLow)
}

func loadPowerUserScenario(b *scenarioBuilder) {
	categories := []struct {
		name, amount, description string
	}{
		{"Housing", "210", "Rent installment"},
		{"Food", "38.40", "Groceries"},
		{"Transportation", "22.10", "Rideshare"},
		{"Entertainment", "27.90", "Games"},
		{"Utilities", "31.25", "Internet"},
		{"Shopping", "64.99", "Clothes"},
	}
	for i := 0; i < 60; i++ {
		c := categories[i%len(categories)]
		b.expense(89-i*3/2, c.amount, c.name, c.description)
	}

	b.budget("Housing", "2200", finance.PeriodMonthly)
	b.budget("Food", "800", finance.PeriodMonthly)
	b.budget("Transportation", "350", finance.PeriodMonthly)
	b.budget("Entertainment", "300", finance.PeriodMonthly)
	b.budget("Shopping", "2500", finance.PeriodYearly)

	b.goal("House Deposit", "25000", "9800", 540, "Housing", finance.PriorityHigh)
	b.goal("Index Fund", "5000", "5200", 90, "Investing", finance.PriorityMedium)
}
