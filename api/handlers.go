/*
handlers.go - HTTP API handlers for the financial blueprint

PURPOSE:
  Exposes the aggregation, simulation and achievement engines via REST API.
  Handles HTTP request/response and JSON serialization, loads a consistent
  record snapshot from the store and hands it to the engine packages.

ENDPOINTS:
  Expenses:
    GET    /api/expenses                 List the user's expenses
    POST   /api/expenses                 Record an expense
    GET    /api/expenses/summary         Category totals vs. a benchmark
    PUT    /api/expenses/{id}            Update an expense
    DELETE /api/expenses/{id}            Delete an expense

  Budgets:
    GET    /api/budgets                  Budgets with derived spent/remaining
    POST   /api/budgets                  Create a budget
    POST   /api/budgets/simulate         Savings simulation + recommendations
    PUT    /api/budgets/{id}             Update a budget
    DELETE /api/budgets/{id}             Delete a budget

  Savings goals:
    GET    /api/savings-goals            Goals with derived progress
    POST   /api/savings-goals            Create a goal
    PUT    /api/savings-goals/{id}       Update a goal
    DELETE /api/savings-goals/{id}       Delete a goal
    POST   /api/savings-goals/{id}/add   Add funds

  Achievements:
    GET    /api/achievements             Unlocked achievements, newest first
    GET    /api/achievements/stats       Derived user stats
    POST   /api/achievements/check       Evaluate and unlock

  User data:
    GET    /api/user-data/financial-summary
    GET    /api/user-data/insights

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: record persistence (SQLite or memory)
  - Benchmarks: named reference spending sets
  - Publisher: achievement-unlocked events

REQUEST FLOW:
  1. Resolve the user (X-User-ID, see server.go)
  2. Parse and validate input
  3. Load records, call the engine (aggregator, simulator, achievements)
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found (or owned by another user)
  - 409: Conflict (achievement already unlocked)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo data sets
  - scheduler.go: Background achievement evaluation
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/shashwat106/the-financial-blueprint/achievements"
	"github.com/shashwat106/the-financial-blueprint/aggregator"
	"github.com/shashwat106/the-financial-blueprint/events"
	"github.com/shashwat106/the-financial-blueprint/factory"
	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shashwat106/the-financial-blueprint/simulator"
)

// maxUnlockAttempts bounds retries when a concurrent check unlocked the
// same achievement first.
const maxUnlockAttempts = 3

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      finance.Store
	Benchmarks *factory.BenchmarkSet
	Publisher  events.Publisher
	Logger     *slog.Logger

	now   func() time.Time
	newID func() string

	// Track the demo data set each user last loaded
	scenarioMu      sync.Mutex
	currentScenario map[finance.UserID]string
}

// NewHandler creates a handler. A nil benchmarks set falls back to the
// national averages, a nil publisher drops events.
func NewHandler(store finance.Store, benchmarks *factory.BenchmarkSet, publisher events.Publisher, logger *slog.Logger) *Handler {
	if benchmarks == nil {
		benchmarks = factory.NewBenchmarkSet()
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:           store,
		Benchmarks:      benchmarks,
		Publisher:       publisher,
		Logger:          logger.With("component", "api"),
		now:             time.Now,
		newID:           uuid.NewString,
		currentScenario: make(map[finance.UserID]string),
	}
}

func (h *Handler) today() finance.Day {
	return finance.DayOf(h.now())
}

// snapshot is every record the engine reads for one user.
type snapshot struct {
	expenses     []finance.Expense
	budgets      []finance.Budget
	goals        []finance.SavingsGoal
	achievements []finance.Achievement
}

// loadSnapshot reads the user's records concurrently. Each list is read
// under its own store lock, so a write landing between reads can show up in
// one list and not another. Achievement predicates are monotonic and unlocks
// are unique per (user, type), so a stale view delays an unlock until the
// next check but never duplicates or wrongly grants one.
func (h *Handler) loadSnapshot(ctx context.Context, userID finance.UserID) (snapshot, error) {
	var s snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.expenses, err = h.Store.ListExpenses(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		s.budgets, err = h.Store.ListBudgets(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		s.goals, err = h.Store.ListGoals(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		s.achievements, err = h.Store.ListAchievements(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, fmt.Errorf("loading records for %s: %w", userID, err)
	}
	return s, nil
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// ListExpenses returns the user's expenses in the order they were recorded.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListExpenses(r.Context(), userFrom(r.Context()))
	if err != nil {
		h.fail(w, r, "Error fetching expenses", err)
		return
	}

	dtos := make([]ExpenseDTO, len(list))
	for i, e := range list {
		dtos[i] = toExpenseDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateExpense records a new expense. Amount, category, description and
// date are all required.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	e, err := newExpense(req)
	if err != nil {
		h.fail(w, r, "All fields are required", err)
		return
	}
	e.ID = h.newID()
	e.UserID = userFrom(r.Context())
	e.CreatedAt = h.now().UTC()

	if err := h.Store.AppendExpense(r.Context(), e); err != nil {
		h.fail(w, r, "Error creating expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(e))
}

// UpdateExpense applies the supplied fields to one of the user's expenses.
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch, err := expensePatch(req)
	if err != nil {
		h.fail(w, r, "Invalid expense", err)
		return
	}
	if _, err := h.Store.UpdateExpense(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), patch); err != nil {
		h.fail(w, r, "Error updating expense", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Expense updated successfully"})
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.RemoveExpense(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Error deleting expense", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

// ExpenseSummary returns category totals compared against a benchmark,
// selected with ?benchmark=<name> (national by default).
func (h *Handler) ExpenseSummary(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListExpenses(r.Context(), userFrom(r.Context()))
	if err != nil {
		h.fail(w, r, "Error fetching expense summary", err)
		return
	}

	benchmark := h.Benchmarks.Get(r.URL.Query().Get("benchmark"))
	summary := aggregator.Summarize(list, benchmark)
	writeJSON(w, http.StatusOK, toExpenseSummaryResponse(summary, benchmark.Name))
}

func newExpense(req ExpenseRequest) (finance.Expense, error) {
	amount, err := positiveAmount("amount", req.Amount)
	if err != nil {
		return finance.Expense{}, err
	}
	category, err := requiredText("category", req.Category)
	if err != nil {
		return finance.Expense{}, err
	}
	description, err := requiredText("description", req.Description)
	if err != nil {
		return finance.Expense{}, err
	}
	date, err := requiredDay("date", req.Date)
	if err != nil {
		return finance.Expense{}, err
	}
	return finance.Expense{Amount: amount, Category: category, Description: description, Date: date}, nil
}

func expensePatch(req ExpenseRequest) (finance.ExpensePatch, error) {
	var p finance.ExpensePatch
	if req.Amount.IsSet() {
		amount, err := positiveAmount("amount", req.Amount)
		if err != nil {
			return p, err
		}
		p.Amount = &amount
	}
	if req.Category != nil {
		category, err := requiredText("category", req.Category)
		if err != nil {
			return p, err
		}
		p.Category = &category
	}
	p.Description = req.Description
	if req.Date != nil {
		date, err := requiredDay("date", req.Date)
		if err != nil {
			return p, err
		}
		p.Date = &date
	}
	return p, nil
}

// =============================================================================
// BUDGET HANDLERS
// =============================================================================

// ListBudgets returns budgets with spending derived from current expenses.
func (h *Handler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context())
	snap, err := h.loadSnapshot(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "Error fetching budgets", err)
		return
	}

	rows := aggregator.BudgetUtilization(snap.budgets, snap.expenses)
	dtos := make([]BudgetDTO, len(rows))
	for i, u := range rows {
		dtos[i] = toBudgetDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBudget requires a category and a limit; the period defaults to
// monthly.
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	b, err := newBudget(req)
	if err != nil {
		h.fail(w, r, "Category and limit are required", err)
		return
	}
	b.ID = h.newID()
	b.UserID = userFrom(r.Context())
	b.CreatedAt = h.now().UTC()

	if err := h.Store.AppendBudget(r.Context(), b); err != nil {
		h.fail(w, r, "Error creating budget", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetDTO(aggregator.BudgetUtilization([]finance.Budget{b}, nil)[0]))
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch, err := budgetPatch(req)
	if err != nil {
		h.fail(w, r, "Invalid budget", err)
		return
	}
	if _, err := h.Store.UpdateBudget(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), patch); err != nil {
		h.fail(w, r, "Error updating budget", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Budget updated successfully"})
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.RemoveBudget(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Error deleting budget", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Budget deleted successfully"})
}

// Simulate runs a what-if savings projection. Nothing is persisted.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in, err := simulator.ParseInput(req.Raw())
	if err != nil {
		h.fail(w, r, "All simulation parameters are required", err)
		return
	}
	result, err := simulator.Simulate(in)
	if err != nil {
		h.fail(w, r, "Error running budget simulation", err)
		return
	}
	recommendations := simulator.Recommend(in.Income, in.Expenses, in.SavingsGoal)
	writeJSON(w, http.StatusOK, toSimulateResponse(result, recommendations))
}

func newBudget(req BudgetRequest) (finance.Budget, error) {
	category, err := requiredText("category", req.Category)
	if err != nil {
		return finance.Budget{}, err
	}
	limit, err := positiveAmount("limit", req.Limit)
	if err != nil {
		return finance.Budget{}, err
	}
	period := finance.PeriodMonthly
	if req.Period != nil && *req.Period != "" {
		if period, err = parsePeriod(*req.Period); err != nil {
			return finance.Budget{}, err
		}
	}
	return finance.Budget{Category: category, Limit: limit, Period: period}, nil
}

func budgetPatch(req BudgetRequest) (finance.BudgetPatch, error) {
	var p finance.BudgetPatch
	if req.Category != nil {
		category, err := requiredText("category", req.Category)
		if err != nil {
			return p, err
		}
		p.Category = &category
	}
	if req.Limit.IsSet() {
		limit, err := positiveAmount("limit", req.Limit)
		if err != nil {
			return p, err
		}
		p.Limit = &limit
	}
	if req.Period != nil {
		period, err := parsePeriod(*req.Period)
		if err != nil {
			return p, err
		}
		p.Period = &period
	}
	return p, nil
}

func parsePeriod(s string) (finance.BudgetPeriod, error) {
	p := finance.BudgetPeriod(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", &finance.InvalidInputError{Field: "period", Value: s, Reason: "must be weekly, monthly or yearly"}
	}
	return p, nil
}

// =============================================================================
// SAVINGS GOAL HANDLERS
// =============================================================================

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListGoals(r.Context(), userFrom(r.Context()))
	if err != nil {
		h.fail(w, r, "Error fetching savings goals", err)
		return
	}

	today := h.today()
	dtos := make([]SavingsGoalDTO, len(list))
	for i, g := range list {
		dtos[i] = toSavingsGoalDTO(g, today)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateGoal requires name, target amount, deadline and category. Priority
// defaults to medium and the starting balance to zero.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req SavingsGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	g, err := newGoal(req)
	if err != nil {
		h.fail(w, r, "Name, target amount, deadline, and category are required", err)
		return
	}
	now := h.now().UTC()
	g.ID = h.newID()
	g.UserID = userFrom(r.Context())
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := h.Store.AppendGoal(r.Context(), g); err != nil {
		h.fail(w, r, "Error creating savings goal", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSavingsGoalDTO(g, h.today()))
}

func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req SavingsGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch, err := goalPatch(req)
	if err != nil {
		h.fail(w, r, "Invalid savings goal", err)
		return
	}
	if _, err := h.Store.UpdateGoal(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), patch); err != nil {
		h.fail(w, r, "Error updating savings goal", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Savings goal updated successfully"})
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.RemoveGoal(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Error deleting savings goal", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Savings goal deleted successfully"})
}

// AddFunds adds a positive amount to a goal's balance.
func (h *Handler) AddFunds(w http.ResponseWriter, r *http.Request) {
	var req AddFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := positiveAmount("amount", req.Amount)
	if err != nil {
		h.fail(w, r, "Valid amount is required", err)
		return
	}
	g, err := h.Store.AddFunds(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), amount)
	if err != nil {
		if finance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Savings goal not found", err)
			return
		}
		h.fail(w, r, "Error adding amount to savings goal", err)
		return
	}
	writeJSON(w, http.StatusOK, AddFundsResponse{
		Message:   "Amount added successfully",
		NewAmount: finance.Cents(g.CurrentAmount),
	})
}

func newGoal(req SavingsGoalRequest) (finance.SavingsGoal, error) {
	name, err := requiredText("name", req.Name)
	if err != nil {
		return finance.SavingsGoal{}, err
	}
	target, err := positiveAmount("targetAmount", req.TargetAmount)
	if err != nil {
		return finance.SavingsGoal{}, err
	}
	deadline, err := requiredDay("deadline", req.Deadline)
	if err != nil {
		return finance.SavingsGoal{}, err
	}
	category, err := requiredText("category", req.Category)
	if err != nil {
		return finance.SavingsGoal{}, err
	}

	g := finance.SavingsGoal{
		Name:          name,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Deadline:      deadline,
		Category:      category,
		Priority:      finance.PriorityMedium,
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.CurrentAmount.IsSet() {
		if g.CurrentAmount, err = nonNegativeAmount("currentAmount", req.CurrentAmount); err != nil {
			return finance.SavingsGoal{}, err
		}
	}
	if req.Priority != nil && *req.Priority != "" {
		if g.Priority, err = parsePriority(*req.Priority); err != nil {
			return finance.SavingsGoal{}, err
		}
	}
	return g, nil
}

func goalPatch(req SavingsGoalRequest) (finance.GoalPatch, error) {
	var p finance.GoalPatch
	if req.Name != nil {
		name, err := requiredText("name", req.Name)
		if err != nil {
			return p, err
		}
		p.Name = &name
	}
	p.Description = req.Description
	if req.TargetAmount.IsSet() {
		target, err := positiveAmount("targetAmount", req.TargetAmount)
		if err != nil {
			return p, err
		}
		p.TargetAmount = &target
	}
	if req.CurrentAmount.IsSet() {
		current, err := nonNegativeAmount("currentAmount", req.CurrentAmount)
		if err != nil {
			return p, err
		}
		p.CurrentAmount = &current
	}
	if req.Deadline != nil {
		deadline, err := requiredDay("deadline", req.Deadline)
		if err != nil {
			return p, err
		}
		p.Deadline = &deadline
	}
	if req.Category != nil {
		category, err := requiredText("category", req.Category)
		if err != nil {
			return p, err
		}
		p.Category = &category
	}
	if req.Priority != nil {
		priority, err := parsePriority(*req.Priority)
		if err != nil {
			return p, err
		}
		p.Priority = &priority
	}
	return p, nil
}

func parsePriority(s string) (finance.Priority, error) {
	p := finance.Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", &finance.InvalidInputError{Field: "priority", Value: s, Reason: "must be low, medium or high"}
	}
	return p, nil
}

// =============================================================================
// ACHIEVEMENT HANDLERS
// =============================================================================

// ListAchievements returns unlocked achievements, newest first.
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListAchievements(r.Context(), userFrom(r.Context()))
	if err != nil {
		h.fail(w, r, "Error fetching achievements", err)
		return
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].UnlockedAt.After(list[j].UnlockedAt)
	})
	writeJSON(w, http.StatusOK, toAchievementDTOs(list))
}

func (h *Handler) AchievementStats(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context())
	snap, err := h.loadSnapshot(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "Error fetching user stats", err)
		return
	}

	stats, counts := finance.DeriveStats(snap.expenses, snap.budgets, snap.goals)
	writeJSON(w, http.StatusOK, toUserStatsDTO(userID, stats, counts, len(snap.achievements)))
}

// CheckAchievementsHandler evaluates the user's records and persists any
// newly unlocked achievements.
func (h *Handler) CheckAchievementsHandler(w http.ResponseWriter, r *http.Request) {
	unlocked, err := h.CheckAchievements(r.Context(), userFrom(r.Context()))
	if err != nil {
		h.fail(w, r, "Error checking achievements", err)
		return
	}

	message := "No new achievements unlocked"
	if len(unlocked) > 0 {
		message = fmt.Sprintf("Unlocked %d new achievement(s)!", len(unlocked))
	}
	writeJSON(w, http.StatusOK, CheckAchievementsResponse{
		NewAchievements: toAchievementDTOs(unlocked),
		Message:         message,
	})
}

// CheckAchievements runs the evaluator for one user, persists what it
// unlocks and publishes an event per unlock. If a concurrent check wins the
// race for a type, the evaluation is redone against the fresh records.
func (h *Handler) CheckAchievements(ctx context.Context, userID finance.UserID) ([]finance.Achievement, error) {
	var lastErr error
	for attempt := 0; attempt < maxUnlockAttempts; attempt++ {
		unlocked, err := h.unlockNew(ctx, userID)
		if finance.IsConflict(err) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		h.publishUnlocked(ctx, unlocked)
		return unlocked, nil
	}
	return nil, lastErr
}

func (h *Handler) unlockNew(ctx context.Context, userID finance.UserID) ([]finance.Achievement, error) {
	snap, err := h.loadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, counts := finance.DeriveStats(snap.expenses, snap.budgets, snap.goals)
	drafts := achievements.Evaluate(stats, counts, achievements.UnlockedTypes(snap.achievements))
	if len(drafts) == 0 {
		return []finance.Achievement{}, nil
	}

	at := h.now().UTC()
	unlocked := make([]finance.Achievement, len(drafts))
	for i, d := range drafts {
		unlocked[i] = d.Unlock(userID, h.newID(), at)
	}
	if err := h.Store.AppendAchievements(ctx, unlocked); err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (h *Handler) publishUnlocked(ctx context.Context, unlocked []finance.Achievement) {
	if len(unlocked) == 0 {
		return
	}
	evts := make([]events.AchievementUnlocked, len(unlocked))
	for i, a := range unlocked {
		evts[i] = events.NewAchievementUnlocked(a)
	}
	if err := h.Publisher.PublishAchievements(ctx, evts...); err != nil {
		h.Logger.Warn("publishing achievement events failed",
			"user_id", unlocked[0].UserID, "count", len(evts), "error", err)
	}
}

// =============================================================================
// USER DATA HANDLERS
// =============================================================================

func (h *Handler) FinancialSummary(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r.Context())
	snap, err := h.loadSnapshot(r.Context(), userID)
	if err != nil {
		h.fail(w, r, "Error fetching financial summary", err)
		return
	}

	summary := aggregator.BuildFinancialSummary(userID, snap.expenses, snap.budgets, h.today())
	writeJSON(w, http.StatusOK, toFinancialSummaryDTO(summary))
}

func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	snap, err := h.loadSnapshot(r.Context(), userFrom(r.Context()))
	if err != nil {
		h.fail(w, r, "Error generating insights", err)
		return
	}

	writeJSON(w, http.StatusOK, InsightsResponse{
		Insights:    toInsightDTOs(aggregator.Insights(snap.expenses, snap.budgets)),
		GeneratedAt: h.now().UTC(),
	})
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

func requiredText(field string, s *string) (string, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", finance.Missing(field)
	}
	return strings.TrimSpace(*s), nil
}

func requiredDay(field string, s *string) (finance.Day, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return finance.Day{}, finance.Missing(field)
	}
	d, err := finance.ParseDay(*s)
	if err != nil {
		return finance.Day{}, &finance.InvalidInputError{Field: field, Value: *s, Reason: "expected YYYY-MM-DD"}
	}
	return d, nil
}

func positiveAmount(field string, n Number) (decimal.Decimal, error) {
	d, err := n.Decimal(field)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, &finance.InvalidInputError{Field: field, Value: string(n), Reason: "must be positive"}
	}
	return d, nil
}

func nonNegativeAmount(field string, n Number) (decimal.Decimal, error) {
	d, err := n.Decimal(field)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, &finance.InvalidInputError{Field: field, Value: string(n), Reason: "must not be negative"}
	}
	return d, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message, Code: errorCode(status)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps a domain error onto its status code. Server-side failures are
// logged; client errors are not.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error(message, "path", r.URL.Path, "user_id", userFrom(r.Context()), "error", err)
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case finance.IsClientError(err):
		return http.StatusBadRequest
	case finance.IsNotFound(err):
		return http.StatusNotFound
	case finance.IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_input"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusInternalServerError:
		return "internal"
	}
	return ""
}
