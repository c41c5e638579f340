// Package store provides finance.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shashwat106/the-financial-blueprint/finance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps records per user in insertion order. A single RWMutex
// serializes every write, which is what makes AddFunds and achievement
// appends safe read-modify-writes.
type Memory struct {
	mu           sync.RWMutex
	users        map[finance.UserID]finance.User
	expenses     map[finance.UserID][]finance.Expense
	budgets      map[finance.UserID][]finance.Budget
	goals        map[finance.UserID][]finance.SavingsGoal
	achievements map[finance.UserID][]finance.Achievement

	now func() time.Time
}

var _ finance.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:        make(map[finance.UserID]finance.User),
		expenses:     make(map[finance.UserID][]finance.Expense),
		budgets:      make(map[finance.UserID][]finance.Budget),
		goals:        make(map[finance.UserID][]finance.SavingsGoal),
		achievements: make(map[finance.UserID][]finance.Achievement),
		now:          time.Now,
	}
}

// =============================================================================
// EXPENSES
// =============================================================================

func (m *Memory) ListExpenses(_ context.Context, userID finance.UserID) ([]finance.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]finance.Expense(nil), m.expenses[userID]...), nil
}

func (m *Memory) AppendExpense(_ context.Context, e finance.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[e.UserID] = append(m.expenses[e.UserID], e)
	return nil
}

func (m *Memory) UpdateExpense(_ context.Context, userID finance.UserID, id string, patch finance.ExpensePatch) (finance.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.expenses[userID] {
		if e.ID == id {
			m.expenses[userID][i] = patch.Apply(e)
			return m.expenses[userID][i], nil
		}
	}
	return finance.Expense{}, &finance.NotFoundError{Kind: "expense", ID: id}
}

func (m *Memory) RemoveExpense(_ context.Context, userID finance.UserID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := removeByID(m.expenses[userID], id, func(e finance.Expense) string { return e.ID })
	if !ok {
		return &finance.NotFoundError{Kind: "expense", ID: id}
	}
	m.expenses[userID] = list
	return nil
}

// =============================================================================
// BUDGETS
// =============================================================================

func (m *Memory) ListBudgets(_ context.Context, userID finance.UserID) ([]finance.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]finance.Budget(nil), m.budgets[userID]...), nil
}

func (m *Memory) AppendBudget(_ context.Context, b finance.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets[b.UserID] = append(m.budgets[b.UserID], b)
	return nil
}

func (m *Memory) UpdateBudget(_ context.Context, userID finance.UserID, id string, patch finance.BudgetPatch) (finance.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.budgets[userID] {
		if b.ID == id {
			m.budgets[userID][i] = patch.Apply(b)
			return m.budgets[userID][i], nil
		}
	}
	return finance.Budget{}, &finance.NotFoundError{Kind: "budget", ID: id}
}

func (m *Memory) RemoveBudget(_ context.Context, userID finance.UserID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := removeByID(m.budgets[userID], id, func(b finance.Budget) string { return b.ID })
	if !ok {
		return &finance.NotFoundError{Kind: "budget", ID: id}
	}
	m.budgets[userID] = list
	return nil
}

// =============================================================================
// SAVINGS GOALS
// =============================================================================

func (m *Memory) ListGoals(_ context.Context, userID finance.UserID) ([]finance.SavingsGoal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]finance.SavingsGoal(nil), m.goals[userID]...), nil
}

func (m *Memory) AppendGoal(_ context.Context, g finance.SavingsGoal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[g.UserID] = append(m.goals[g.UserID], g)
	return nil
}

func (m *Memory) UpdateGoal(_ context.Context, userID finance.UserID, id string, patch finance.GoalPatch) (finance.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, g := range m.goals[userID] {
		if g.ID == id {
			g = patch.Apply(g)
			g.UpdatedAt = m.now()
			m.goals[userID][i] = g
			return g, nil
		}
	}
	return finance.SavingsGoal{}, &finance.NotFoundError{Kind: "savings goal", ID: id}
}

func (m *Memory) RemoveGoal(_ context.Context, userID finance.UserID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := removeByID(m.goals[userID], id, func(g finance.SavingsGoal) string { return g.ID })
	if !ok {
		return &finance.NotFoundError{Kind: "savings goal", ID: id}
	}
	m.goals[userID] = list
	return nil
}

func (m *Memory) AddFunds(_ context.Context, userID finance.UserID, id string, amount decimal.Decimal) (finance.SavingsGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, g := range m.goals[userID] {
		if g.ID != id {
			continue
		}
		updated, err := g.WithFunds(amount)
		if err != nil {
			return finance.SavingsGoal{}, err
		}
		updated.UpdatedAt = m.now()
		m.goals[userID][i] = updated
		return updated, nil
	}
	return finance.SavingsGoal{}, &finance.NotFoundError{Kind: "savings goal", ID: id}
}

// =============================================================================
// ACHIEVEMENTS (append-only)
// =============================================================================

func (m *Memory) ListAchievements(_ context.Context, userID finance.UserID) ([]finance.Achievement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]finance.Achievement(nil), m.achievements[userID]...), nil
}

func (m *Memory) AppendAchievements(_ context.Context, achievements []finance.Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check the whole batch first (atomic check)
	seen := make(map[finance.UserID]map[string]bool)
	for _, a := range achievements {
		if seen[a.UserID] == nil {
			seen[a.UserID] = make(map[string]bool)
			for _, existing := range m.achievements[a.UserID] {
				seen[a.UserID][existing.Type] = true
			}
		}
		if seen[a.UserID][a.Type] {
			return &finance.DuplicateAchievementError{UserID: a.UserID, Type: a.Type}
		}
		seen[a.UserID][a.Type] = true
	}

	for _, a := range achievements {
		m.achievements[a.UserID] = append(m.achievements[a.UserID], a)
	}
	return nil
}

// =============================================================================
// USERS
// =============================================================================

func (m *Memory) EnsureUser(_ context.Context, u finance.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		if u.CreatedAt.IsZero() {
			u.CreatedAt = m.now()
		}
		m.users[u.ID] = u
	}
	return nil
}

func (m *Memory) GetUser(_ context.Context, id finance.UserID) (*finance.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]finance.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]finance.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *Memory) PurgeUser(_ context.Context, userID finance.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expenses, userID)
	delete(m.budgets, userID)
	delete(m.goals, userID)
	delete(m.achievements, userID)
	return nil
}

func removeByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	for i, item := range list {
		if idOf(item) == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}
