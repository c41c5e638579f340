/*
store.go - Persistence interfaces for user records

PURPOSE:
  Defines the boundary between the HTTP layer and whatever holds the
  records. The engine packages never see these interfaces; handlers load a
  consistent snapshot, hand it to the engine, and persist what comes back.

KEY INTERFACES:
  ExpenseStore, BudgetStore, GoalStore: list/append/update/remove per user
  AchievementStore: list/append only (append-only, unique type per user)
  UserStore:        users known to the system (for background evaluation)
  Store:            all of the above

CONCURRENCY CONTRACT:
  Read-modify-write operations on a single record (AddFunds, achievement
  unlocks) are serialized by the store. The engine performs no locking.

IMPLEMENTATIONS:
  - finance/store/memory.go: in-memory, for tests and demos
  - store/sqlite/sqlite.go:  SQLite
*/
package finance

import (
	"context"

	"github.com/shopspring/decimal"
)

type ExpenseStore interface {
	ListExpenses(ctx context.Context, userID UserID) ([]Expense, error)
	AppendExpense(ctx context.Context, e Expense) error
	UpdateExpense(ctx context.Context, userID UserID, id string, patch ExpensePatch) (Expense, error)
	RemoveExpense(ctx context.Context, userID UserID, id string) error
}

type BudgetStore interface {
	ListBudgets(ctx context.Context, userID UserID) ([]Budget, error)
	AppendBudget(ctx context.Context, b Budget) error
	UpdateBudget(ctx context.Context, userID UserID, id string, patch BudgetPatch) (Budget, error)
	RemoveBudget(ctx context.Context, userID UserID, id string) error
}

type GoalStore interface {
	ListGoals(ctx context.Context, userID UserID) ([]SavingsGoal, error)
	AppendGoal(ctx context.Context, g SavingsGoal) error
	UpdateGoal(ctx context.Context, userID UserID, id string, patch GoalPatch) (SavingsGoal, error)
	RemoveGoal(ctx context.Context, userID UserID, id string) error

	// AddFunds atomically adds a positive amount to the goal's balance and
	// returns the updated goal.
	AddFunds(ctx context.Context, userID UserID, id string, amount decimal.Decimal) (SavingsGoal, error)
}

// AchievementStore is APPEND-ONLY. No Update, no Remove.
type AchievementStore interface {
	ListAchievements(ctx context.Context, userID UserID) ([]Achievement, error)

	// AppendAchievements persists all or none. A type the user already has
	// fails the whole batch with a *DuplicateAchievementError.
	AppendAchievements(ctx context.Context, achievements []Achievement) error
}

type UserStore interface {
	// EnsureUser records the user if it is not known yet.
	EnsureUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id UserID) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// Store is the full record store.
type Store interface {
	ExpenseStore
	BudgetStore
	GoalStore
	AchievementStore
	UserStore

	// PurgeUser removes every record owned by the user, achievements
	// included. Used only to reload demo data sets.
	PurgeUser(ctx context.Context, userID UserID) error
}
