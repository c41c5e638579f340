/*
Package sqlite provides a SQLite-backed implementation of finance.Store.

PURPOSE:
  Durable storage for users, expenses, budgets, savings goals and
  achievements. Only source records are stored: spent, remaining, progress
  and every other derived figure is recomputed by the engine on read.

APPEND-ONLY ENFORCEMENT:
  Achievements are never updated or deleted (outside PurgeUser). The unique
  index idx_achievements_user_type backs the one-unlock-per-type rule, so a
  racing second unlock fails even if two evaluations overlap.

KEY TABLES:
  users, expenses, budgets, savings_goals, achievements
  (see migrations/0001_init.up.sql)

ENCODING:
  Amounts:    decimal strings (TEXT), never floats
  Days:       "YYYY-MM-DD", "" for no date
  Timestamps: RFC 3339 with nanoseconds, UTC

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. AddFunds and AppendAchievements also
  run inside a SQL transaction so each is all-or-nothing.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block the
  single writer.

MIGRATION:
  Versioned SQL files are embedded in the binary and applied with
  golang-migrate on New().

USAGE:
  store, err := sqlite.New("./data/finance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - finance/store.go: Interface definitions
  - finance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/shashwat106/the-financial-blueprint/finance"
)

// Store implements finance.Store using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

var _ finance.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

// =============================================================================
// EXPENSES
// =============================================================================

const expenseColumns = `id, user_id, amount, category, description, expense_date, created_at`

func (s *Store) ListExpenses(ctx context.Context, userID finance.UserID) ([]finance.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []finance.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Store) AppendExpense(ctx context.Context, e finance.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Amount.String(), e.Category, e.Description,
		e.Date.String(), formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to append expense: %w", err)
	}
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, userID finance.UserID, id string, patch finance.ExpensePatch) (finance.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated finance.Expense
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+expenseColumns+` FROM expenses WHERE user_id = ? AND id = ?`, userID, id)
		e, err := scanExpense(row)
		if errors.Is(err, sql.ErrNoRows) {
			return &finance.NotFoundError{Kind: "expense", ID: id}
		}
		if err != nil {
			return err
		}

		updated = patch.Apply(e)
		_, err = tx.ExecContext(ctx, `
			UPDATE expenses SET amount = ?, category = ?, description = ?, expense_date = ?
			WHERE user_id = ? AND id = ?`,
			updated.Amount.String(), updated.Category, updated.Description, updated.Date.String(),
			userID, id,
		)
		return err
	})
	if err != nil {
		return finance.Expense{}, err
	}
	return updated, nil
}

func (s *Store) RemoveExpense(ctx context.Context, userID finance.UserID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeOwned(ctx, "expenses", "expense", userID, id)
}

func scanExpense(row scanner) (finance.Expense, error) {
	var (
		e                       finance.Expense
		amount, date, createdAt string
	)
	if err := row.Scan(&e.ID, &e.UserID, &amount, &e.Category, &e.Description, &date, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan expense: %w", err)
	}
	cols := columns{kind: "expense"}
	e.Amount = cols.decimal("amount", amount)
	e.Date = cols.day("date", date)
	e.CreatedAt = cols.time("created_at", createdAt)
	return e, cols.err
}

// =============================================================================
// BUDGETS
// =============================================================================

const budgetColumns = `id, user_id, category, limit_amount, period, created_at`

func (s *Store) ListBudgets(ctx context.Context, userID finance.UserID) ([]finance.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []finance.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (s *Store) AppendBudget(ctx context.Context, b finance.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (`+budgetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Category, b.Limit.String(), string(b.Period), formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to append budget: %w", err)
	}
	return nil
}

func (s *Store) UpdateBudget(ctx context.Context, userID finance.UserID, id string, patch finance.BudgetPatch) (finance.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated finance.Budget
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? AND id = ?`, userID, id)
		b, err := scanBudget(row)
		if errors.Is(err, sql.ErrNoRows) {
			return &finance.NotFoundError{Kind: "budget", ID: id}
		}
		if err != nil {
			return err
		}

		updated = patch.Apply(b)
		_, err = tx.ExecContext(ctx, `
			UPDATE budgets SET category = ?, limit_amount = ?, period = ?
			WHERE user_id = ? AND id = ?`,
			updated.Category, updated.Limit.String(), string(updated.Period), userID, id,
		)
		return err
	})
	if err != nil {
		return finance.Budget{}, err
	}
	return updated, nil
}

func (s *Store) RemoveBudget(ctx context.Context, userID finance.UserID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeOwned(ctx, "budgets", "budget", userID, id)
}

func scanBudget(row scanner) (finance.Budget, error) {
	var (
		b                        finance.Budget
		limit, period, createdAt string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &limit, &period, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("failed to scan budget: %w", err)
	}
	cols := columns{kind: "budget"}
	b.Limit = cols.decimal("limit_amount", limit)
	b.Period = finance.BudgetPeriod(period)
	b.CreatedAt = cols.time("created_at", createdAt)
	return b, cols.err
}

// =============================================================================
// SAVINGS GOALS
// =============================================================================

const goalColumns = `id, user_id, name, description, target_amount, current_amount,
	deadline, category, priority, created_at, updated_at`

func (s *Store) ListGoals(ctx context.Context, userID finance.UserID) ([]finance.SavingsGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM savings_goals WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings goals: %w", err)
	}
	defer rows.Close()

	var goals []finance.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *Store) AppendGoal(ctx context.Context, g finance.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now()
	}
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = g.CreatedAt
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO savings_goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.Description, g.TargetAmount.String(), g.CurrentAmount.String(),
		g.Deadline.String(), g.Category, string(g.Priority),
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to append savings goal: %w", err)
	}
	return nil
}

func (s *Store) UpdateGoal(ctx context.Context, userID finance.UserID, id string, patch finance.GoalPatch) (finance.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modifyGoal(ctx, userID, id, func(g finance.SavingsGoal) (finance.SavingsGoal, error) {
		return patch.Apply(g), nil
	})
}

// AddFunds reads, adds and writes back inside one transaction.
func (s *Store) AddFunds(ctx context.Context, userID finance.UserID, id string, amount decimal.Decimal) (finance.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.modifyGoal(ctx, userID, id, func(g finance.SavingsGoal) (finance.SavingsGoal, error) {
		return g.WithFunds(amount)
	})
}

func (s *Store) modifyGoal(ctx context.Context, userID finance.UserID, id string, fn func(finance.SavingsGoal) (finance.SavingsGoal, error)) (finance.SavingsGoal, error) {
	var updated finance.SavingsGoal
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+goalColumns+` FROM savings_goals WHERE user_id = ? AND id = ?`, userID, id)
		g, err := scanGoal(row)
		if errors.Is(err, sql.ErrNoRows) {
			return &finance.NotFoundError{Kind: "savings goal", ID: id}
		}
		if err != nil {
			return err
		}

		if updated, err = fn(g); err != nil {
			return err
		}
		updated.UpdatedAt = s.now()

		_, err = tx.ExecContext(ctx, `
			UPDATE savings_goals
			SET name = ?, description = ?, target_amount = ?, current_amount = ?,
			    deadline = ?, category = ?, priority = ?, updated_at = ?
			WHERE user_id = ? AND id = ?`,
			updated.Name, updated.Description, updated.TargetAmount.String(), updated.CurrentAmount.String(),
			updated.Deadline.String(), updated.Category, string(updated.Priority), formatTime(updated.UpdatedAt),
			userID, id,
		)
		return err
	})
	if err != nil {
		return finance.SavingsGoal{}, err
	}
	return updated, nil
}

func (s *Store) RemoveGoal(ctx context.Context, userID finance.UserID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeOwned(ctx, "savings_goals", "savings goal", userID, id)
}

func scanGoal(row scanner) (finance.SavingsGoal, error) {
	var (
		g                               finance.SavingsGoal
		target, current, deadline, prio string
		createdAt, updatedAt            string
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &target, &current,
		&deadline, &g.Category, &prio, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return g, err
		}
		return g, fmt.Errorf("failed to scan savings goal: %w", err)
	}
	cols := columns{kind: "savings goal"}
	g.TargetAmount = cols.decimal("target_amount", target)
	g.CurrentAmount = cols.decimal("current_amount", current)
	g.Deadline = cols.day("deadline", deadline)
	g.Priority = finance.Priority(prio)
	g.CreatedAt = cols.time("created_at", createdAt)
	g.UpdatedAt = cols.time("updated_at", updatedAt)
	return g, cols.err
}

// =============================================================================
// ACHIEVEMENTS (append-only)
// =============================================================================

func (s *Store) ListAchievements(ctx context.Context, userID finance.UserID) ([]finance.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, achievement_type, title, description, icon, rarity, unlocked_at
		FROM achievements WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var out []finance.Achievement
	for rows.Next() {
		var (
			a                  finance.Achievement
			rarity, unlockedAt string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Title, &a.Description, &a.Icon, &rarity, &unlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		a.Rarity = finance.Rarity(rarity)
		cols := columns{kind: "achievement"}
		a.UnlockedAt = cols.time("unlocked_at", unlockedAt)
		if cols.err != nil {
			return nil, cols.err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AppendAchievements inserts the batch atomically.
func (s *Store) AppendAchievements(ctx context.Context, achievements []finance.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range achievements {
			if err := appendAchievement(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
}

func appendAchievement(ctx context.Context, db execer, a finance.Achievement) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO achievements
		(id, user_id, achievement_type, title, description, icon, rarity, unlocked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Type, a.Title, a.Description, a.Icon, string(a.Rarity), formatTime(a.UnlockedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return &finance.DuplicateAchievementError{UserID: a.UserID, Type: a.Type}
		}
		return fmt.Errorf("failed to append achievement: %w", err)
	}
	return nil
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) EnsureUser(ctx context.Context, u finance.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		u.ID, u.Email, u.Name, formatTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure user: %w", err)
	}
	return nil
}

// GetUser returns nil, nil when the user is unknown.
func (s *Store) GetUser(ctx context.Context, id finance.UserID) (*finance.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		u         finance.User
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, created_at FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Email, &u.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cols := columns{kind: "user"}
	u.CreatedAt = cols.time("created_at", createdAt)
	if cols.err != nil {
		return nil, cols.err
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]finance.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, email, name, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []finance.User
	for rows.Next() {
		var (
			u         finance.User
			createdAt string
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &createdAt); err != nil {
			return nil, err
		}
		cols := columns{kind: "user"}
		u.CreatedAt = cols.time("created_at", createdAt)
		if cols.err != nil {
			return nil, cols.err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PurgeUser deletes every record owned by the user but keeps the user row.
func (s *Store) PurgeUser(ctx context.Context, userID finance.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"expenses", "budgets", "savings_goals", "achievements"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
				return fmt.Errorf("failed to purge %s: %w", table, err)
			}
		}
		return nil
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// inTx runs fn inside a transaction, committing only if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// removeOwned deletes one row, reporting NotFound when the user does not own
// a row with that id. table is always a constant from this file.
func (s *Store) removeOwned(ctx context.Context, table, kind string, userID finance.UserID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &finance.NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// columns decodes TEXT columns of one row, keeping the first failure so a
// corrupt row is reported instead of read as zero.
type columns struct {
	kind string
	err  error
}

func (c *columns) fail(column, value string, err error) {
	if c.err == nil {
		c.err = fmt.Errorf("corrupt %s row: column %s %q: %w", c.kind, column, value, err)
	}
}

func (c *columns) time(column, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		c.fail(column, s, err)
	}
	return t
}

func (c *columns) day(column, s string) finance.Day {
	if s == "" {
		return finance.Day{}
	}
	d, err := finance.ParseDay(s)
	if err != nil {
		c.fail(column, s, err)
	}
	return d
}

func (c *columns) decimal(column, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		c.fail(column, s, err)
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
