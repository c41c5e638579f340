/*
scheduler.go - Background achievement evaluation

PURPOSE:
  Periodically re-runs the achievement evaluator for every known user and
  persists newly unlocked achievements. Users who never call
  /api/achievements/check still earn their badges.

DESIGN:
  - Runs until its context is cancelled, with a configurable interval
  - Evaluates immediately on start, then on every tick
  - Uses the same unlock path as the HTTP handler, so the no-double-unlock
    rule holds however the two interleave
  - A failure for one user is logged and the sweep moves on

CONFIGURATION:
  - Interval: How often to sweep (default: 5 minutes, see config)
  - Enabled:  Whether the scheduler runs at all

USAGE:
  scheduler := NewAchievementScheduler(store, handler, logger)
  g.Go(func() error { return scheduler.Run(ctx) })

SEE ALSO:
  - handlers.go: CheckAchievements
  - cmd/server/main.go: lifecycle under errgroup
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shashwat106/the-financial-blueprint/finance"
)

// AchievementChecker evaluates and unlocks achievements for one user.
type AchievementChecker interface {
	CheckAchievements(ctx context.Context, userID finance.UserID) ([]finance.Achievement, error)
}

// SweepResult counts the outcome of one pass over all users.
type SweepResult struct {
	Users    int
	Unlocked int
	Failed   int
}

// AchievementScheduler re-evaluates achievements in the background.
type AchievementScheduler struct {
	Users    finance.UserStore
	Checker  AchievementChecker
	Interval time.Duration
	Enabled  bool
	Logger   *slog.Logger

	mu      sync.Mutex
	lastRun time.Time
}

// NewAchievementScheduler creates a scheduler with a five minute interval.
func NewAchievementScheduler(users finance.UserStore, checker AchievementChecker, logger *slog.Logger) *AchievementScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AchievementScheduler{
		Users:    users,
		Checker:  checker,
		Interval: 5 * time.Minute,
		Enabled:  true,
		Logger:   logger.With("component", "scheduler"),
	}
}

// Run sweeps once, then on every tick until ctx is cancelled. It returns
// nil on cancellation.
func (s *AchievementScheduler) Run(ctx context.Context) error {
	if !s.Enabled {
		s.Logger.Info("disabled, not starting")
		return nil
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Logger.Info("started", "interval", s.Interval)

	// Run immediately on start
	s.RunNow(ctx)

	for {
		select {
		case <-ticker.C:
			s.RunNow(ctx)
		case <-ctx.Done():
			s.Logger.Info("stopped")
			return nil
		}
	}
}

// RunNow performs one sweep over all users.
func (s *AchievementScheduler) RunNow(ctx context.Context) SweepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res SweepResult
	users, err := s.Users.ListUsers(ctx)
	if err != nil {
		s.Logger.Error("listing users failed", "error", err)
		return res
	}

	for _, u := range users {
		if ctx.Err() != nil {
			break
		}
		res.Users++

		unlocked, err := s.Checker.CheckAchievements(ctx, u.ID)
		if err != nil {
			res.Failed++
			s.Logger.Error("checking achievements failed", "user_id", u.ID, "error", err)
			continue
		}
		res.Unlocked += len(unlocked)
		for _, a := range unlocked {
			s.Logger.Info("achievement unlocked", "user_id", u.ID, "type", a.Type, "rarity", a.Rarity)
		}
	}

	s.lastRun = time.Now()
	if res.Unlocked > 0 || res.Failed > 0 {
		s.Logger.Info("sweep completed", "users", res.Users, "unlocked", res.Unlocked, "failed", res.Failed)
	}
	return res
}

// LastRun returns when the most recent sweep finished.
func (s *AchievementScheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}
