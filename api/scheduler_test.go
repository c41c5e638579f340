package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashwat106/the-financial-blueprint/finance"
)

func seedUser(t *testing.T, s finance.Store, id finance.UserID, amount string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.EnsureUser(ctx, finance.User{ID: id}))
	require.NoError(t, s.AppendExpense(ctx, finance.Expense{
		ID: string(id) + "-e1", UserID: id, Amount: finance.MustParseMoney(amount), Category: "Food",
		Date: finance.MustParseDay("2025-03-01"),
	}))
}

func TestScheduler_RunNowUnlocksForEveryUser(t *testing.T) {
	a := newTestAPI(t)
	seedUser(t, a.store, "alice", "10")
	seedUser(t, a.store, "bob", "1500")
	require.NoError(t, a.store.EnsureUser(context.Background(), finance.User{ID: "idle"}))

	s := NewAchievementScheduler(a.store, a.h, quietLogger())

	// WHEN: Sweeping
	res := s.RunNow(context.Background())

	// THEN: alice gets first_expense + saver_20, bob also big_spender
	assert.Equal(t, SweepResult{Users: 3, Unlocked: 5}, res)
	assert.False(t, s.LastRun().IsZero())

	bob, err := a.store.ListAchievements(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, bob, 3)
	assert.Len(t, a.pub.published(), 5)

	// A second sweep has nothing left to do
	assert.Equal(t, SweepResult{Users: 3}, s.RunNow(context.Background()))
}

type failingChecker struct{ fail finance.UserID }

func (c failingChecker) CheckAchievements(_ context.Context, userID finance.UserID) ([]finance.Achievement, error) {
	if userID == c.fail {
		return nil, errors.New("store unavailable")
	}
	return []finance.Achievement{{Type: "first_expense"}}, nil
}

func TestScheduler_FailureDoesNotStopSweep(t *testing.T) {
	a := newTestAPI(t)
	for _, id := range []finance.UserID{"a", "b", "c"} {
		require.NoError(t, a.store.EnsureUser(context.Background(), finance.User{ID: id}))
	}
	s := NewAchievementScheduler(a.store, failingChecker{fail: "b"}, quietLogger())

	res := s.RunNow(context.Background())

	assert.Equal(t, SweepResult{Users: 3, Unlocked: 2, Failed: 1}, res)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	a := newTestAPI(t)
	seedUser(t, a.store, "alice", "10")
	s := NewAchievementScheduler(a.store, a.h, quietLogger())
	s.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// The initial sweep runs before the first tick
	require.Eventually(t, func() bool { return !s.LastRun().IsZero() }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	unlocked, err := a.store.ListAchievements(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, unlocked)
}

func TestScheduler_Disabled(t *testing.T) {
	a := newTestAPI(t)
	seedUser(t, a.store, "alice", "10")
	s := NewAchievementScheduler(a.store, a.h, quietLogger())
	s.Enabled = false

	assert.NoError(t, s.Run(context.Background()))
	assert.True(t, s.LastRun().IsZero())
}
