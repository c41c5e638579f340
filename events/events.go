// Package events defines the notifications emitted when records change in a
// way other systems care about. Today that is one event: an achievement was
// unlocked.
package events

import (
	"context"
	"time"

	"github.com/shashwat106/the-financial-blueprint/finance"
)

// TypeAchievementUnlocked is carried in the event's type header.
const TypeAchievementUnlocked = "achievement_unlocked"

// AchievementUnlocked is published once per persisted achievement.
type AchievementUnlocked struct {
	AchievementID   string         `json:"achievement_id"`
	UserID          finance.UserID `json:"user_id"`
	AchievementType string         `json:"achievement_type"`
	Title           string         `json:"title"`
	Rarity          finance.Rarity `json:"rarity"`
	UnlockedAt      time.Time      `json:"unlocked_at"`
}

// NewAchievementUnlocked builds the event for a stored achievement.
func NewAchievementUnlocked(a finance.Achievement) AchievementUnlocked {
	return AchievementUnlocked{
		AchievementID:   a.ID,
		UserID:          a.UserID,
		AchievementType: a.Type,
		Title:           a.Title,
		Rarity:          a.Rarity,
		UnlockedAt:      a.UnlockedAt,
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishAchievements(ctx context.Context, unlocked ...AchievementUnlocked) error
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishAchievements(context.Context, ...AchievementUnlocked) error { return nil }

func (Nop) Close() error { return nil }
