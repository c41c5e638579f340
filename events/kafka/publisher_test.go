package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashwat106/the-financial-blueprint/events"
	"github.com/shashwat106/the-financial-blueprint/finance"
)

func TestAchievementMessage(t *testing.T) {
	// GIVEN: An unlocked achievement
	at := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	e := events.NewAchievementUnlocked(finance.Achievement{
		ID: "a-1", UserID: "u-7", Type: "budget_master", Title: "💰 Budget Master",
		Rarity: finance.RarityCommon, UnlockedAt: at,
	})

	// WHEN: Building the Kafka message
	msg, err := achievementMessage(e)
	require.NoError(t, err)

	// THEN: Keyed by user, typed header, JSON body
	assert.Equal(t, []byte("u-7"), msg.Key)
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "type", msg.Headers[0].Key)
	assert.Equal(t, events.TypeAchievementUnlocked, string(msg.Headers[0].Value))

	var decoded events.AchievementUnlocked
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "budget_master", decoded.AchievementType)
	assert.Equal(t, finance.UserID("u-7"), decoded.UserID)
	assert.True(t, decoded.UnlockedAt.Equal(at))
}

func TestPublisher_EmptyBatchIsNoop(t *testing.T) {
	p := NewPublisher([]string{"127.0.0.1:1"}, "finance.achievements")
	defer p.Close()

	assert.NoError(t, p.PublishAchievements(context.Background()))
}
