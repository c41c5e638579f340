// Package kafka publishes events to a Kafka topic with segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shashwat106/the-financial-blueprint/events"
)

// Publisher writes one message per event. Messages are keyed by user id so
// a user's unlocks stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Publisher) PublishAchievements(ctx context.Context, unlocked ...events.AchievementUnlocked) error {
	if len(unlocked) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(unlocked))
	for _, e := range unlocked {
		msg, err := achievementMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publishing %d achievement events: %w", len(msgs), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func achievementMessage(e events.AchievementUnlocked) (kafka.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encoding achievement event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(e.UserID),
		Value: data,
		Time:  e.UnlockedAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(events.TypeAchievementUnlocked)},
		},
	}, nil
}
