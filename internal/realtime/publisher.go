// Package realtime fans events out to connected inbox clients.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Channel and event names shared with the UI layer.
const (
	ChannelInbox = "inbox"

	EventMessageNew     = "message:new"
	EventScheduleSent   = "schedule:sent"
	EventScheduleFailed = "schedule:failed"
)

// Publisher delivers a named event with a JSON payload to a fan-out channel.
// Delivery is best effort; the write paths do not fail when fan-out does.
type Publisher interface {
	Publish(ctx context.Context, channel, event string, payload interface{}) error
}

type envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type redisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher creates a Publisher backed by redis PUBLISH.
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) Publisher {
	return &redisPublisher{
		client: client,
		logger: logger,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, channel, event string, payload interface{}) error {
	data, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published",
		zap.String("channel", channel),
		zap.String("event", event))

	return nil
}
