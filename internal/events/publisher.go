package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ReviewEventsChannel carries one message per committed review.
const ReviewEventsChannel = "review_events"

type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

// Publish JSON-encodes payload and PUBLISHes it. A publisher without a client drops
// the message.
func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload any) error {
	if p == nil || p.rdb == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", channel, err)
	}
	if err := p.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", channel, err)
	}
	return nil
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
