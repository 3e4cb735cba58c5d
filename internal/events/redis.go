package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// envelope is the wire form relayed between server instances
type envelope struct {
	UserID string `json:"user_id"`
	Event  Event  `json:"event"`
}

// RedisRelay publishes events on a Redis channel so that every server
// instance delivers them to its own local subscribers
type RedisRelay struct {
	client  *redis.Client
	channel string
	local   *Hub
}

// NewRedisRelay creates a relay over channel delivering into local
func NewRedisRelay(client *redis.Client, channel string, local *Hub) *RedisRelay {
	return &RedisRelay{client: client, channel: channel, local: local}
}

// Publish sends the event through Redis. When Redis is unreachable the event
// is still delivered to this instance's subscribers.
func (r *RedisRelay) Publish(userID string, e Event) {
	if e.At.IsZero() {
		e.At = r.local.now().UTC()
	}

	data, err := json.Marshal(envelope{UserID: userID, Event: e})
	if err == nil {
		err = r.client.Publish(context.Background(), r.channel, data).Err()
	}
	if err != nil {
		slog.Warn("failed to relay event, delivering locally", "type", e.Type, "error", err)
		r.local.Publish(userID, e)
	}
}

// Run subscribes to the channel and forwards messages to the local hub
// until ctx is cancelled
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}

	slog.Info("event relay started", "channel", r.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.Info("event relay stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				slog.Warn("skipping undecodable event", "error", err)
				continue
			}
			r.local.Publish(env.UserID, env.Event)
		}
	}
}
