// Package feed implements the change notification feed over Redis
// pub/sub. Each booking has its own channels: one for row updates and
// one for message inserts. Delivery is at-least-once, best-effort; a
// client that misses an event reconciles by re-reading the booking.
package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// BookingChannel is the pub/sub channel carrying booking row updates.
func BookingChannel(bookingID string) string {
	return "booking:" + bookingID
}

// MessageChannel is the pub/sub channel carrying chat message inserts.
func MessageChannel(bookingID string) string {
	return "booking:" + bookingID + ":messages"
}

// Bus is a thin wrapper over Redis pub/sub.
type Bus struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

func NewBus(rdb *redis.Client, logger zerolog.Logger) *Bus {
	return &Bus{
		rdb:    rdb,
		logger: logger.With().Str("component", "feed").Logger(),
	}
}

// Publish marshals payload to JSON and publishes it on the channel.
func (b *Bus) Publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal feed payload failed: %w", err)
	}

	if err := b.rdb.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s failed: %w", channel, err)
	}
	return nil
}

// Subscription is a live pub/sub subscription on a single channel.
// Close must be called when the consumer goes away; it tears down the
// Redis subscription and the Events channel is closed shortly after.
type Subscription struct {
	pubsub *redis.PubSub
	events chan []byte
}

// Events yields the raw JSON payloads published on the channel.
func (s *Subscription) Events() <-chan []byte {
	return s.events
}

// Close unsubscribes and releases the underlying connection.
func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

// Subscribe opens a subscription on the channel. The returned
// Subscription is valid until Close is called or the context ends.
func (b *Bus) Subscribe(ctx context.Context, channel string) *Subscription {
	pubsub := b.rdb.Subscribe(ctx, channel)

	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan []byte, 16),
	}

	go func() {
		defer close(sub.events)
		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case sub.events <- []byte(msg.Payload):
				default:
					// Slow consumer: drop rather than block the feed.
					// The client reconciles on next read.
					b.logger.Warn().Str("channel", channel).Msg("dropping feed event for slow consumer")
				}
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			}
		}
	}()

	return sub
}
