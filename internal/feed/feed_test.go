package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewBus(rdb, zerolog.Nop())
}

func TestChannelNames(t *testing.T) {
	assert.Equal(t, "booking:abc", BookingChannel("abc"))
	assert.Equal(t, "booking:abc:messages", MessageChannel("abc"))
}

func TestPublishSubscribe(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := bus.Subscribe(ctx, BookingChannel("b1"))
	defer sub.Close()

	// Give the subscriber goroutine a moment to attach.
	time.Sleep(50 * time.Millisecond)

	payload := map[string]string{"booking_id": "b1", "status": "accepted"}
	require.NoError(t, bus.Publish(ctx, BookingChannel("b1"), payload))

	select {
	case raw := <-sub.Events():
		var got map[string]string
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, payload, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed event")
	}
}

func TestSubscribeIsChannelScoped(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := bus.Subscribe(ctx, BookingChannel("b1"))
	defer sub.Close()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, bus.Publish(ctx, BookingChannel("b2"), map[string]string{"booking_id": "b2"}))
	require.NoError(t, bus.Publish(ctx, MessageChannel("b1"), map[string]string{"booking_id": "b1"}))

	select {
	case raw := <-sub.Events():
		t.Fatalf("unexpected event on booking channel: %s", raw)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCloseEndsEventStream(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := bus.Subscribe(ctx, BookingChannel("b1"))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok, "events channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close")
	}
}
