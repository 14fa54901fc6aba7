package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/events"
)

func receive[T any](t *testing.T, sub *events.Subscription[T]) T {
	t.Helper()
	select {
	case msg, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		panic("unreachable")
	}
}

func TestBusPublish(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all subscribers", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus[string](4)
		defer bus.Close()

		a := bus.Subscribe(context.Background())
		b := bus.Subscribe(context.Background())

		bus.Publish("hello")

		assert.Equal(t, "hello", receive(t, a))
		assert.Equal(t, "hello", receive(t, b))
	})

	t.Run("drops for full subscriber without blocking", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus[int](1)
		defer bus.Close()

		sub := bus.Subscribe(context.Background())

		done := make(chan struct{})
		go func() {
			bus.Publish(1)
			bus.Publish(2) // dropped, buffer full
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("publish blocked on a full subscriber")
		}

		assert.Equal(t, 1, receive(t, sub))
		select {
		case msg := <-sub.C():
			t.Fatalf("unexpected message %v", msg)
		default:
		}
	})

	t.Run("closed subscription stops delivery", func(t *testing.T) {
		t.Parallel()

		bus := events.NewBus[int](1)
		defer bus.Close()

		sub := bus.Subscribe(context.Background())
		sub.Close()
		sub.Close() // idempotent

		bus.Publish(1)

		_, ok := <-sub.C()
		assert.False(t, ok)
	})
}

func TestBusSubscribeContext(t *testing.T) {
	t.Parallel()

	bus := events.NewBus[int](1)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := bus.Subscribe(ctx)
	cancel()

	// The subscription channel closes once the cancellation is observed.
	select {
	case _, ok := <-sub.C():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed on context cancellation")
	}
}

func TestBusClose(t *testing.T) {
	t.Parallel()

	bus := events.NewBus[int](1)
	sub := bus.Subscribe(context.Background())

	bus.Close()
	bus.Close() // idempotent

	_, ok := <-sub.C()
	assert.False(t, ok)

	// Publishing and subscribing after close are harmless no-ops.
	bus.Publish(1)
	late := bus.Subscribe(context.Background())
	_, ok = <-late.C()
	assert.False(t, ok)
}
