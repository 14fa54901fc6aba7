package events

import (
	"context"
	"sync"
)

// Bus is a non-blocking in-memory publish/subscribe bus. Slow
// subscribers have messages dropped rather than stalling the
// publisher; tenancy lifecycle notifications are advisory.
type Bus[T any] struct {
	mu         sync.RWMutex
	subs       map[*Subscription[T]]struct{}
	bufferSize int
	closed     bool
}

// Subscription receives messages published on a Bus.
type Subscription[T any] struct {
	ch     chan T
	mu     sync.Mutex
	closed bool
}

// C returns the receive channel. It is closed when the subscription or
// the bus closes.
func (s *Subscription[T]) C() <-chan T { return s.ch }

// Close stops delivery. Idempotent.
func (s *Subscription[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
}

func (s *Subscription[T]) send(msg T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}

// NewBus creates a bus whose subscribers buffer up to bufferSize
// messages. A minimum of 1 is enforced to keep publishing non-blocking.
func NewBus[T any](bufferSize int) *Bus[T] {
	return &Bus[T]{
		subs:       make(map[*Subscription[T]]struct{}),
		bufferSize: max(bufferSize, 1),
	}
}

// Subscribe registers a new subscriber. The subscription is removed
// automatically when ctx is cancelled.
func (b *Bus[T]) Subscribe(ctx context.Context) *Subscription[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription[T]{ch: make(chan T, b.bufferSize)}
	if b.closed {
		sub.Close()
		return sub
	}
	b.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			b.unsubscribe(sub)
		}()
	}
	return sub
}

// Publish delivers msg to every subscriber, dropping it for any whose
// buffer is full.
func (b *Bus[T]) Publish(msg T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for sub := range b.subs {
		sub.send(msg)
	}
}

// Close shuts the bus down and closes all subscriptions.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		sub.Close()
		delete(b.subs, sub)
	}
}

func (b *Bus[T]) unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		sub.Close()
	}
}
