package audit

import (
	"context"
	"log/slog"
	"sync"
)

// MemoryStorage keeps events in memory. Intended for tests and small
// tools; production deployments persist to their own store.
type MemoryStorage struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryStorage creates an in-memory event store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Store(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything stored so far.
func (s *MemoryStorage) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// SlogStorage writes audit events as structured log records. Useful
// when the log pipeline is the audit sink of record.
type SlogStorage struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogStorage creates a storage writing to logger at WARN level.
func NewSlogStorage(logger *slog.Logger) *SlogStorage {
	return &SlogStorage{logger: logger, level: slog.LevelWarn}
}

func (s *SlogStorage) Store(ctx context.Context, event Event) error {
	s.logger.Log(ctx, s.level, "audit: "+event.Action,
		slog.String("event_id", event.ID),
		slog.String("field", event.Field),
		slog.String("provided_value", event.ProvidedValue),
		slog.Int64("actual_tenant_id", event.ActualTenantID),
		slog.String("caller_id", event.CallerID),
		slog.String("path", event.Path),
		slog.String("ip", event.IP),
	)
	return nil
}
