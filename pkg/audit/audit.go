package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrEventValidation is returned when a recorded event misses required fields.
var ErrEventValidation = errors.New("audit event validation failed")

// GuestCaller is recorded when no caller identity can be extracted.
const GuestCaller = "guest"

// Event is one security-relevant audit record. The tamper guard emits
// one per stripped field; other packages may record their own actions.
type Event struct {
	ID             string         `json:"id"`
	Action         string         `json:"action"`
	Field          string         `json:"field,omitempty"`
	ProvidedValue  string         `json:"provided_value,omitempty"`
	ActualTenantID int64          `json:"actual_tenant_id,omitempty"`
	CallerID       string         `json:"caller_id"`
	Path           string         `json:"path,omitempty"`
	IP             string         `json:"ip,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Validate checks required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// Extractor pulls a string value out of a request context.
// It returns (value, found).
type Extractor func(ctx context.Context) (string, bool)

// Logger records audit events, filling caller identity, path, and IP
// from the context via configured extractors.
type Logger struct {
	storage  Storage
	callerID Extractor
	path     Extractor
	ip       Extractor
}

// Option configures a Logger.
type Option func(*Logger)

// WithCallerIDExtractor sets how the caller identity is pulled from
// context. Missing identity records GuestCaller.
func WithCallerIDExtractor(fn Extractor) Option {
	return func(l *Logger) { l.callerID = fn }
}

// WithPathExtractor sets how the request path is pulled from context.
func WithPathExtractor(fn Extractor) Option {
	return func(l *Logger) { l.path = fn }
}

// WithIPExtractor sets how the client IP is pulled from context.
func WithIPExtractor(fn Extractor) Option {
	return func(l *Logger) { l.ip = fn }
}

// NewLogger creates an audit logger writing to storage.
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	l := &Logger{storage: storage}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// EventOption mutates an event before it is stored.
type EventOption func(*Event)

// WithField records the offending field and the value the caller supplied.
func WithField(field, providedValue string) EventOption {
	return func(e *Event) {
		e.Field = field
		e.ProvidedValue = providedValue
	}
}

// WithActualTenantID records the server-resolved tenant id.
func WithActualTenantID(id int64) EventOption {
	return func(e *Event) { e.ActualTenantID = id }
}

// WithPath overrides the request path on the event.
func WithPath(path string) EventOption {
	return func(e *Event) { e.Path = path }
}

// WithMetadata attaches arbitrary metadata.
func WithMetadata(md map[string]any) EventOption {
	return func(e *Event) { e.Metadata = md }
}

// Log records an action.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.fromContext(ctx)
	event.ID = uuid.New().String()
	event.Action = action
	event.CreatedAt = time.Now()

	for _, opt := range opts {
		opt(&event)
	}
	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}

func (l *Logger) fromContext(ctx context.Context) Event {
	event := Event{CallerID: GuestCaller}

	if l.callerID != nil {
		if v, ok := l.callerID(ctx); ok && v != "" {
			event.CallerID = v
		}
	}
	if l.path != nil {
		if v, ok := l.path(ctx); ok {
			event.Path = v
		}
	}
	if l.ip != nil {
		if v, ok := l.ip(ctx); ok {
			event.IP = v
		}
	}
	return event
}
