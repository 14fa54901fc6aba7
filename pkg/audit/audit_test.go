package audit_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/audit"
)

func TestLog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("records event with generated id", func(t *testing.T) {
		t.Parallel()

		store := audit.NewMemoryStorage()
		logger := audit.NewLogger(store)

		err := logger.Log(ctx, "tenant_field_tampering",
			audit.WithField("tenant_id", "99"),
			audit.WithActualTenantID(42),
			audit.WithMetadata(map[string]any{"source": "form"}),
		)
		require.NoError(t, err)

		events := store.Events()
		require.Len(t, events, 1)
		e := events[0]
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "tenant_field_tampering", e.Action)
		assert.Equal(t, "tenant_id", e.Field)
		assert.Equal(t, "99", e.ProvidedValue)
		assert.Equal(t, int64(42), e.ActualTenantID)
		assert.Equal(t, audit.GuestCaller, e.CallerID)
		assert.Equal(t, "form", e.Metadata["source"])
		assert.False(t, e.CreatedAt.IsZero())
	})

	t.Run("distinct ids per event", func(t *testing.T) {
		t.Parallel()

		store := audit.NewMemoryStorage()
		logger := audit.NewLogger(store)

		require.NoError(t, logger.Log(ctx, "a"))
		require.NoError(t, logger.Log(ctx, "b"))

		events := store.Events()
		require.Len(t, events, 2)
		assert.NotEqual(t, events[0].ID, events[1].ID)
	})

	t.Run("empty action rejected", func(t *testing.T) {
		t.Parallel()

		store := audit.NewMemoryStorage()
		logger := audit.NewLogger(store)

		err := logger.Log(ctx, "")
		require.ErrorIs(t, err, audit.ErrEventValidation)
		assert.Empty(t, store.Events())
	})

	t.Run("extractors fill caller path and ip", func(t *testing.T) {
		t.Parallel()

		store := audit.NewMemoryStorage()
		logger := audit.NewLogger(store,
			audit.WithCallerIDExtractor(func(context.Context) (string, bool) { return "user-7", true }),
			audit.WithPathExtractor(func(context.Context) (string, bool) { return "/reports", true }),
			audit.WithIPExtractor(func(context.Context) (string, bool) { return "203.0.113.9", true }),
		)

		require.NoError(t, logger.Log(ctx, "action"))

		e := store.Events()[0]
		assert.Equal(t, "user-7", e.CallerID)
		assert.Equal(t, "/reports", e.Path)
		assert.Equal(t, "203.0.113.9", e.IP)
	})

	t.Run("missing caller falls back to guest", func(t *testing.T) {
		t.Parallel()

		store := audit.NewMemoryStorage()
		logger := audit.NewLogger(store,
			audit.WithCallerIDExtractor(func(context.Context) (string, bool) { return "", false }),
		)

		require.NoError(t, logger.Log(ctx, "action"))
		assert.Equal(t, audit.GuestCaller, store.Events()[0].CallerID)
	})

	t.Run("path option overrides extractor", func(t *testing.T) {
		t.Parallel()

		store := audit.NewMemoryStorage()
		logger := audit.NewLogger(store,
			audit.WithPathExtractor(func(context.Context) (string, bool) { return "/from-context", true }),
		)

		require.NoError(t, logger.Log(ctx, "action", audit.WithPath("/explicit")))
		assert.Equal(t, "/explicit", store.Events()[0].Path)
	})
}

func TestNewLoggerPanicsOnNilStorage(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { audit.NewLogger(nil) })
}

func TestSlogStorage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	store := audit.NewSlogStorage(log)

	err := store.Store(context.Background(), audit.Event{
		ID:             "abc",
		Action:         "tenant_field_tampering",
		Field:          "tenant_id",
		ProvidedValue:  "99",
		ActualTenantID: 42,
		CallerID:       "guest",
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "audit: tenant_field_tampering")
	assert.Contains(t, out, "provided_value=99")
	assert.Contains(t, out, "actual_tenant_id=42")
	assert.Contains(t, out, "level=WARN")
}
