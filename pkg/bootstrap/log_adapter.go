package bootstrap

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// LogContextAdapter injects the active tenant's id and name into every
// log record emitted during its active period, via a logger context
// extractor bound to the adapter's current state.
type LogContextAdapter struct {
	mu   sync.RWMutex
	id   int64
	name string
}

// NewLogContextAdapter creates the adapter.
func NewLogContextAdapter() *LogContextAdapter {
	return &LogContextAdapter{}
}

func (a *LogContextAdapter) Boot(ctx context.Context, id int64, t *tenant.Tenant) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.id = id
	if t != nil {
		a.name = t.Name
	} else {
		a.name = ""
	}
	return nil
}

func (a *LogContextAdapter) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.id = 0
	a.name = ""
	return nil
}

// Extractor returns a logger extractor reading the adapter's current
// tenant. Wire it into the logger factory once; the attrs follow
// whatever boot cycle is active.
func (a *LogContextAdapter) Extractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		a.mu.RLock()
		defer a.mu.RUnlock()
		if a.id == 0 {
			return slog.Attr{}, false
		}
		return slog.Group("tenant",
			slog.String("id", strconv.FormatInt(a.id, 10)),
			slog.String("name", a.name),
		), true
	}
}
