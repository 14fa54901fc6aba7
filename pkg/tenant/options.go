package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const defaultCacheTTL = 5 * time.Minute

// ErrorHandler renders identification failures to the client.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	cache           Cache
	cacheTTL        time.Duration
	onError         ErrorHandler
	bypassPaths     []string
	lenientNotFound bool
	scopeOpts       []ScopeOption
	booter          func(*Scope) Booter
	logger          *slog.Logger
}

// Option configures the middleware.
type Option func(*config)

// WithCache sets a custom cache implementation.
func WithCache(cache Cache) Option {
	return func(c *config) { c.cache = cache }
}

// WithCacheTTL sets how long resolved records stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithErrorHandler sets a custom error handler. This is the "render"
// half of the failure-mode switch; handlers that re-panic implement the
// "throw" half.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) {
		if handler != nil {
			c.onError = handler
		}
	}
}

// WithBypassPaths sets glob patterns (path.Match syntax) matched
// against the request path; matching requests skip identification
// entirely.
func WithBypassPaths(patterns []string) Option {
	return func(c *config) { c.bypassPaths = patterns }
}

// WithLenientNotFound makes an unknown tenant key continue as a
// no-tenant request instead of rendering an error. Inactive tenants
// are still rejected.
func WithLenientNotFound(lenient bool) Option {
	return func(c *config) { c.lenientNotFound = lenient }
}

// WithScopeOptions passes options to the per-request Scope, typically
// the configured base domain.
func WithScopeOptions(opts ...ScopeOption) Option {
	return func(c *config) { c.scopeOpts = append(c.scopeOpts, opts...) }
}

// WithBooter wires a subsystem booter factory. The middleware boots it
// after identification and shuts it down when the request ends.
func WithBooter(factory func(*Scope) Booter) Option {
	return func(c *config) { c.booter = factory }
}

// WithLogger sets a logger for bootstrap failures surfaced by the
// middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrTenantNotFound):
		http.Error(w, "Tenant not found", http.StatusNotFound)
	case errors.Is(err, ErrTenantInactive):
		http.Error(w, "Tenant is inactive", http.StatusForbidden)
	case errors.Is(err, ErrInvalidIdentifier):
		http.Error(w, "Invalid tenant identifier", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
