package tenant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"
)

// Booter boots downstream subsystems for a resolved scope and reverses
// them when the unit of work ends. Implemented by the bootstrap
// orchestrator; kept as a narrow interface here to avoid coupling
// identification to subsystem wiring.
type Booter interface {
	Boot(ctx context.Context) error
	Shutdown(ctx context.Context)
}

// Middleware creates HTTP middleware that identifies the tenant for
// each request, loads its record, and adds it to the request context.
// A fresh Scope is created per request; nothing is shared across
// concurrent requests.
func Middleware(strategy Strategy, repo Repository, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		cache:    NewInMemoryCache(),
		cacheTTL: defaultCacheTTL,
		onError:  defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, pattern := range cfg.bypassPaths {
				if ok, _ := path.Match(pattern, r.URL.Path); ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			scope := NewScope(cfg.scopeOpts...)
			defer scope.Clear()

			serve := func(req *http.Request) {
				if cfg.booter != nil {
					b := cfg.booter(scope)
					if err := b.Boot(req.Context()); err != nil {
						cfg.logger.ErrorContext(req.Context(), "tenant bootstrap failed", "error", err)
					}
					defer b.Shutdown(req.Context())
				}
				next.ServeHTTP(w, req)
			}

			key, ok := strategy.Identify(FromHTTP(r))
			scope.MarkDetectionAttempted()
			if !ok {
				// No tenant signal is benign: main-domain or dev request.
				serve(r)
				return
			}

			if cached, found := cfg.cache.Get(r.Context(), CacheKey(key)); found {
				if !cached.Active {
					cfg.onError(w, r, ErrTenantInactive)
					return
				}
				scope.SetTenant(cached)
				serve(r.WithContext(WithTenant(r.Context(), cached)))
				return
			}

			t, err := scope.ResolveKey(r.Context(), key, repo)
			if err != nil {
				if cfg.lenientNotFound && errors.Is(err, ErrTenantNotFound) {
					serve(r)
					return
				}
				cfg.onError(w, r, err)
				return
			}

			cfg.cache.Set(r.Context(), CacheKey(key), t, cfg.cacheTTL)
			serve(r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}

// RequireTenant ensures a tenant is present in the request context.
// Mount it on routes that must never run without tenancy.
func RequireTenant(onError ErrorHandler) func(http.Handler) http.Handler {
	if onError == nil {
		onError = defaultErrorHandler
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromContext(r.Context()); !ok {
				onError(w, r, ErrNoTenantContext)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
