// Package tenant provides multi-tenant identification and request-scoped
// tenant state for applications sharing one deployment across customers.
//
// The package is built around four concepts:
//
//  1. Strategies - pure mappings from a request view to a candidate tenant key
//     (subdomain, full domain, path segment, header or query parameter)
//  2. Repository - the lookup contract that turns a key into a tenant record
//  3. Scope - the per-unit-of-work holder of the resolved tenant
//  4. Middleware - orchestrates identification, caching, and context propagation
//
// # Usage
//
//	strategy := tenant.NewSubdomain("saas.com")
//	repo := pg.NewRepository(pool)
//
//	mw := tenant.Middleware(strategy, repo,
//		tenant.WithCacheTTL(10*time.Minute),
//		tenant.WithBypassPaths([]string{"/health", "/metrics/*"}),
//	)
//	router.Use(mw)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		t, ok := tenant.FromContext(r.Context())
//		if !ok {
//			// main-domain request, no tenant
//			return
//		}
//		_ = t
//	}
//
// # Identification
//
// Strategies never return errors: a request without a tenant signal is a
// main-domain or development request, not a failure. Local hosts
// (localhost, loopback and private addresses, .test/.local/.example)
// short-circuit to "no tenant" before any base-domain logic runs.
//
// Resolution of a candidate key into a record is separate and does fail
// with typed conditions: ErrTenantNotFound when nothing matches and
// ErrTenantInactive when the record is disabled. Both are recoverable
// caller conditions.
//
// # Scoping
//
// A Scope belongs to exactly one unit of work. Sharing a scope, or any
// state derived from it, across concurrent requests is a direct
// cross-tenant leak. The middleware creates and clears one per request;
// batch and CLI callers must do the same around each tenant they touch.
package tenant
