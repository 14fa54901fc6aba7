package guard

import (
	"net/http"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Middleware applies the guard to every request that carries a resolved
// tenant. Mount it after the tenant middleware so the context is
// populated, and before any handler that reads form or query data.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := tenant.IDFromContext(r.Context()); ok {
				g.Request(r.Context(), id, r)
			}
			next.ServeHTTP(w, r)
		})
	}
}
