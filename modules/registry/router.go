package registry

import (
	"github.com/go-chi/chi/v5"
)

// RouterOptions configures the registry module. Repository is required;
// Lister is optional and enables the listing endpoint when provided.
type RouterOptions struct {
	Handlers *Handlers
}

// Router creates a read-only tenant registry router. It is meant to be
// mounted on an operator-facing mux, never on tenant-facing hosts.
//
// Example:
//
//	repo := pg.NewRepository(pool, cfg.TenantsTable)
//	r := chi.NewRouter()
//	r.Mount("/registry", registry.Router(registry.RouterOptions{
//	    Handlers: registry.NewHandlers(repo, repo),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Route("/tenants", func(t chi.Router) {
		t.Get("/", opts.Handlers.List)
		t.Get("/{id}", opts.Handlers.Get)
		t.Get("/lookup", opts.Handlers.Lookup)
	})

	return r
}
