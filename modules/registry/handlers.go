package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Handlers serves read-only tenant registry endpoints on top of a
// tenant repository. A nil lister disables the listing endpoint.
type Handlers struct {
	repo   tenant.Repository
	lister tenant.Lister
}

// NewHandlers creates registry handlers. It panics if repo is nil
// because every endpoint depends on it; lister may be nil.
func NewHandlers(repo tenant.Repository, lister tenant.Lister) *Handlers {
	if repo == nil {
		panic("registry: repository is required")
	}
	return &Handlers{repo: repo, lister: lister}
}

// List returns all active tenants.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	if h.lister == nil {
		writeError(w, http.StatusNotImplemented, "listing_unavailable", "tenant listing is not configured")
		return
	}

	tenants, err := h.lister.ListActive(r.Context())
	if err != nil {
		writeTenantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tenants": tenants,
		"count":   len(tenants),
	})
}

// Get returns a single tenant by numeric ID.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid_tenant_id", "tenant id must be a positive integer")
		return
	}

	t, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeTenantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tenant": t})
}

// Lookup resolves a tenant by subdomain or custom domain query
// parameter. Exactly one of the two must be provided.
func (h *Handlers) Lookup(w http.ResponseWriter, r *http.Request) {
	subdomain := r.URL.Query().Get("subdomain")
	domain := r.URL.Query().Get("domain")

	var (
		t   *tenant.Tenant
		err error
	)
	switch {
	case subdomain != "" && domain == "":
		t, err = h.repo.FindBySubdomain(r.Context(), subdomain)
	case domain != "" && subdomain == "":
		t, err = h.repo.FindByDomain(r.Context(), domain)
	default:
		writeError(w, http.StatusBadRequest, "invalid_lookup", "provide exactly one of subdomain or domain")
		return
	}
	if err != nil {
		writeTenantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tenant": t})
}

func writeTenantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tenant.ErrTenantNotFound):
		writeError(w, http.StatusNotFound, "tenant_not_found", "tenant not found")
	case errors.Is(err, tenant.ErrInvalidIdentifier):
		writeError(w, http.StatusBadRequest, "invalid_identifier", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_cancelled", "request cancelled")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
