package registry_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/modules/registry"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type mockRepo struct {
	tenants []*tenant.Tenant
	listErr error
}

func (m *mockRepo) FindByID(_ context.Context, id int64) (*tenant.Tenant, error) {
	for _, t := range m.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (m *mockRepo) FindBySubdomain(_ context.Context, subdomain string) (*tenant.Tenant, error) {
	for _, t := range m.tenants {
		if t.Subdomain == subdomain {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (m *mockRepo) FindByDomain(_ context.Context, domain string) (*tenant.Tenant, error) {
	for _, t := range m.tenants {
		if t.Domain != "" && t.Domain == domain {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (m *mockRepo) ListActive(_ context.Context) ([]*tenant.Tenant, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*tenant.Tenant
	for _, t := range m.tenants {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

func newRouter(repo *mockRepo) http.Handler {
	return registry.Router(registry.RouterOptions{
		Handlers: registry.NewHandlers(repo, repo),
	})
}

func newRepo() *mockRepo {
	return &mockRepo{tenants: []*tenant.Tenant{
		{ID: 1, Subdomain: "acme", Name: "Acme", Active: true},
		{ID: 2, Subdomain: "beta", Domain: "beta.io", Name: "Beta", Active: true},
		{ID: 3, Subdomain: "dormant", Active: false},
	}}
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestListTenants(t *testing.T) {
	t.Parallel()

	t.Run("returns active tenants", func(t *testing.T) {
		t.Parallel()

		rec, body := get(t, newRouter(newRepo()), "/tenants/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(2), body["count"])
		assert.Len(t, body["tenants"], 2)
	})

	t.Run("repository failure", func(t *testing.T) {
		t.Parallel()

		repo := newRepo()
		repo.listErr = assert.AnError

		rec, body := get(t, newRouter(repo), "/tenants/")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "internal_error", errObj["code"])
	})

	t.Run("nil lister disables listing", func(t *testing.T) {
		t.Parallel()

		repo := newRepo()
		h := registry.Router(registry.RouterOptions{
			Handlers: registry.NewHandlers(repo, nil),
		})

		rec, _ := get(t, h, "/tenants/")
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}

func TestGetTenant(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		rec, body := get(t, newRouter(newRepo()), "/tenants/1")
		require.Equal(t, http.StatusOK, rec.Code)
		tn := body["tenant"].(map[string]any)
		assert.Equal(t, "acme", tn["subdomain"])
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		rec, body := get(t, newRouter(newRepo()), "/tenants/99")
		require.Equal(t, http.StatusNotFound, rec.Code)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "tenant_not_found", errObj["code"])
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()

		rec, _ := get(t, newRouter(newRepo()), "/tenants/abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec, _ = get(t, newRouter(newRepo()), "/tenants/0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLookupTenant(t *testing.T) {
	t.Parallel()

	t.Run("by subdomain", func(t *testing.T) {
		t.Parallel()

		rec, body := get(t, newRouter(newRepo()), "/tenants/lookup?subdomain=acme")
		require.Equal(t, http.StatusOK, rec.Code)
		tn := body["tenant"].(map[string]any)
		assert.Equal(t, float64(1), tn["id"])
	})

	t.Run("by domain", func(t *testing.T) {
		t.Parallel()

		rec, body := get(t, newRouter(newRepo()), "/tenants/lookup?domain=beta.io")
		require.Equal(t, http.StatusOK, rec.Code)
		tn := body["tenant"].(map[string]any)
		assert.Equal(t, float64(2), tn["id"])
	})

	t.Run("both parameters rejected", func(t *testing.T) {
		t.Parallel()

		rec, _ := get(t, newRouter(newRepo()), "/tenants/lookup?subdomain=acme&domain=beta.io")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("neither parameter rejected", func(t *testing.T) {
		t.Parallel()

		rec, _ := get(t, newRouter(newRepo()), "/tenants/lookup")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown subdomain", func(t *testing.T) {
		t.Parallel()

		rec, _ := get(t, newRouter(newRepo()), "/tenants/lookup?subdomain=ghost")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNewHandlersPanicsOnNilRepo(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { registry.NewHandlers(nil, nil) })
}
