package bootstrap

import (
	"context"

	"github.com/dmitrymomot/tenantkit/pkg/settings"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// SettingsAdapter merges the tenant's opaque settings blob into the
// shared settings store for the duration of the tenant's unit of work
// and restores the defaults afterwards.
type SettingsAdapter struct {
	store *settings.Store
}

// NewSettingsAdapter creates the adapter for store.
func NewSettingsAdapter(store *settings.Store) *SettingsAdapter {
	return &SettingsAdapter{store: store}
}

func (a *SettingsAdapter) Boot(ctx context.Context, id int64, t *tenant.Tenant) error {
	a.store.Reset()
	if t != nil && len(t.Settings) > 0 {
		a.store.Merge(t.Settings)
	}
	return nil
}

func (a *SettingsAdapter) Shutdown(ctx context.Context) error {
	a.store.Reset()
	return nil
}
