package bootstrap

import (
	"context"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// StorageScoper is the target of the storage-path adapter: a file or
// object store that can confine itself to a tenant-scoped location.
type StorageScoper interface {
	// Scope selects (and if needed creates) the tenant's storage
	// location.
	Scope(id int64) error
	// Unscope returns to the shared location.
	Unscope()
}

// StorageAdapter selects a tenant-scoped storage directory or object
// prefix for the tenant's active period.
type StorageAdapter struct {
	target StorageScoper
}

// NewStorageAdapter creates the adapter for target.
func NewStorageAdapter(target StorageScoper) *StorageAdapter {
	return &StorageAdapter{target: target}
}

func (a *StorageAdapter) Boot(ctx context.Context, id int64, t *tenant.Tenant) error {
	if id == 0 {
		a.target.Unscope()
		return nil
	}
	return a.target.Scope(id)
}

func (a *StorageAdapter) Shutdown(ctx context.Context) error {
	a.target.Unscope()
	return nil
}
