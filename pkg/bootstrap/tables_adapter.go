package bootstrap

import (
	"context"

	"github.com/dmitrymomot/tenantkit/pkg/tables"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// TableAdapter wires the table-name resolver's active tenant. This is
// the isolation-critical adapter: its resolver fails closed for scoped
// tables whenever no tenant is active.
type TableAdapter struct {
	resolver *tables.Resolver
}

// NewTableAdapter creates the adapter for resolver.
func NewTableAdapter(resolver *tables.Resolver) *TableAdapter {
	return &TableAdapter{resolver: resolver}
}

func (a *TableAdapter) Boot(ctx context.Context, id int64, t *tenant.Tenant) error {
	if id == 0 {
		a.resolver.ClearTenant()
		return nil
	}
	a.resolver.SetTenant(id)
	return nil
}

func (a *TableAdapter) Shutdown(ctx context.Context) error {
	a.resolver.ClearTenant()
	return nil
}
