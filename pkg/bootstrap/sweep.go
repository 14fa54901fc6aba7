package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Sweep runs fn once per active tenant with full request-time isolation
// in place: each tenant is booted through the orchestrator before fn
// runs and shut down afterwards, and the scope is cleared between
// tenants even when fn fails. Failures are collected per tenant and
// joined; one tenant's failure never skips the rest.
func Sweep(ctx context.Context, lister tenant.Lister, o *Orchestrator, fn func(ctx context.Context, t *tenant.Tenant) error) error {
	tenants, err := lister.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: list tenants: %w", err)
	}

	var errs []error
	for _, t := range tenants {
		if err := sweepOne(ctx, o, t, fn); err != nil {
			errs = append(errs, fmt.Errorf("tenant %d: %w", t.ID, err))
		}
	}
	return errors.Join(errs...)
}

func sweepOne(ctx context.Context, o *Orchestrator, t *tenant.Tenant, fn func(ctx context.Context, t *tenant.Tenant) error) error {
	// Teardown is unconditional: leaving a tenant's state behind after
	// a failing fn would bleed into the next tenant's run.
	defer func() {
		o.Shutdown(ctx)
		o.Scope().Clear()
	}()

	if err := o.BootForTenant(ctx, t.ID); err != nil {
		return err
	}
	return fn(tenant.WithTenant(ctx, t), t)
}
