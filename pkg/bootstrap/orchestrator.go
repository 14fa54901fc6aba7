package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/tenantkit/pkg/events"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Adapter reconfigures one subsystem for a tenant's active period.
// Boot receives id 0 and a nil record for the "no tenant" state.
// Adapters must tolerate Shutdown without a prior Boot.
type Adapter interface {
	Boot(ctx context.Context, id int64, t *tenant.Tenant) error
	Shutdown(ctx context.Context) error
}

// AdapterFuncs builds an Adapter from plain functions. Nil functions
// are no-ops, so one-sided adapters stay terse at the call site.
type AdapterFuncs struct {
	OnBoot     func(ctx context.Context, id int64, t *tenant.Tenant) error
	OnShutdown func(ctx context.Context) error
}

func (a AdapterFuncs) Boot(ctx context.Context, id int64, t *tenant.Tenant) error {
	if a.OnBoot == nil {
		return nil
	}
	return a.OnBoot(ctx, id, t)
}

func (a AdapterFuncs) Shutdown(ctx context.Context) error {
	if a.OnShutdown == nil {
		return nil
	}
	return a.OnShutdown(ctx)
}

// Event kinds published on the orchestrator's bus.
const (
	EventTenancyInitialized = "tenancy_initialized"
	EventTenancyEnded       = "tenancy_ended"
)

// Event announces a tenancy lifecycle transition.
type Event struct {
	Kind     string
	TenantID int64
	Tenant   *tenant.Tenant
}

type namedAdapter struct {
	name    string
	adapter Adapter
}

// Orchestrator boots an ordered set of subsystem adapters when the
// tenant in scope changes and reverses them on shutdown. It is owned by
// exactly one unit of work and is not safe for concurrent use; create
// one per request or job alongside its Scope.
type Orchestrator struct {
	scope    *tenant.Scope
	repo     tenant.Repository
	log      *slog.Logger
	bus      *events.Bus[Event]
	adapters []namedAdapter

	booted       bool
	lastTenantID int64
	lastTenant   *tenant.Tenant
	errs         map[string]error
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithRepository enables BootForTenant and sweeps.
func WithRepository(repo tenant.Repository) OrchestratorOption {
	return func(o *Orchestrator) { o.repo = repo }
}

// WithLogger sets the logger for adapter failures.
func WithLogger(log *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.log = log }
}

// WithEventBus sets the bus lifecycle events are published on.
func WithEventBus(bus *events.Bus[Event]) OrchestratorOption {
	return func(o *Orchestrator) { o.bus = bus }
}

// New creates an orchestrator bound to the given scope.
func New(scope *tenant.Scope, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		scope: scope,
		log:   slog.Default(),
		errs:  make(map[string]error),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Scope returns the scope this orchestrator reads the tenant from.
func (o *Orchestrator) Scope() *tenant.Scope { return o.scope }

// Register appends an adapter under a stable name. Registration order
// is invocation order.
func (o *Orchestrator) Register(name string, adapter Adapter) {
	o.adapters = append(o.adapters, namedAdapter{name: name, adapter: adapter})
}

// Boot reconfigures every adapter for the tenant currently in scope.
// Calling it again without a tenant change is a no-op, which makes it
// safe to invoke multiple times per request. Adapter failures are
// isolated: they are collected, logged, and do not stop the remaining
// adapters. The joined failures are returned for caller logging; the
// boot cycle itself still completes.
func (o *Orchestrator) Boot(ctx context.Context) error {
	id := o.scope.TenantID()
	if o.booted && id == o.lastTenantID {
		return nil
	}

	t, _ := o.scope.Tenant()
	o.errs = make(map[string]error)

	for _, a := range o.adapters {
		if err := o.runIsolated(ctx, a.name, "boot", func() error {
			return a.adapter.Boot(ctx, id, t)
		}); err != nil {
			o.errs[a.name] = err
		}
	}

	o.booted = true
	o.lastTenantID = id
	o.lastTenant = t

	if t != nil {
		o.publish(Event{Kind: EventTenancyInitialized, TenantID: id, Tenant: t})
	}
	return o.joinedErrors()
}

// Shutdown announces the end of the tenancy before tearing adapters
// down, so listeners still see what they are cleaning up after, then
// reverses the adapters in opposite registration order with the same
// failure isolation as Boot. It is idempotent and safe without a prior
// Boot.
func (o *Orchestrator) Shutdown(ctx context.Context) {
	if !o.booted {
		return
	}

	o.publish(Event{Kind: EventTenancyEnded, TenantID: o.lastTenantID, Tenant: o.lastTenant})

	for i := len(o.adapters) - 1; i >= 0; i-- {
		a := o.adapters[i]
		_ = o.runIsolated(ctx, a.name, "shutdown", func() error {
			return a.adapter.Shutdown(ctx)
		})
	}

	o.booted = false
	o.lastTenantID = 0
	o.lastTenant = nil
	o.errs = make(map[string]error)
}

// BootForTenant resolves id through the repository, makes it current,
// and forces a full boot cycle even when the id matches the last boot.
// Used by batch and CLI work that must reproduce request-time isolation
// without an HTTP host.
func (o *Orchestrator) BootForTenant(ctx context.Context, id int64) error {
	if o.repo == nil {
		return errors.New("bootstrap: no repository configured")
	}
	if _, err := o.scope.ResolveByID(ctx, id, o.repo); err != nil {
		return err
	}
	// Defeat the no-op guard: a forced boot must rerun every adapter.
	o.booted = false
	return o.Boot(ctx)
}

// WasSuccessful reports whether the last boot cycle ran without any
// adapter failure.
func (o *Orchestrator) WasSuccessful() bool {
	return o.booted && len(o.errs) == 0
}

// Errors returns the per-adapter failures from the current boot cycle.
func (o *Orchestrator) Errors() map[string]error {
	out := make(map[string]error, len(o.errs))
	for k, v := range o.errs {
		out[k] = v
	}
	return out
}

// runIsolated invokes fn, converting panics into errors, and logs any
// failure. One subsystem failing must not take the others down with it.
func (o *Orchestrator) runIsolated(ctx context.Context, name, phase string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("adapter %s panicked during %s: %v", name, phase, r)
		}
		if err != nil {
			o.log.ErrorContext(ctx, "subsystem adapter failed",
				slog.String("adapter", name),
				slog.String("phase", phase),
				slog.Any("error", err),
			)
		}
	}()
	return fn()
}

func (o *Orchestrator) publish(e Event) {
	if o.bus != nil {
		o.bus.Publish(e)
	}
}

func (o *Orchestrator) joinedErrors() error {
	if len(o.errs) == 0 {
		return nil
	}
	errs := make([]error, 0, len(o.errs))
	for name, err := range o.errs {
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return errors.Join(errs...)
}
