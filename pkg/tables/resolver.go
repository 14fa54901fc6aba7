package tables

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Template placeholders.
const (
	PlaceholderID    = "{id}"
	PlaceholderTable = "{table}"

	// DefaultFormat is the physical-name template applied to every
	// non-global table.
	DefaultFormat = "tenant_{id}_{table}"
)

// DefaultGlobalTables are logical names that bypass templating: the
// tenant registry itself and migration bookkeeping. Prefixing either
// would make the system unable to bootstrap.
var DefaultGlobalTables = []string{"tenants", "schema_migrations"}

// Resolver maps logical table names to tenant-scoped physical names.
// It is owned by a single unit of work; the bootstrap table adapter
// sets and clears its active tenant.
type Resolver struct {
	mu       sync.Mutex
	format   string
	globals  map[string]struct{}
	tenantID int64
	cache    map[string]string
	pattern  *regexp.Regexp
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFormat sets the physical-name template. It must contain both the
// {id} and {table} placeholders.
func WithFormat(format string) ResolverOption {
	return func(r *Resolver) { r.format = format }
}

// WithGlobalTables replaces the global allow-list.
func WithGlobalTables(names []string) ResolverOption {
	return func(r *Resolver) {
		r.globals = make(map[string]struct{}, len(names))
		for _, n := range names {
			r.globals[n] = struct{}{}
		}
	}
}

// NewResolver creates a resolver with the default template and global
// allow-list. It panics on a template missing a placeholder, which is a
// wiring bug rather than a runtime condition.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		format: DefaultFormat,
		cache:  make(map[string]string),
	}
	WithGlobalTables(DefaultGlobalTables)(r)
	for _, opt := range opts {
		opt(r)
	}
	if !strings.Contains(r.format, PlaceholderID) || !strings.Contains(r.format, PlaceholderTable) {
		panic(fmt.Sprintf("tables: format %q must contain %s and %s", r.format, PlaceholderID, PlaceholderTable))
	}
	r.pattern = compileFormat(r.format)
	return r
}

// SetTenant activates a tenant id and drops every cached name. A stale
// entry surviving a tenant change is the worst failure mode this
// package exists to prevent.
func (r *Resolver) SetTenant(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tenantID != id {
		r.cache = make(map[string]string)
	}
	r.tenantID = id
}

// ClearTenant deactivates the current tenant and drops the cache.
func (r *Resolver) ClearTenant() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tenantID = 0
	r.cache = make(map[string]string)
}

// TenantID returns the active tenant id, 0 when none.
func (r *Resolver) TenantID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tenantID
}

// SetFormat replaces the template and drops the cache.
func (r *Resolver) SetFormat(format string) error {
	if !strings.Contains(format, PlaceholderID) || !strings.Contains(format, PlaceholderTable) {
		return fmt.Errorf("tables: format %q must contain %s and %s", format, PlaceholderID, PlaceholderTable)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.format = format
	r.pattern = compileFormat(format)
	r.cache = make(map[string]string)
	return nil
}

// Resolve maps a logical name to its tenant-scoped physical name.
// Global tables pass through unchanged. For everything else a missing
// tenant fails with tenant.ErrNoTenantContext; there is deliberately no
// unprefixed fallback, because a silent fallback routes queries to the
// wrong or a shared table.
func (r *Resolver) Resolve(logical string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, global := r.globals[logical]; global {
		return logical, nil
	}
	if r.tenantID == 0 {
		return "", fmt.Errorf("resolve table %q: %w", logical, tenant.ErrNoTenantContext)
	}
	if physical, ok := r.cache[logical]; ok {
		return physical, nil
	}

	physical := strings.NewReplacer(
		PlaceholderID, strconv.FormatInt(r.tenantID, 10),
		PlaceholderTable, logical,
	).Replace(r.format)
	r.cache[logical] = physical
	return physical, nil
}

// ResolveMany resolves a batch of logical names, failing on the first
// name that cannot be resolved.
func (r *Resolver) ResolveMany(logical []string) (map[string]string, error) {
	out := make(map[string]string, len(logical))
	for _, name := range logical {
		physical, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		out[name] = physical
	}
	return out, nil
}

// ExtractTenantID inverts the template: it returns the tenant id
// embedded in a physical name, or false when the name does not match
// the template shape.
func (r *Resolver) ExtractTenantID(physical string) (int64, bool) {
	r.mu.Lock()
	pattern := r.pattern
	r.mu.Unlock()

	m := pattern.FindStringSubmatch(physical)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// compileFormat turns the template into an anchored regexp with the id
// placeholder as a numeric capture and the table placeholder as a
// greedy wildcard.
func compileFormat(format string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(format)
	quoted = strings.Replace(quoted, regexp.QuoteMeta(PlaceholderID), `(\d+)`, 1)
	quoted = strings.Replace(quoted, regexp.QuoteMeta(PlaceholderTable), `.+`, 1)
	return regexp.MustCompile("^" + quoted + "$")
}
