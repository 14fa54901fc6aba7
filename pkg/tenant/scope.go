package tenant

import (
	"context"
	"errors"
	"os"
	"strconv"
)

const (
	// EnvBaseDomain is the environment variable that overrides any
	// configured base domain.
	EnvBaseDomain = "TENANT_BASE_DOMAIN"

	// PlaceholderBaseDomain is the scaffold placeholder shipped in
	// example configs. A configured value equal to it is ignored so a
	// forgotten placeholder cannot cause wrong-tenant resolution.
	PlaceholderBaseDomain = "example.com"

	defaultBaseDomain = "localhost"
)

// Scope holds the resolved tenant for one unit of work (request, job,
// CLI invocation). It is the canonical source of truth once
// identification succeeds. A Scope must never be shared across
// concurrent units of work; create one per request and Clear it when
// the unit of work ends.
type Scope struct {
	tenant             *Tenant
	resolvedKey        string
	detectionAttempted bool
	baseDomain         string
}

// ScopeOption configures a new Scope.
type ScopeOption func(*scopeConfig)

type scopeConfig struct {
	baseDomain string // explicit override, highest precedence
	configured string // value from application config
}

// WithBaseDomain sets an explicit base domain, overriding environment
// and configuration.
func WithBaseDomain(domain string) ScopeOption {
	return func(c *scopeConfig) { c.baseDomain = domain }
}

// WithConfiguredBaseDomain supplies the application-config base domain.
// It is ignored when it equals PlaceholderBaseDomain.
func WithConfiguredBaseDomain(domain string) ScopeOption {
	return func(c *scopeConfig) { c.configured = domain }
}

// NewScope creates a Scope for one unit of work. The base domain is
// resolved as: explicit option, then EnvBaseDomain, then the configured
// value unless it is the placeholder, then "localhost". The ordering is
// load-bearing: trusting a misconfigured default routes requests to the
// wrong tenant.
func NewScope(opts ...ScopeOption) *Scope {
	var c scopeConfig
	for _, opt := range opts {
		opt(&c)
	}
	return &Scope{baseDomain: resolveBaseDomain(c.baseDomain, c.configured)}
}

func resolveBaseDomain(explicit, configured string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvBaseDomain); env != "" {
		return env
	}
	if configured != "" && configured != PlaceholderBaseDomain {
		return configured
	}
	return defaultBaseDomain
}

// BaseDomain returns the base domain this scope identifies against.
func (s *Scope) BaseDomain() string { return s.baseDomain }

// ResolveKey loads the tenant record a candidate key points at and
// records it as the current tenant. It returns ErrTenantNotFound when
// no record matches and ErrTenantInactive when the record is disabled;
// both are recoverable caller conditions, not internal bugs.
func (s *Scope) ResolveKey(ctx context.Context, key Key, repo Repository) (*Tenant, error) {
	s.detectionAttempted = true

	var (
		t   *Tenant
		err error
	)
	switch key.Lookup {
	case LookupSubdomain:
		t, err = repo.FindBySubdomain(ctx, key.Value)
	case LookupDomain:
		t, err = repo.FindByDomain(ctx, key.Value)
	case LookupDomainOrSubdomain:
		t, err = repo.FindByDomain(ctx, key.Value)
		if errors.Is(err, ErrTenantNotFound) {
			// Unconditional fallback: any host without a stored domain
			// gets a subdomain match attempt against the base domain.
			if sub, ok := SubdomainFromHost(key.Value, s.baseDomain); ok {
				t, err = repo.FindBySubdomain(ctx, sub)
			}
		}
	case LookupIdentifier:
		if id, perr := strconv.ParseInt(key.Value, 10, 64); perr == nil && id > 0 {
			t, err = repo.FindByID(ctx, id)
		} else {
			t, err = repo.FindBySubdomain(ctx, key.Value)
		}
	default:
		return nil, ErrInvalidIdentifier
	}
	if err != nil {
		return nil, err
	}
	if !t.Active {
		return nil, ErrTenantInactive
	}

	s.tenant = t
	s.resolvedKey = key.Value
	return t, nil
}

// ResolveByID loads a tenant by id and records it as current. Same
// failure modes as ResolveKey.
func (s *Scope) ResolveByID(ctx context.Context, id int64, repo Repository) (*Tenant, error) {
	s.detectionAttempted = true

	t, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.Active {
		return nil, ErrTenantInactive
	}

	s.tenant = t
	s.resolvedKey = strconv.FormatInt(id, 10)
	return t, nil
}

// SetTenant records an already-loaded record as the current tenant,
// bypassing repository lookup. Used when a strategy produced a concrete
// record on its own.
func (s *Scope) SetTenant(t *Tenant) {
	s.tenant = t
	if t != nil {
		s.resolvedKey = ""
	}
}

// Clear returns the scope to the unresolved state unconditionally.
// Long-lived processes must call it between units of work; a scope that
// outlives its request without being cleared is a cross-tenant leak.
func (s *Scope) Clear() {
	s.tenant = nil
	s.resolvedKey = ""
	s.detectionAttempted = false
}

// Tenant returns the current tenant. The boolean is false when the
// scope is unresolved; downstream code treats that as "no filtering",
// not as an error.
func (s *Scope) Tenant() (*Tenant, bool) {
	if s.tenant == nil {
		return nil, false
	}
	return s.tenant, true
}

// TenantID returns the current tenant id, or 0 when none is resolved.
func (s *Scope) TenantID() int64 {
	if s.tenant == nil {
		return 0
	}
	return s.tenant.ID
}

// ResolvedKey returns the identifier that produced the current match.
func (s *Scope) ResolvedKey() string { return s.resolvedKey }

// MarkDetectionAttempted records that an identification pass ran, even
// when it produced no tenant. ResolveKey and ResolveByID record this on
// their own; callers that short-circuit the lookup (no signal, cache
// hit) mark it explicitly.
func (s *Scope) MarkDetectionAttempted() { s.detectionAttempted = true }

// DetectionAttempted reports whether an identification pass ran for
// this unit of work, regardless of outcome.
func (s *Scope) DetectionAttempted() bool { return s.detectionAttempted }
