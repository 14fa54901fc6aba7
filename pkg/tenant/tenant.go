package tenant

import (
	"context"
	"regexp"
	"time"
)

// Tenant represents one isolated customer of a shared deployment.
// Records are created by an external provisioning flow; this package
// only ever reads them.
type Tenant struct {
	ID        int64          `json:"id"`
	Subdomain string         `json:"subdomain,omitempty"`
	Domain    string         `json:"domain,omitempty"`
	Name      string         `json:"name"`
	Active    bool           `json:"active"`
	Settings  map[string]any `json:"settings,omitempty"`

	// Optional dedicated database connection. Empty fields mean the
	// tenant lives on the shared database with table-name isolation.
	DBHost     string `json:"db_host,omitempty"`
	DBUser     string `json:"db_user,omitempty"`
	DBPassword string `json:"-"`
	DBName     string `json:"db_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// subdomainRe matches lowercase alphanumeric labels with inner hyphens,
// 2-50 characters total.
var subdomainRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,48}[a-z0-9]$`)

// ValidSubdomain reports whether s is acceptable as a tenant subdomain.
func ValidSubdomain(s string) bool {
	return subdomainRe.MatchString(s)
}

// Repository loads tenant records from a persistent store.
// Implementations return ErrTenantNotFound when no record matches;
// they never return a nil tenant alongside a nil error.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	FindByDomain(ctx context.Context, domain string) (*Tenant, error)
}

// Lister enumerates tenants for batch sweeps and admin listings.
// Kept separate from Repository because the request path never needs it.
type Lister interface {
	ListActive(ctx context.Context) ([]*Tenant, error)
}
