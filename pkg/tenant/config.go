package tenant

import (
	"fmt"
	"time"
)

// Config is the environment-driven configuration surface for tenant
// identification. It is read-only for this package.
type Config struct {
	BaseDomain   string        `env:"BASE_DOMAIN"`                          // BaseDomain is the shared application domain tenants live under.
	Strategy     string        `env:"TENANT_STRATEGY" envDefault:"subdomain"` // Strategy selects identification: subdomain, domain, domain_or_subdomain, path, header.
	PathPosition int           `env:"TENANT_PATH_POSITION" envDefault:"1"`  // PathPosition is the 1-indexed path segment for the path strategy.
	Header       string        `env:"TENANT_HEADER" envDefault:"X-Tenant"`  // Header is the header name for the header strategy. Empty disables the header source.
	QueryParam   string        `env:"TENANT_QUERY" envDefault:"tenant"`     // QueryParam is the query parameter for the header strategy. Empty disables the query source.
	BypassPaths  []string      `env:"TENANT_BYPASS_PATHS" envSeparator:","` // BypassPaths are glob patterns matched against the request path to skip identification.
	CacheTTL     time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`     // CacheTTL is how long resolved records stay cached.
}

// Strategy names accepted by StrategyFromConfig.
const (
	StrategySubdomain         = "subdomain"
	StrategyDomain            = "domain"
	StrategyDomainOrSubdomain = "domain_or_subdomain"
	StrategyPath              = "path"
	StrategyHeader            = "header"
)

// StrategyFromConfig builds the identification strategy the config
// names. The base domain passed to the subdomain strategy goes through
// the same precedence as NewScope.
func StrategyFromConfig(cfg Config) (Strategy, error) {
	switch cfg.Strategy {
	case StrategySubdomain, "":
		return NewSubdomain(resolveBaseDomain("", cfg.BaseDomain)), nil
	case StrategyDomain:
		return Domain{}, nil
	case StrategyDomainOrSubdomain:
		return DomainOrSubdomain{}, nil
	case StrategyPath:
		return NewPath(cfg.PathPosition), nil
	case StrategyHeader:
		return HeaderOrQuery{Header: cfg.Header, Query: cfg.QueryParam}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidIdentifier, cfg.Strategy)
	}
}
