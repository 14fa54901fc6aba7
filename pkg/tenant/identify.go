package tenant

import (
	"net"
	"strings"
)

// Lookup tells the resolution step which repository lookup a candidate
// key must go through.
type Lookup int

const (
	// LookupSubdomain matches the key against the subdomain column.
	LookupSubdomain Lookup = iota
	// LookupDomain matches the key verbatim against the domain column.
	LookupDomain
	// LookupDomainOrSubdomain tries a full-domain match first and falls
	// back to subdomain extraction unconditionally on no match.
	LookupDomainOrSubdomain
	// LookupIdentifier matches a free-form value: numeric values resolve
	// by id, everything else by subdomain.
	LookupIdentifier
)

// Key is a candidate tenant identifier produced by a Strategy.
type Key struct {
	Value  string
	Lookup Lookup
}

// Strategy maps a request view to a candidate tenant key.
// The boolean result is false when the request carries no tenant
// signal, which is expected and benign, never an error.
type Strategy interface {
	Identify(r Request) (Key, bool)
}

// StrategyFunc adapts a plain function to the Strategy interface.
type StrategyFunc func(r Request) (Key, bool)

func (f StrategyFunc) Identify(r Request) (Key, bool) { return f(r) }

// Subdomain identifies tenants by the host label in front of a
// configured base domain (e.g. "acme" from "acme.saas.com").
type Subdomain struct {
	// BaseDomain is the shared application domain, without leading dot.
	BaseDomain string
}

// NewSubdomain creates a subdomain strategy for the given base domain.
func NewSubdomain(baseDomain string) Subdomain {
	return Subdomain{BaseDomain: baseDomain}
}

func (s Subdomain) Identify(r Request) (Key, bool) {
	host := stripPort(r.Host)

	// Local and dev hosts never map to a tenant. They are main-domain
	// requests, not failures.
	if isLocalHost(host) {
		return Key{}, false
	}

	if s.BaseDomain == "" || host == s.BaseDomain {
		return Key{}, false
	}
	// A host outside the base domain is ambiguous; never guess the
	// first label.
	if !strings.HasSuffix(host, s.BaseDomain) {
		return Key{}, false
	}

	sub := strings.TrimSuffix(host, s.BaseDomain)
	sub = strings.TrimSuffix(sub, ".")
	if sub == "" {
		return Key{}, false
	}
	return Key{Value: sub, Lookup: LookupSubdomain}, true
}

// Domain identifies tenants by the full request host matched verbatim
// against a stored domain. No base-domain logic applies.
type Domain struct{}

func (Domain) Identify(r Request) (Key, bool) {
	host := stripPort(r.Host)
	if host == "" || isLocalHost(host) {
		return Key{}, false
	}
	return Key{Value: host, Lookup: LookupDomain}, true
}

// DomainOrSubdomain identifies by full domain first and lets the
// resolution step fall back to subdomain extraction when no domain
// record matches.
type DomainOrSubdomain struct{}

func (DomainOrSubdomain) Identify(r Request) (Key, bool) {
	host := stripPort(r.Host)
	if host == "" || isLocalHost(host) {
		return Key{}, false
	}
	return Key{Value: host, Lookup: LookupDomainOrSubdomain}, true
}

// Path identifies tenants by a URI path segment.
type Path struct {
	// Position is the 1-indexed segment position. Zero means 1.
	Position int
}

// NewPath creates a path strategy reading the given 1-indexed segment.
func NewPath(position int) Path {
	return Path{Position: position}
}

func (p Path) Identify(r Request) (Key, bool) {
	pos := p.Position
	if pos < 1 {
		pos = 1
	}

	var segments []string
	for seg := range strings.SplitSeq(r.Path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if pos > len(segments) {
		return Key{}, false
	}
	return Key{Value: segments[pos-1], Lookup: LookupIdentifier}, true
}

// Default names for the HeaderOrQuery strategy.
const (
	DefaultTenantHeader = "X-Tenant"
	DefaultTenantQuery  = "tenant"
)

// HeaderOrQuery identifies tenants by a request header first, then a
// query parameter. Either source can be disabled by an empty name.
type HeaderOrQuery struct {
	Header string
	Query  string
}

// NewHeaderOrQuery creates the strategy with the default header and
// query parameter names.
func NewHeaderOrQuery() HeaderOrQuery {
	return HeaderOrQuery{Header: DefaultTenantHeader, Query: DefaultTenantQuery}
}

func (h HeaderOrQuery) Identify(r Request) (Key, bool) {
	if h.Header != "" && r.Header != nil {
		if v := strings.TrimSpace(r.Header.Get(h.Header)); v != "" {
			return Key{Value: v, Lookup: LookupIdentifier}, true
		}
	}
	if h.Query != "" && r.Query != nil {
		if v := strings.TrimSpace(r.Query.Get(h.Query)); v != "" {
			return Key{Value: v, Lookup: LookupIdentifier}, true
		}
	}
	return Key{}, false
}

// Chain tries strategies in order and returns the first candidate key.
type Chain []Strategy

// NewChain builds a priority chain from the given strategies.
func NewChain(strategies ...Strategy) Chain {
	return Chain(strategies)
}

func (c Chain) Identify(r Request) (Key, bool) {
	for _, s := range c {
		if key, ok := s.Identify(r); ok {
			return key, true
		}
	}
	return Key{}, false
}

// stripPort removes a port suffix from a host, tolerating IPv6 forms.
func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}

// localSuffixes are reserved development TLDs that never carry tenants.
var localSuffixes = []string{".test", ".local", ".example"}

// isLocalHost reports whether host (already port-stripped) is a
// local/dev address: loopback names, unspecified, private IP ranges,
// or a reserved dev TLD.
func isLocalHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified()
	}
	for _, suffix := range localSuffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// SubdomainFromHost extracts the subdomain candidate from host given a
// base domain, applying the same rules as the Subdomain strategy. Used
// by the DomainOrSubdomain fallback during resolution.
func SubdomainFromHost(host, baseDomain string) (string, bool) {
	key, ok := Subdomain{BaseDomain: baseDomain}.Identify(Request{Host: host})
	if !ok {
		return "", false
	}
	return key.Value, true
}
