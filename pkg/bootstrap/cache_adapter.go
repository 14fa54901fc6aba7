package bootstrap

import (
	"context"
	"strconv"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// KeyPrefixer is the target of the cache-prefix adapter, typically a
// redis key builder shared by the application's cache layer.
type KeyPrefixer interface {
	SetPrefix(prefix string)
	ClearPrefix()
}

// CachePrefixAdapter scopes cache keys to the active tenant.
//
// With Slots > 0 the tenant id is deliberately remapped into a bounded
// slot range. That remapping is local to caching: cache entries are
// disposable and slot collisions only cost extra misses. It must never
// be applied to table naming, where ids are used verbatim.
type CachePrefixAdapter struct {
	target KeyPrefixer
	slots  int64
}

// NewCachePrefixAdapter creates an adapter prefixing keys with the
// verbatim tenant id.
func NewCachePrefixAdapter(target KeyPrefixer) *CachePrefixAdapter {
	return &CachePrefixAdapter{target: target}
}

// NewShardedCachePrefixAdapter creates an adapter remapping tenant ids
// into slots buckets.
func NewShardedCachePrefixAdapter(target KeyPrefixer, slots int64) *CachePrefixAdapter {
	return &CachePrefixAdapter{target: target, slots: slots}
}

func (a *CachePrefixAdapter) Boot(ctx context.Context, id int64, t *tenant.Tenant) error {
	if id == 0 {
		a.target.ClearPrefix()
		return nil
	}
	key := id
	if a.slots > 0 {
		key = id % a.slots
	}
	a.target.SetPrefix("tenant_" + strconv.FormatInt(key, 10) + ":")
	return nil
}

func (a *CachePrefixAdapter) Shutdown(ctx context.Context) error {
	a.target.ClearPrefix()
	return nil
}
