package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

const tenantCacheNamespace = "tenantkit:record:"

// TenantCache is a Redis-backed tenant.Cache, sharing resolved records
// across instances of the application. Misses and transport errors both
// read as "not cached"; the repository stays the source of truth.
type TenantCache struct {
	client redis.UniversalClient
}

// NewTenantCache creates a cache on client.
func NewTenantCache(client redis.UniversalClient) *TenantCache {
	return &TenantCache{client: client}
}

func (c *TenantCache) Get(ctx context.Context, key string) (*tenant.Tenant, bool) {
	raw, err := c.client.Get(ctx, tenantCacheNamespace+key).Bytes()
	if err != nil {
		return nil, false
	}
	var t tenant.Tenant
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, false
	}
	return &t, true
}

func (c *TenantCache) Set(ctx context.Context, key string, t *tenant.Tenant, ttl time.Duration) {
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, tenantCacheNamespace+key, raw, ttl).Err()
}

func (c *TenantCache) Delete(ctx context.Context, key string) {
	_ = c.client.Del(ctx, tenantCacheNamespace+key).Err()
}

func (c *TenantCache) Close() error { return nil }
