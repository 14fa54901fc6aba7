package tenant

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Cache stores resolved tenant records keyed by the lookup that
// produced them, so repeated requests skip the repository.
type Cache interface {
	Get(ctx context.Context, key string) (*Tenant, bool)
	Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Close() error
}

// CacheKey builds the cache key for a candidate key. Qualifying by the
// lookup kind keeps a subdomain "42" and the tenant id 42 from
// colliding in the same cache.
func CacheKey(key Key) string {
	return strconv.Itoa(int(key.Lookup)) + ":" + key.Value
}

// DefaultCacheSize is the default maximum number of cached records.
const DefaultCacheSize = 1000

type memCacheEntry struct {
	tenant    *Tenant
	expiresAt time.Time
}

// memCache is an LRU cache with TTL expiration and background cleanup.
type memCache struct {
	mu      sync.Mutex
	entries map[string]memCacheEntry
	order   []string // least recently used first
	maxSize int
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

// NewInMemoryCache creates an in-memory tenant cache with the default
// size limit and a background expiry sweep.
func NewInMemoryCache() Cache {
	return NewInMemoryCacheWithSize(DefaultCacheSize)
}

// NewInMemoryCacheWithSize creates an in-memory cache holding at most
// maxSize records, evicting the least recently used on overflow.
func NewInMemoryCacheWithSize(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	c := &memCache{
		entries: make(map[string]memCacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *memCache) Get(ctx context.Context, key string) (*Tenant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		c.unlink(key)
		return nil, false
	}
	c.touch(key)
	return entry.tenant, true
}

func (c *memCache) Set(ctx context.Context, key string, tenant *Tenant, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		if len(c.order) > 0 {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
	}
	c.entries[key] = memCacheEntry{tenant: tenant, expiresAt: time.Now().Add(ttl)}
	c.touch(key)
}

func (c *memCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	c.unlink(key)
}

func (c *memCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

func (c *memCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
					c.unlink(key)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// touch marks key as most recently used. Callers hold c.mu.
func (c *memCache) touch(key string) {
	c.unlink(key)
	c.order = append(c.order, key)
}

// unlink removes key from the recency order. Callers hold c.mu.
func (c *memCache) unlink(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// noopCache disables caching; every lookup goes to the repository.
type noopCache struct{}

// NewNoOpCache creates a cache that never stores anything. Useful in
// tests and for deployments where tenant records change frequently.
func NewNoOpCache() Cache { return noopCache{} }

func (noopCache) Get(context.Context, string) (*Tenant, bool)          { return nil, false }
func (noopCache) Set(context.Context, string, *Tenant, time.Duration)  {}
func (noopCache) Delete(context.Context, string)                       {}
func (noopCache) Close() error                                         { return nil }
