package redis

import "sync"

// KeyPrefix builds cache keys under a tenant-scoped prefix. The
// bootstrap cache adapter sets and clears the prefix around a tenant's
// active period; application cache code goes through Key for every
// read and write so untenanted requests use bare keys.
type KeyPrefix struct {
	mu     sync.RWMutex
	prefix string
}

// NewKeyPrefix creates an unscoped key builder.
func NewKeyPrefix() *KeyPrefix {
	return &KeyPrefix{}
}

// SetPrefix scopes subsequent keys.
func (p *KeyPrefix) SetPrefix(prefix string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefix = prefix
}

// ClearPrefix returns to unscoped keys.
func (p *KeyPrefix) ClearPrefix() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefix = ""
}

// Key returns the scoped form of key.
func (p *KeyPrefix) Key(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefix + key
}
