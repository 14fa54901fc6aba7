package bootstrap

import (
	"github.com/dmitrymomot/tenantkit/pkg/settings"
	"github.com/dmitrymomot/tenantkit/pkg/tables"
)

// Stable names the default adapters are registered under; Errors() is
// keyed by them.
const (
	AdapterTables      = "tables"
	AdapterCachePrefix = "cache_prefix"
	AdapterStoragePath = "storage_path"
	AdapterSessionPath = "session_path"
	AdapterLogContext  = "log_context"
	AdapterSettings    = "settings"
)

// Subsystems collects the targets for the default adapter set. Nil
// fields are skipped.
type Subsystems struct {
	Tables          *tables.Resolver
	CacheKeys       KeyPrefixer
	CacheSlots      int64 // >0 enables the bounded slot remap, caching only
	Storage         StorageScoper
	Sessions        SessionPathSetter
	SessionBasePath string
	Log             *LogContextAdapter
	Settings        *settings.Store
}

// RegisterDefaults registers the default adapters in their stable
// order: tables, cache prefix, storage path, session path (which must
// precede any session store opening), log context, settings merge.
func (o *Orchestrator) RegisterDefaults(s Subsystems) {
	if s.Tables != nil {
		o.Register(AdapterTables, NewTableAdapter(s.Tables))
	}
	if s.CacheKeys != nil {
		if s.CacheSlots > 0 {
			o.Register(AdapterCachePrefix, NewShardedCachePrefixAdapter(s.CacheKeys, s.CacheSlots))
		} else {
			o.Register(AdapterCachePrefix, NewCachePrefixAdapter(s.CacheKeys))
		}
	}
	if s.Storage != nil {
		o.Register(AdapterStoragePath, NewStorageAdapter(s.Storage))
	}
	if s.Sessions != nil {
		o.Register(AdapterSessionPath, NewSessionPathAdapter(s.Sessions, s.SessionBasePath))
	}
	if s.Log != nil {
		o.Register(AdapterLogContext, s.Log)
	}
	if s.Settings != nil {
		o.Register(AdapterSettings, NewSettingsAdapter(s.Settings))
	}
}
