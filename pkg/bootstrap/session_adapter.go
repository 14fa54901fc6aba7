package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// SessionPathSetter is the target of the session-path adapter: a
// session store whose save location can be redirected.
type SessionPathSetter interface {
	SetSavePath(path string)
}

// SessionPathAdapter points the session store at a tenant-scoped save
// path.
//
// Caller obligation the orchestrator cannot enforce: this adapter must
// be registered (and therefore booted) before any session store is
// opened for the request. A store opened against the shared path keeps
// using it for the rest of the request.
type SessionPathAdapter struct {
	target   SessionPathSetter
	basePath string
}

// NewSessionPathAdapter creates the adapter. basePath is the shared
// save path tenants are nested under and restored to on shutdown.
func NewSessionPathAdapter(target SessionPathSetter, basePath string) *SessionPathAdapter {
	return &SessionPathAdapter{target: target, basePath: basePath}
}

func (a *SessionPathAdapter) Boot(ctx context.Context, id int64, t *tenant.Tenant) error {
	if id == 0 {
		a.target.SetSavePath(a.basePath)
		return nil
	}
	path := filepath.Join(a.basePath, "tenant_"+strconv.FormatInt(id, 10))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	a.target.SetSavePath(path)
	return nil
}

func (a *SessionPathAdapter) Shutdown(ctx context.Context) error {
	a.target.SetSavePath(a.basePath)
	return nil
}
