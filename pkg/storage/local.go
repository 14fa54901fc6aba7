package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// tenantDirPrefix names per-tenant directories under the base dir.
const tenantDirPrefix = "tenant_"

// Local is a filesystem Storage confined to a base directory. Scoping
// a tenant selects (creating if needed) a per-tenant subdirectory; all
// paths are cleaned and checked so nothing escapes the active root.
type Local struct {
	baseDir string

	mu     sync.RWMutex
	active string // current root, baseDir when unscoped
}

// NewLocal creates a local storage rooted at baseDir, which is
// resolved to an absolute path and created if missing.
func NewLocal(baseDir string) (*Local, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve base directory: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &Local{baseDir: abs, active: abs}, nil
}

// Scope selects the tenant's directory, creating it on first use.
func (l *Local) Scope(id int64) error {
	dir := filepath.Join(l.baseDir, tenantDirPrefix+strconv.FormatInt(id, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create tenant directory: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = dir
	return nil
}

// Unscope returns to the shared base directory.
func (l *Local) Unscope() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = l.baseDir
}

// ActiveDir returns the directory operations currently resolve under.
func (l *Local) ActiveDir() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

func (l *Local) Save(ctx context.Context, path string, r io.Reader) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *Local) List(ctx context.Context, dir string) ([]string, error) {
	full, err := l.resolve(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// resolve joins path under the active root, rejecting traversal out of it.
func (l *Local) resolve(path string) (string, error) {
	root := l.ActiveDir()
	full := filepath.Join(root, filepath.Clean("/"+path))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return full, nil
}
