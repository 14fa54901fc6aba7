package storage_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/storage"
)

func TestNewLocal(t *testing.T) {
	t.Parallel()

	t.Run("creates base directory", func(t *testing.T) {
		t.Parallel()

		base := filepath.Join(t.TempDir(), "uploads")
		l, err := storage.NewLocal(base)
		require.NoError(t, err)
		assert.Equal(t, base, l.ActiveDir())
	})

	t.Run("empty base rejected", func(t *testing.T) {
		t.Parallel()

		_, err := storage.NewLocal("")
		require.ErrorIs(t, err, storage.ErrInvalidConfig)
	})
}

func TestLocalScope(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("scoping isolates tenants", func(t *testing.T) {
		t.Parallel()

		l, err := storage.NewLocal(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, l.Scope(1))
		require.NoError(t, l.Save(ctx, "report.txt", strings.NewReader("tenant one")))

		require.NoError(t, l.Scope(2))
		_, err = l.Open(ctx, "report.txt")
		require.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, l.Scope(1))
		rc, err := l.Open(ctx, "report.txt")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "tenant one", string(data))
	})

	t.Run("unscope returns to shared root", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		l, err := storage.NewLocal(base)
		require.NoError(t, err)

		require.NoError(t, l.Scope(7))
		assert.Equal(t, filepath.Join(base, "tenant_7"), l.ActiveDir())

		l.Unscope()
		assert.Equal(t, base, l.ActiveDir())
	})
}

func TestLocalOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("save open delete round trip", func(t *testing.T) {
		t.Parallel()

		l, err := storage.NewLocal(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, l.Save(ctx, "dir/nested/file.txt", strings.NewReader("payload")))

		rc, err := l.Open(ctx, "dir/nested/file.txt")
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))

		require.NoError(t, l.Delete(ctx, "dir/nested/file.txt"))
		_, err = l.Open(ctx, "dir/nested/file.txt")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete of missing file is a no-op", func(t *testing.T) {
		t.Parallel()

		l, err := storage.NewLocal(t.TempDir())
		require.NoError(t, err)
		assert.NoError(t, l.Delete(ctx, "absent.txt"))
	})

	t.Run("list directory", func(t *testing.T) {
		t.Parallel()

		l, err := storage.NewLocal(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, l.Save(ctx, "docs/a.txt", strings.NewReader("a")))
		require.NoError(t, l.Save(ctx, "docs/b.txt", strings.NewReader("b")))

		names, err := l.List(ctx, "docs")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, names)

		names, err = l.List(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("traversal cannot escape the active root", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		l, err := storage.NewLocal(filepath.Join(base, "uploads"))
		require.NoError(t, err)

		require.NoError(t, l.Save(ctx, "../escape.txt", strings.NewReader("x")))

		// The cleaned path stays inside the root.
		rc, err := l.Open(ctx, "escape.txt")
		require.NoError(t, err)
		rc.Close()

		_, err = l.Open(ctx, "../../../../etc/passwd")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
