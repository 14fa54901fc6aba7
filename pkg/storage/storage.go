package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrInvalidConfig is returned when a storage backend is created
	// with incomplete configuration.
	ErrInvalidConfig = errors.New("invalid storage configuration")

	// ErrInvalidPath is returned when a path escapes the storage root.
	ErrInvalidPath = errors.New("invalid storage path")

	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrFailedToLoadConfig is returned when AWS configuration cannot
	// be assembled.
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)

// Storage is a tenant-scopeable blob store. Scope confines all
// subsequent operations to the tenant's slice (a directory locally, a
// key prefix on S3); Unscope returns to the shared location. The
// bootstrap storage adapter drives scoping around each tenant's active
// period.
type Storage interface {
	Scope(id int64) error
	Unscope()

	Save(ctx context.Context, path string, r io.Reader) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, dir string) ([]string, error)
}
