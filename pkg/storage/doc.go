// Package storage provides tenant-scopeable blob storage: a local
// filesystem backend using per-tenant directories and an S3 backend
// using per-tenant key prefixes. The bootstrap storage adapter scopes
// and unscopes the active backend around each tenant's active period.
package storage
