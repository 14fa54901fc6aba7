// Package tables maps logical table names to tenant-scoped physical
// names using a configurable template, with a per-tenant cache and a
// fail-closed policy: resolving a scoped table without an active tenant
// is always an error, never a silent fallback to the unprefixed name.
package tables
