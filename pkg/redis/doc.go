// Package redis wires Redis into the tenancy layer: resilient connect,
// a shared tenant record cache, and the tenant-scoped key prefix the
// bootstrap cache adapter drives.
package redis
