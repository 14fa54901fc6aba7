// Package settings flattens a tenant's opaque settings blob into a
// queryable dot-notation key/value surface for the duration of the
// tenant's unit of work, layered over application defaults.
package settings
