package tenant

import "errors"

var (
	// ErrTenantNotFound is returned when an identifier resolves to no record.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrTenantInactive is returned when a record exists but is disabled.
	ErrTenantInactive = errors.New("tenant is inactive")

	// ErrNoTenantContext is returned when an operation that requires an
	// active tenant runs without one. This is an ordering bug in the
	// caller, never a condition to swallow.
	ErrNoTenantContext = errors.New("no tenant in context")

	// ErrInvalidIdentifier is returned when an identifier cannot be parsed.
	ErrInvalidIdentifier = errors.New("invalid tenant identifier")
)
