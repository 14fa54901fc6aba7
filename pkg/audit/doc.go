// Package audit records security-relevant events, primarily the
// tenant-field tampering detected by the guard package. Caller
// identity, request path, and client IP are filled from context via
// configurable extractors; a missing identity is recorded as "guest".
package audit
