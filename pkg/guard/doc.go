// Package guard detects and strips client-supplied tenant-identifying
// fields that disagree with the server-resolved tenant (IDOR attempts).
// Mismatched fields are removed from the live request data, never just
// flagged, and every removal emits a security audit event. A configurable
// bypass predicate exempts superadmin requests.
package guard
