// Package events provides a small non-blocking in-memory pub/sub bus
// used to announce tenancy lifecycle transitions to interested
// listeners without coupling them to the orchestrator.
package events
