// Package bootstrap orchestrates the paired reconfiguration and
// restoration of dependent subsystems around a tenant's active period.
//
// An Orchestrator owns an ordered set of subsystem adapters (table
// naming, cache key prefix, storage path, session save path, log
// context, settings merge) and boots them when the tenant in scope
// changes. Boot is idempotent per tenant id, adapter failures are
// isolated and collected rather than aborting the cycle, and Shutdown
// reverses the adapters after announcing the end of the tenancy.
//
// BootForTenant and Sweep reproduce request-time isolation for batch
// and CLI work that has no HTTP host to identify against.
//
// An Orchestrator, like the Scope it reads from, belongs to exactly one
// unit of work. Sharing one across concurrent requests is a
// cross-tenant leak.
package bootstrap
