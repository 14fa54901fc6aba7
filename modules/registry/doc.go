// Package registry exposes a read-only HTTP API over the tenant
// repository for operator tooling: listing active tenants, fetching a
// tenant by ID, and resolving a tenant by subdomain or custom domain.
package registry
