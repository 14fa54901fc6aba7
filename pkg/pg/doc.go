// Package pg backs the tenant registry with PostgreSQL via pgx/v5:
// resilient pool connect, goose schema migrations for the registry
// tables, and the Repository implementing the tenant lookup contract.
package pg
