// Package mongo backs the tenant registry with MongoDB for deployments
// that keep tenant metadata in a document store.
package mongo
