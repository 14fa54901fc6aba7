// Package logger builds slog loggers whose handlers inject
// request-scoped attributes (tenant id, caller identity) from context
// on every record.
package logger
