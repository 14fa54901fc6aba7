// Package config loads environment-based configuration structs using
// struct tags, with one-time .env loading and per-type caching.
package config
