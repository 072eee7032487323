// Package postgres provides PostgreSQL implementations of the store interfaces
// for deployments that reach the database directly instead of through the
// External Service's data API. It owns the schema (embedded goose migrations),
// connection setup and the mapping of driver errors to store errors.
package postgres
