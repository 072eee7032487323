// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Two implementations exist: the External
// Service's REST data API (platform/supabase) and a direct Postgres
// connection (platform/postgres).
package store
