// Package rediscache provides the Redis-backed shared state of the API:
// the verified-identity cache and fixed-window request counters for rate
// limiting across instances.
package rediscache
