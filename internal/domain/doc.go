// Package domain contains the entities of the book service (identities, books,
// library entries, profiles, local users) and the error variants that carry an
// HTTP response shape. All entities are owned by the External Service; this
// package only describes their shape and the full-name derivation rule.
package domain
