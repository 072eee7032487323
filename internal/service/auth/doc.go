// Package auth verifies provider access tokens, caches verified identities,
// signs the tokens issued by username sign-in and compares local passwords.
package auth
