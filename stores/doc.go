// Package stores ships reference implementations of the
// gymauth.AccountStore contract: an in-memory store for tests and
// examples, and a Redis-backed store for small deployments that keep
// account rows in a key-value cache instead of a relational table.
//
// Production systems with their own account tables implement
// gymauth.AccountStore directly; nothing in the engine depends on this
// package.
package stores
