// Package gymauth provides the authentication and session-security core for
// a gym-management backend: password verification with legacy-plaintext
// migration, brute-force lockout, issuance and validation of self-contained
// signed tokens bound to a device fingerprint, and a request-gating HTTP
// middleware.
//
// The system has several disjoint principal tables (admin, coach, member,
// generic user) that share one token format; an account-kind discriminator
// keeps them apart without duplicating the token service per table.
//
// # Architecture boundaries
//
// gymauth is the public surface. It exposes [Engine], [Builder], [Config],
// the [Account] and [Principal] value types, and the [AccountStore]
// collaborator contract. Persistence is the caller's concern: the engine
// consumes an account-lookup/update interface and produces a binding
// decision (principal attributes or a sentinel rejection) that the
// surrounding request pipeline enforces. Coordination code lives under
// internal/ and is never exported.
//
// # Concurrency
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build]. Token validation is pure in-memory computation and
// completes in bounded time. The only shared mutable state is the account
// row itself; the engine treats check-lock → verify → persist as one
// logical operation but does not provide atomicity across it — concurrent
// failed logins against the same account can under-count (see
// [Engine.Login]).
//
// # What this package must NOT do
//
//   - Implement or assume a storage backend (reference stores live in stores/).
//   - Evaluate permissions — the role is an opaque label carried in the token.
//   - Distinguish token-rejection causes to callers.
package gymauth
