// Package middleware exposes the HTTP request gate built on top of
// gymauth.Engine validation.
//
// # Gate behavior
//
// For every request, [Gate] short-circuits CORS pre-flight (OPTIONS)
// probes, skips routes the caller marked auth-exempt, extracts a bearer
// token from the custom Token header or the standard Authorization header,
// validates it through Engine.Validate, and either injects the resolved
// [gymauth.Principal] into the request context or answers a uniform 401
// JSON body without invoking the downstream handler.
//
// Route exemptions are explicit per-route metadata ([ExemptSet]) declared
// alongside route registration — no annotation scanning, no reflection.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Validate, and no account mutation ever happens here.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly.
//   - Leak validation failure causes or internal errors to the client.
//   - Make authorization decisions beyond pass/reject.
package middleware
