// Package token issues and validates the self-contained signed credential
// that substitutes for server-side session storage.
//
// # Wire format
//
// Tokens are HS256 JWTs — three dot-separated base64url segments — carrying
// the principal id, username, role, account kind, device fingerprint,
// issuance and expiry timestamps, and a unique jti. One process-wide secret
// signs every token regardless of which principal table the account lives
// in; the account kind claim keeps the tables disjoint.
//
// # Validation
//
// [Manager.Validate] rejects structurally malformed strings, bad
// signatures, expired tokens, and fingerprint mismatches. When the caller
// cannot compute a fingerprint it passes "" and the comparison is skipped;
// signature and expiry checks still apply. Callers that only need a claim
// out of an untrusted token use the Peek accessors, which are total over
// arbitrary byte strings and never authenticate anything.
//
// # What this package must NOT do
//
//   - Persist tokens or consult any store — validation is pure computation.
//   - Distinguish rejection causes to callers beyond a single error.
//   - Import any other gymauth package.
package token
