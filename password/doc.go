// Package password implements password hashing, verification, and the
// legacy-plaintext fallback path used during hash migration.
//
// # Output format
//
// Modern hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Each call to [Hasher.Hash] draws a fresh random salt, so hashing the same
// input twice yields different strings; both verify against the input.
//
// # Legacy mode
//
// Accounts created before hashing was introduced carry a plaintext password
// field instead of a recognizable PHC hash. [Hasher.VerifyWithFallback]
// compares against that field when [IsHash] rejects the stored value, and
// [NeedsMigration] tells the caller to persist a fresh hash after the next
// successful verification. Migration never clears the legacy field.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Lockout policy, attempt
// counting, and persistence belong to the engine and its account store.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other gymauth package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
