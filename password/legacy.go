package password

import "crypto/subtle"

// NeedsMigration reports whether the stored modern-hash field requires
// migration: it is absent or not recognizable as a modern hash. After a
// successful legacy verification the caller is expected to hash the raw
// password and persist the result. The legacy plaintext field is retained
// so the backward-compat read path stays available.
func NeedsMigration(modernHash string) bool {
	return !IsHash(modernHash)
}

// VerifyWithFallback verifies raw against the modern hash when one is
// present and recognizable, ignoring the legacy field entirely. Otherwise
// it falls back to an exact constant-time comparison against the stored
// legacy plaintext. A blank raw password or blank legacy value never
// verifies.
func (h *Hasher) VerifyWithFallback(raw, modernHash, legacyPlain string) bool {
	if raw == "" {
		return false
	}
	if IsHash(modernHash) {
		return h.Verify(raw, modernHash)
	}
	if legacyPlain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(raw), []byte(legacyPlain)) == 1
}
