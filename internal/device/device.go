// Package device derives the weak device fingerprint that binds a token to
// its issuing context.
//
// The fingerprint is a correlation aid, not a security boundary: an
// attacker who can spoof both the client address and the user agent
// defeats it. It narrows token reuse across contexts, nothing more.
package device

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a stable hex digest of the connection metadata.
// Absent inputs are treated as empty strings; identical inputs always
// produce identical output.
func Fingerprint(clientAddr, userAgent string) string {
	sum := sha256.Sum256([]byte(clientAddr + "\n" + userAgent))
	return hex.EncodeToString(sum[:])
}
