package token

import "github.com/golang-jwt/jwt/v5"

// The Peek accessors read a single claim out of a token WITHOUT verifying
// signature or expiry. They exist for call sites that probe claims before
// (or instead of) validating — audit enrichment, log correlation. Each is
// total over arbitrary byte strings: malformed input reports absent, never
// a panic. Nothing read through them is authenticated.

// PeekPrincipalID reports the subject claim of an unverified token.
func PeekPrincipalID(tokenStr string) (string, bool) {
	c, ok := peek(tokenStr)
	if !ok || c.Subject == "" {
		return "", false
	}
	return c.Subject, true
}

// PeekUsername reports the username claim of an unverified token.
func PeekUsername(tokenStr string) (string, bool) {
	c, ok := peek(tokenStr)
	if !ok || c.Username == "" {
		return "", false
	}
	return c.Username, true
}

// PeekRole reports the role claim of an unverified token.
func PeekRole(tokenStr string) (string, bool) {
	c, ok := peek(tokenStr)
	if !ok || c.Role == "" {
		return "", false
	}
	return c.Role, true
}

// PeekAccountKind reports the account-kind claim of an unverified token.
func PeekAccountKind(tokenStr string) (string, bool) {
	c, ok := peek(tokenStr)
	if !ok || c.AccountKind == "" {
		return "", false
	}
	return c.AccountKind, true
}

func peek(tokenStr string) (*Claims, bool) {
	if tokenStr == "" {
		return nil, false
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, false
	}
	return claims, true
}
