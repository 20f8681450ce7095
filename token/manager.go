package token

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrSecretMissing is returned by NewManager when no signing secret is
	// configured. This is a startup condition, never a per-request one.
	ErrSecretMissing = errors.New("signing secret unavailable")

	// ErrInvalid is the uniform rejection returned by Validate. The cause
	// (malformed, unsigned, expired, fingerprint mismatch) is deliberately
	// not distinguishable by the caller.
	ErrInvalid = errors.New("invalid token")
)

// Config holds the signing secret and token lifetime. Instances are
// treated as immutable after NewManager.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	Leeway time.Duration
}

// Claims is the payload carried by every issued token. The principal id
// rides in the registered subject claim.
type Claims struct {
	Username    string `json:"uname,omitempty"`
	Role        string `json:"role,omitempty"`
	AccountKind string `json:"akd,omitempty"`
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// PrincipalID returns the account identifier the token was issued for.
func (c *Claims) PrincipalID() string {
	return c.Subject
}

// Manager issues and validates tokens. Safe for unlimited concurrent use;
// validation is pure in-memory computation with no I/O.
type Manager struct {
	config Config
	now    func() time.Time
}

// NewManager validates cfg and returns a ready Manager. A missing secret
// fails with [ErrSecretMissing].
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSecretMissing
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg, now: time.Now}, nil
}

// Issue signs a token embedding the principal attributes and fingerprint,
// valid from now until now+TTL.
func (m *Manager) Issue(principalID, username, accountKind, role, fingerprint string) (string, error) {
	now := m.now()
	claims := Claims{
		Username:    username,
		Role:        role,
		AccountKind: accountKind,
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// Validate checks signature, expiry, and — when expectedFingerprint is
// non-empty — the embedded fingerprint, in constant time. An empty
// expectedFingerprint skips the fingerprint comparison so callers that
// cannot compute one still get the cryptographic checks. Every rejection
// is [ErrInvalid].
func (m *Manager) Validate(tokenStr, expectedFingerprint string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrInvalid
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(
		tokenStr,
		&Claims{},
		func(*jwt.Token) (interface{}, error) { return m.config.Secret, nil },
	)
	if err != nil {
		return nil, ErrInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalid
	}
	if expectedFingerprint != "" {
		if subtle.ConstantTimeCompare([]byte(expectedFingerprint), []byte(claims.Fingerprint)) != 1 {
			return nil, ErrInvalid
		}
	}
	return claims, nil
}
