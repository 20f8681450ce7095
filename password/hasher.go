package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	algorithmID = "argon2id"
	hashPrefix  = "$" + algorithmID + "$"

	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
)

// ErrBlankPassword is returned by [Hasher.Hash] when the raw password is
// empty or whitespace-only. Verification never returns it: a blank input
// simply fails to verify.
var ErrBlankPassword = errors.New("password must not be blank")

// Config holds the Argon2id cost parameters. Zero fields are filled with
// the package defaults by [New].
type Config struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func defaultConfig() Config {
	return Config{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (c Config) withDefaults() Config {
	d := defaultConfig()
	if c.Memory == 0 {
		c.Memory = d.Memory
	}
	if c.Time == 0 {
		c.Time = d.Time
	}
	if c.Parallelism == 0 {
		c.Parallelism = d.Parallelism
	}
	if c.SaltLength == 0 {
		c.SaltLength = d.SaltLength
	}
	if c.KeyLength == 0 {
		c.KeyLength = d.KeyLength
	}
	return c
}

// Hasher hashes and verifies passwords with Argon2id. Instances are
// immutable after construction and safe for concurrent use.
type Hasher struct {
	config Config
}

// New validates cfg (after filling zero fields with defaults) and returns
// a ready Hasher.
func New(cfg Config) (*Hasher, error) {
	cfg = cfg.withDefaults()
	switch {
	case cfg.Memory < minMemoryKB:
		return nil, errors.New("password memory must be >= 8192 KB")
	case cfg.Time < minTimeCost:
		return nil, errors.New("password time must be >= 1")
	case cfg.Parallelism < minParallelism:
		return nil, errors.New("password parallelism must be >= 1")
	case cfg.SaltLength < minSaltLength:
		return nil, errors.New("password salt length must be >= 16")
	case cfg.KeyLength < minKeyLength:
		return nil, errors.New("password key length must be >= 16")
	}
	return &Hasher{config: cfg}, nil
}

// Hash derives a PHC-encoded Argon2id hash of raw with a fresh random salt.
// It fails with [ErrBlankPassword] when raw is empty or whitespace-only.
func (h *Hasher) Hash(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrBlankPassword
	}

	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey(
		[]byte(raw),
		salt,
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.config.Memory,
		h.config.Time,
		h.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether raw matches the PHC-encoded hash. It is total:
// blank inputs and malformed hashes verify as false, never as an error.
// The digest comparison is constant-time.
func (h *Hasher) Verify(raw, encoded string) bool {
	if raw == "" {
		return false
	}
	parsed, err := parsePHC(encoded)
	if err != nil {
		return false
	}

	computed := argon2.IDKey(
		[]byte(raw),
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		uint32(len(parsed.key)),
	)

	return subtle.ConstantTimeCompare(computed, parsed.key) == 1
}

// NeedsRehash reports whether encoded was produced with weaker parameters
// than the Hasher's current configuration, so the caller can re-hash on the
// next successful verification. Malformed hashes report false; they are the
// legacy bridge's concern, not a rehash candidate.
func (h *Hasher) NeedsRehash(encoded string) bool {
	parsed, err := parsePHC(encoded)
	if err != nil {
		return false
	}
	return h.config.Memory > parsed.memory ||
		h.config.Time > parsed.time ||
		h.config.Parallelism > parsed.parallelism ||
		h.config.KeyLength != uint32(len(parsed.key))
}

// IsHash reports whether value is structurally a modern hash: correct
// algorithm tag and a fully parseable PHC string. It never panics on
// arbitrary input.
func IsHash(value string) bool {
	if !strings.HasPrefix(value, hashPrefix) {
		return false
	}
	_, err := parsePHC(value)
	return err == nil
}

type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func parsePHC(encoded string) (*phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errors.New("missing argon2 version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	var p phc
	if err := parseCosts(parts[3], &p); err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil || uint32(len(salt)) < minSaltLength {
		return nil, errors.New("invalid salt")
	}
	key, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return nil, errors.New("invalid digest")
	}

	p.salt = salt
	p.key = key
	return &p, nil
}

func parseCosts(part string, out *phc) error {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return errors.New("invalid parameter format")
	}

	var haveM, haveT, haveP bool
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return errors.New("invalid parameter entry")
		}
		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n < uint64(minMemoryKB) {
				return errors.New("invalid memory parameter")
			}
			out.memory = uint32(n)
			haveM = true
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n < uint64(minTimeCost) {
				return errors.New("invalid time parameter")
			}
			out.time = uint32(n)
			haveT = true
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || n < uint64(minParallelism) {
				return errors.New("invalid parallelism parameter")
			}
			out.parallelism = uint8(n)
			haveP = true
		default:
			return errors.New("unsupported parameter")
		}
	}
	if !haveM || !haveT || !haveP {
		return errors.New("missing parameters")
	}
	return nil
}
