package gymauth

import "time"

// Config is the engine configuration tree. Instances are cloned by
// [Builder.WithConfig] and treated as immutable after Build.
type Config struct {
	Token         TokenConfig
	Password      PasswordConfig
	Lockout       LockoutConfig
	DeviceBinding DeviceBindingConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

// TokenConfig configures the token service. Secret is the process-wide
// HS256 signing key and has no default — Build fails without it.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	Leeway time.Duration
}

// PasswordConfig holds the Argon2id cost parameters. Zero fields fall back
// to the password package defaults. UpgradeOnLogin re-hashes a verifying
// password whose stored hash used weaker parameters.
type PasswordConfig struct {
	Memory         uint32 // KiB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	UpgradeOnLogin bool
}

// LockoutConfig tunes the brute-force lockout policy. Zero fields fall
// back to the lockout package defaults (5 attempts, 30 minutes).
type LockoutConfig struct {
	Threshold int
	Duration  time.Duration
}

// DeviceBindingConfig controls whether issued tokens embed a device
// fingerprint derived from the client address and user agent. When
// disabled, tokens carry no fingerprint and validation never compares one.
type DeviceBindingConfig struct {
	Enabled bool
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL: 24 * time.Hour,
		},
		Password: PasswordConfig{
			UpgradeOnLogin: true,
		},
		DeviceBinding: DeviceBindingConfig{
			Enabled: true,
		},
		Audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Token.Secret != nil {
		out.Token.Secret = make([]byte, len(cfg.Token.Secret))
		copy(out.Token.Secret, cfg.Token.Secret)
	}
	return out
}
