package gymauth

import (
	"errors"

	internalaudit "github.com/gymops/gymauth/internal/audit"
	internalmetrics "github.com/gymops/gymauth/internal/metrics"
	"github.com/gymops/gymauth/lockout"
	"github.com/gymops/gymauth/password"
	"github.com/gymops/gymauth/token"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// [Builder.Build]; no I/O happens before then.
type Builder struct {
	config    Config
	store     AccountStore
	auditSink AuditSink
	built     bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration tree.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSigningSecret sets the process-wide token signing key.
func (b *Builder) WithSigningSecret(secret []byte) *Builder {
	b.config.Token.Secret = secret
	return b
}

// WithAccountStore supplies the caller's account persistence.
func (b *Builder) WithAccountStore(store AccountStore) *Builder {
	b.store = store
	return b
}

// WithAuditSink enables audit dispatch into the given sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and returns a ready Engine. A missing
// signing secret fails with [ErrSigningSecretMissing]; a missing account
// store with [ErrAccountStoreRequired]. The builder is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, ErrAccountStoreRequired
	}

	hasher, err := password.New(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		Secret: b.config.Token.Secret,
		TTL:    b.config.Token.TTL,
		Issuer: b.config.Token.Issuer,
		Leeway: b.config.Token.Leeway,
	})
	if err != nil {
		return nil, err
	}

	b.built = true

	return &Engine{
		config: b.config,
		store:  b.store,
		hasher: hasher,
		tokens: tokens,
		policy: lockout.Policy{
			Threshold: b.config.Lockout.Threshold,
			Duration:  b.config.Lockout.Duration,
		},
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    b.config.Audit.Enabled,
			BufferSize: b.config.Audit.BufferSize,
			DropIfFull: b.config.Audit.DropIfFull,
		}, b.auditSink),
		metrics: internalmetrics.New(internalmetrics.Config{
			Enabled: b.config.Metrics.Enabled,
		}),
	}, nil
}
