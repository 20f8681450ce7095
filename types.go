package gymauth

import (
	"context"
	"io"
	"time"

	internalaudit "github.com/gymops/gymauth/internal/audit"
	internalmetrics "github.com/gymops/gymauth/internal/metrics"
)

// AccountKind discriminates which principal table an account belongs to.
// The system has multiple disjoint account tables sharing one token
// format, so every lookup and every issued token carries the kind.
type AccountKind string

const (
	// KindAdmin is the back-office administrator table.
	KindAdmin AccountKind = "admin"
	// KindCoach is the coaching staff table.
	KindCoach AccountKind = "coach"
	// KindMember is the gym member table.
	KindMember AccountKind = "member"
	// KindUser is the generic user table.
	KindUser AccountKind = "user"
)

// AccountStatus is the administrative lock flag, independent of the
// failure-based lock. It is permanent until explicitly cleared by a
// management operation outside this core.
type AccountStatus uint8

const (
	// AccountActive allows authentication when credentials verify.
	AccountActive AccountStatus = iota
	// AccountDisabled rejects authentication regardless of credentials.
	AccountDisabled
)

// Account is the slice of a principal row this core reads and updates.
// The row is owned by the caller's persistence layer.
//
// PasswordHash holds a modern PHC-encoded hash, or is empty/unrecognizable
// for accounts still in legacy mode; LegacyPassword then holds the retained
// plaintext until migration. A usable account never has both absent.
type Account struct {
	ID             string
	Kind           AccountKind
	Username       string
	PasswordHash   string
	LegacyPassword string
	Role           string

	FailedLoginAttempts int
	LockUntil           *time.Time
	Status              AccountStatus
}

// Principal is the authenticated identity resolved from a valid token.
type Principal struct {
	AccountID string
	Kind      AccountKind
	Username  string
	Role      string
}

// AccountStore is the persistence contract callers implement to integrate
// gymauth with their account tables. Username lookup is case-sensitive and
// scoped to one kind. FindByUsername returns [ErrAccountNotFound] for a
// missing row; Create returns [ErrAccountExists] for a duplicate
// (kind, username) pair.
type AccountStore interface {
	FindByUsername(ctx context.Context, kind AccountKind, username string) (*Account, error)
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
}

// CreateAccountInput is the input for [Engine.CreateAccount]. Password is
// hashed immediately; the plaintext is never stored for new accounts.
type CreateAccountInput struct {
	Kind     AccountKind
	Username string
	Password string
	Role     string
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	MetricLoginSuccess    = internalmetrics.MetricLoginSuccess
	MetricLoginFailure    = internalmetrics.MetricLoginFailure
	MetricAccountLocked   = internalmetrics.MetricAccountLocked
	MetricAccountDisabled = internalmetrics.MetricAccountDisabled
	MetricLegacyMigration = internalmetrics.MetricLegacyMigration
	MetricPasswordRehash  = internalmetrics.MetricPasswordRehash
	MetricValidateSuccess = internalmetrics.MetricValidateSuccess
	MetricTokenRejected   = internalmetrics.MetricTokenRejected
	MetricAccountCreated  = internalmetrics.MetricAccountCreated
	MetricPasswordReset   = internalmetrics.MetricPasswordReset
)

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot
