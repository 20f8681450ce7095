package gymauth

import (
	"context"
	"errors"
	"time"

	"github.com/gymops/gymauth/lockout"
	"github.com/gymops/gymauth/password"
)

// Login authenticates one credential pair against the named principal
// table and returns a signed token bound to the device fingerprint of ctx
// (see [WithClientIP], [WithUserAgent]).
//
// Order of checks: administrative status, failure-based lock, credential
// verification. A wrong password increments the failure counter and — at
// the threshold — sets the lock; a correct password clears both and, for
// legacy-mode accounts, migrates the password to a modern hash.
//
// Unknown usernames fail with [ErrInvalidCredentials], indistinguishable
// from a wrong password, so callers cannot enumerate accounts.
//
// The check-lock → verify → persist sequence is not atomic: two concurrent
// failures can read the same counter and persist the same increment,
// under-counting lockout triggers. The behavior matches the system this
// core fronts; an atomic conditional update belongs in the AccountStore
// implementation if a deployment needs it.
func (e *Engine) Login(ctx context.Context, kind AccountKind, username, rawPassword string) (string, error) {
	if e == nil || e.store == nil {
		return "", ErrEngineNotReady
	}
	if username == "" || rawPassword == "" {
		return "", ErrInvalidCredentials
	}

	now := time.Now()

	acct, err := e.store.FindByUsername(ctx, kind, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, AuditEvent{
				EventType:   "login_failure",
				AccountKind: string(kind),
				Username:    username,
				Error:       "unknown account",
			})
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if acct.Status == AccountDisabled {
		e.metricInc(MetricAccountDisabled)
		e.emitAudit(ctx, AuditEvent{
			EventType:   "login_rejected",
			AccountID:   acct.ID,
			AccountKind: string(acct.Kind),
			Username:    acct.Username,
			Error:       "account disabled",
		})
		return "", ErrAccountDisabled
	}

	if e.policy.IsLocked(acct.LockUntil, now) {
		e.metricInc(MetricAccountLocked)
		e.emitAudit(ctx, AuditEvent{
			EventType:   "login_rejected",
			AccountID:   acct.ID,
			AccountKind: string(acct.Kind),
			Username:    acct.Username,
			Error:       "account locked",
		})
		return "", ErrAccountLocked
	}

	if !e.hasher.VerifyWithFallback(rawPassword, acct.PasswordHash, acct.LegacyPassword) {
		return "", e.recordLoginFailure(ctx, acct, now)
	}

	return e.finishLogin(ctx, acct, rawPassword)
}

func (e *Engine) recordLoginFailure(ctx context.Context, acct *Account, now time.Time) error {
	acct.FailedLoginAttempts = e.policy.RecordFailure(acct.FailedLoginAttempts)
	locked := e.policy.ShouldLock(acct.FailedLoginAttempts)
	if locked {
		until := e.policy.LockUntil(now)
		acct.LockUntil = &until
	}

	if err := e.store.Update(ctx, acct); err != nil {
		return err
	}

	if locked {
		e.metricInc(MetricAccountLocked)
		e.emitAudit(ctx, AuditEvent{
			EventType:   "account_locked",
			AccountID:   acct.ID,
			AccountKind: string(acct.Kind),
			Username:    acct.Username,
			Error:       "failure threshold reached",
		})
		return ErrAccountLocked
	}

	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, AuditEvent{
		EventType:   "login_failure",
		AccountID:   acct.ID,
		AccountKind: string(acct.Kind),
		Username:    acct.Username,
		Error:       "wrong password",
	})
	return ErrInvalidCredentials
}

func (e *Engine) finishLogin(ctx context.Context, acct *Account, rawPassword string) (string, error) {
	dirty := false

	if password.NeedsMigration(acct.PasswordHash) {
		// Legacy verification succeeded; persist a modern hash of the
		// just-verified password. The legacy field is retained.
		newHash, err := e.hasher.Hash(rawPassword)
		if err != nil {
			return "", err
		}
		acct.PasswordHash = newHash
		dirty = true
		e.metricInc(MetricLegacyMigration)
		e.emitAudit(ctx, AuditEvent{
			EventType:   "password_migrated",
			AccountID:   acct.ID,
			AccountKind: string(acct.Kind),
			Username:    acct.Username,
			Success:     true,
		})
	} else if e.config.Password.UpgradeOnLogin && e.hasher.NeedsRehash(acct.PasswordHash) {
		newHash, err := e.hasher.Hash(rawPassword)
		if err != nil {
			return "", err
		}
		acct.PasswordHash = newHash
		dirty = true
		e.metricInc(MetricPasswordRehash)
	}

	if acct.FailedLoginAttempts != 0 || acct.LockUntil != nil {
		acct.FailedLoginAttempts, acct.LockUntil = lockout.Reset()
		dirty = true
	}

	if dirty {
		if err := e.store.Update(ctx, acct); err != nil {
			return "", err
		}
	}

	tok, err := e.tokens.Issue(
		acct.ID,
		acct.Username,
		string(acct.Kind),
		acct.Role,
		e.bindingFingerprint(ctx),
	)
	if err != nil {
		return "", err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditEvent{
		EventType:   "login_success",
		AccountID:   acct.ID,
		AccountKind: string(acct.Kind),
		Username:    acct.Username,
		Success:     true,
	})
	return tok, nil
}
