package gymauth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/gymops/gymauth/lockout"
)

// CreateAccount registers a new principal in the named table with the
// password hashed immediately; new accounts never carry a legacy plaintext
// field. Duplicate (kind, username) pairs fail with [ErrAccountExists].
func (e *Engine) CreateAccount(ctx context.Context, input CreateAccountInput) (*Account, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, errors.New("username must not be blank")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, ErrBlankPassword
	}

	hash, err := e.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	acct := &Account{
		ID:           uuid.NewString(),
		Kind:         input.Kind,
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		Status:       AccountActive,
	}
	if err := e.store.Create(ctx, acct); err != nil {
		return nil, err
	}

	e.metricInc(MetricAccountCreated)
	e.emitAudit(ctx, AuditEvent{
		EventType:   "account_created",
		AccountID:   acct.ID,
		AccountKind: string(acct.Kind),
		Username:    acct.Username,
		Success:     true,
	})
	return acct, nil
}

// ResetPassword replaces the account's password hash and clears the
// failure counter and lock. Delivery of reset challenges (email, SMS) is
// outside this core; callers invoke this only after their own challenge
// has been satisfied.
func (e *Engine) ResetPassword(ctx context.Context, kind AccountKind, username, newPassword string) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if strings.TrimSpace(newPassword) == "" {
		return ErrBlankPassword
	}

	acct, err := e.store.FindByUsername(ctx, kind, username)
	if err != nil {
		return err
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	acct.PasswordHash = hash
	acct.FailedLoginAttempts, acct.LockUntil = lockout.Reset()

	if err := e.store.Update(ctx, acct); err != nil {
		return err
	}

	e.metricInc(MetricPasswordReset)
	e.emitAudit(ctx, AuditEvent{
		EventType:   "password_reset",
		AccountID:   acct.ID,
		AccountKind: string(acct.Kind),
		Username:    acct.Username,
		Success:     true,
	})
	return nil
}
