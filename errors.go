package gymauth

import (
	"errors"

	"github.com/gymops/gymauth/token"
)

var (
	// ErrEngineNotReady is returned when an Engine method is called on a
	// nil or incompletely built engine.
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrInvalidCredentials is the generic credential rejection. It covers
	// both a wrong password and an unknown username so callers cannot
	// enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked rejects authentication while the failure-based lock
	// is active, regardless of credential correctness. Distinct from
	// ErrInvalidCredentials: the account holder benefits from knowing to
	// wait.
	ErrAccountLocked = errors.New("account locked")

	// ErrAccountDisabled rejects authentication while the administrative
	// status flag is set. Only a management operation outside this core
	// clears it.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrAccountNotFound is the AccountStore contract for a missing row.
	// Login masks it behind ErrInvalidCredentials.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is the AccountStore contract for a duplicate
	// (kind, username) pair on Create.
	ErrAccountExists = errors.New("account already exists")

	// ErrTokenInvalid is the uniform rejection for expired, tampered,
	// fingerprint-mismatched, or malformed tokens. The cause is never
	// surfaced to the client.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrBlankPassword rejects an empty or whitespace-only password where
	// one is required (registration, reset).
	ErrBlankPassword = errors.New("password must not be blank")

	// ErrSigningSecretMissing is returned by [Builder.Build] when no token
	// signing secret is configured. Fatal at startup, never per-request.
	ErrSigningSecretMissing = token.ErrSecretMissing

	// ErrAccountStoreRequired is returned by [Builder.Build] when no
	// AccountStore was supplied.
	ErrAccountStoreRequired = errors.New("account store is required")
)
