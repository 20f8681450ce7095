package internaldefs

import (
	gymauth "github.com/gymops/gymauth"
)

// CounterDef binds an engine counter to its stable exported name.
type CounterDef struct {
	ID   gymauth.MetricID
	Name string
	Help string
}

// CounterDefs enumerates every engine counter in export order. Both
// exporters iterate this slice so they always agree on names.
var CounterDefs = []CounterDef{
	{ID: gymauth.MetricLoginSuccess, Name: "gymauth_login_success_total", Help: "Successful login attempts."},
	{ID: gymauth.MetricLoginFailure, Name: "gymauth_login_failure_total", Help: "Failed login attempts."},
	{ID: gymauth.MetricAccountLocked, Name: "gymauth_account_locked_total", Help: "Logins rejected by the failure-based lock, including the attempt that set it."},
	{ID: gymauth.MetricAccountDisabled, Name: "gymauth_account_disabled_total", Help: "Logins rejected because the account is administratively disabled."},
	{ID: gymauth.MetricLegacyMigration, Name: "gymauth_legacy_migration_total", Help: "Legacy plaintext passwords migrated to modern hashes on login."},
	{ID: gymauth.MetricPasswordRehash, Name: "gymauth_password_rehash_total", Help: "Password hashes upgraded to current cost parameters on login."},
	{ID: gymauth.MetricValidateSuccess, Name: "gymauth_validate_success_total", Help: "Tokens accepted by validation."},
	{ID: gymauth.MetricTokenRejected, Name: "gymauth_token_rejected_total", Help: "Tokens rejected by validation."},
	{ID: gymauth.MetricAccountCreated, Name: "gymauth_account_created_total", Help: "Accounts created."},
	{ID: gymauth.MetricPasswordReset, Name: "gymauth_password_reset_total", Help: "Password reset operations."},
}

// AuditDroppedName is the counter for audit events lost to dispatcher
// backpressure. It lives outside the engine's metric table, so both
// exporters name it here.
const AuditDroppedName = "gymauth_audit_dropped_total"

// AuditDroppedHelp documents [AuditDroppedName].
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
