package gymauth

import "context"

// Validate checks a bearer token against the signing secret, its expiry,
// and — when ctx carries connection metadata — the embedded device
// fingerprint, and resolves the principal attributes it was issued with.
//
// Every rejection is [ErrTokenInvalid]; the cause is deliberately uniform
// so the token format cannot be probed through error responses. Validation
// is pure in-memory computation: no store lookup, no I/O.
func (e *Engine) Validate(ctx context.Context, tokenStr string) (*Principal, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Validate(tokenStr, e.bindingFingerprint(ctx))
	if err != nil {
		e.metricInc(MetricTokenRejected)
		e.emitAudit(ctx, AuditEvent{
			EventType: "token_rejected",
		})
		return nil, ErrTokenInvalid
	}

	e.metricInc(MetricValidateSuccess)
	return &Principal{
		AccountID: claims.PrincipalID(),
		Kind:      AccountKind(claims.AccountKind),
		Username:  claims.Username,
		Role:      claims.Role,
	}, nil
}
