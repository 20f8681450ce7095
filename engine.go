package gymauth

import (
	"context"
	"time"

	internalaudit "github.com/gymops/gymauth/internal/audit"
	internalmetrics "github.com/gymops/gymauth/internal/metrics"
	"github.com/gymops/gymauth/internal/device"
	"github.com/gymops/gymauth/lockout"
	"github.com/gymops/gymauth/password"
	"github.com/gymops/gymauth/token"
)

// Engine is the authentication core. Build one through [Builder.Build];
// all methods are then safe for concurrent use.
type Engine struct {
	config  Config
	store   AccountStore
	hasher  *password.Hasher
	tokens  *token.Manager
	policy  lockout.Policy
	audit   *internalaudit.Dispatcher
	metrics *internalmetrics.Metrics
}

// Close flushes and stops the audit dispatcher. Safe on a nil engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e.audit == nil {
		return
	}
	event.Timestamp = time.Now()
	if event.IP == "" {
		event.IP = clientIPFromContext(ctx)
	}
	e.audit.Emit(ctx, event)
}

// bindingFingerprint derives the device fingerprint for the current
// request context. It returns "" when device binding is disabled or when
// no connection metadata is present, so validation skips the comparison
// instead of binding every anonymous context to one constant digest.
func (e *Engine) bindingFingerprint(ctx context.Context) string {
	if !e.config.DeviceBinding.Enabled {
		return ""
	}
	ip := clientIPFromContext(ctx)
	ua := userAgentFromContext(ctx)
	if ip == "" && ua == "" {
		return ""
	}
	return device.Fingerprint(ip, ua)
}
