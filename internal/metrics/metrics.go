package metrics

import "sync/atomic"

// MetricID identifies a single counter slot.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricAccountLocked
	MetricAccountDisabled
	MetricLegacyMigration
	MetricPasswordRehash
	MetricValidateSuccess
	MetricTokenRejected
	MetricAccountCreated
	MetricPasswordReset

	MetricIDCount
)

// Config controls metric collection. When Enabled is false all operations
// are no-ops and Snapshot returns empty maps.
type Config struct {
	Enabled bool
}

// Metrics holds lock-free counters incremented atomically on the hot path.
type Metrics struct {
	enabled  bool
	counters [MetricIDCount]atomic.Uint64
}

func New(cfg Config) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments the counter. Nil-safe and disabled-safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Counters map[MetricID]uint64
}

func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{Counters: make(map[MetricID]uint64)}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
