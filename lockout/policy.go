// Package lockout implements the brute-force lockout policy as pure
// functions over the two account fields that carry lockout state: the
// failed-attempt counter and the lock-expiry timestamp.
//
// The policy itself holds no state and performs no I/O; callers read the
// fields from their account row, consult the policy, and persist the
// result. That keeps the lock durable and multi-instance-safe without a
// shared in-process map.
package lockout

import "time"

const (
	// DefaultThreshold is the failed-attempt count that triggers a lock.
	DefaultThreshold = 5
	// DefaultDuration is how long a triggered lock lasts.
	DefaultDuration = 30 * time.Minute
)

// Policy decides when an account is locked and when a new failure should
// trigger a lock. The zero value uses the package defaults.
type Policy struct {
	Threshold int
	Duration  time.Duration
}

func (p Policy) threshold() int {
	if p.Threshold <= 0 {
		return DefaultThreshold
	}
	return p.Threshold
}

func (p Policy) duration() time.Duration {
	if p.Duration <= 0 {
		return DefaultDuration
	}
	return p.Duration
}

// IsLocked reports whether the account is currently locked: a non-nil
// lock-expiry timestamp strictly in the future. A nil or elapsed timestamp
// means the account may authenticate again.
func (p Policy) IsLocked(lockUntil *time.Time, now time.Time) bool {
	return lockUntil != nil && lockUntil.After(now)
}

// RecordFailure returns the attempt counter after one more failure.
// Negative input is treated as zero so the counter invariant holds.
func (p Policy) RecordFailure(attempts int) int {
	if attempts < 0 {
		attempts = 0
	}
	return attempts + 1
}

// ShouldLock reports whether the counter has reached the lock threshold.
func (p Policy) ShouldLock(attempts int) bool {
	return attempts >= p.threshold()
}

// LockUntil computes the lock-expiry timestamp for a lock triggered at now.
func (p Policy) LockUntil(now time.Time) time.Time {
	return now.Add(p.duration())
}

// Reset returns the cleared lockout state applied on any successful
// verification: zero attempts, no lock.
func Reset() (attempts int, lockUntil *time.Time) {
	return 0, nil
}
