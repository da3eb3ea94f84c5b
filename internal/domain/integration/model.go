package integration

import "time"

type Health string

const (
	HealthUnknown  Health = "unknown"
	HealthHealthy  Health = "healthy"
	HealthDegraded Health = "degraded"
	HealthFailed   Health = "failed"
	HealthDisabled Health = "disabled"
)

const (
	// DefaultDegradedThreshold is the consecutive-failure count that
	// demotes a healthy provider to degraded.
	DefaultDegradedThreshold = 2
	// DefaultFailedThreshold demotes a degraded provider to failed.
	DefaultFailedThreshold = 5
	// DefaultStaleThreshold marks data as stale when the last
	// successful sync is older than this.
	DefaultStaleThreshold = 30 * time.Minute
)

// Status tracks one provider's operational state. Transitions are
// driven only by sync outcomes and manual overrides, via the pure
// functions in this package.
type Status struct {
	Provider            string
	Health              Health
	ConsecutiveFailures int
	LastAttemptAt       *time.Time
	LastSuccessAt       *time.Time
	LastFailureAt       *time.Time
	LastError           string
	StaleThreshold      time.Duration
	ManuallyDisabled    bool
}

func NewStatus(provider string, staleThreshold time.Duration) Status {
	if staleThreshold <= 0 {
		staleThreshold = DefaultStaleThreshold
	}
	return Status{
		Provider:       provider,
		Health:         HealthUnknown,
		StaleThreshold: staleThreshold,
	}
}

// Stale is derived from the last successful sync alone: a provider that
// keeps succeeding but has not run recently is still stale.
func (s Status) Stale(now time.Time) bool {
	if s.LastSuccessAt == nil {
		return true
	}
	return now.Sub(*s.LastSuccessAt) > s.StaleThreshold
}

// Usable reports whether the prediction engine may consume this
// provider's snapshots at all (staleness is checked separately).
func (s Status) Usable() bool {
	switch s.Health {
	case HealthHealthy, HealthDegraded:
		return true
	default:
		return false
	}
}
