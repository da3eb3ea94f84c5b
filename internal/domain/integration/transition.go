package integration

import "time"

// ApplySuccess records a successful sync: failure count resets and any
// non-disabled state returns to healthy. Disabled is sticky; the
// timestamps still advance so staleness stays accurate.
func ApplySuccess(s Status, at time.Time) Status {
	at = at.UTC()
	s.LastAttemptAt = &at
	s.LastSuccessAt = &at
	s.ConsecutiveFailures = 0
	s.LastError = ""
	if s.ManuallyDisabled {
		return s
	}
	s.Health = HealthHealthy
	return s
}

// ApplyFailure records a failed sync and demotes health once the
// consecutive-failure count crosses the thresholds. Disabled stays
// disabled.
func ApplyFailure(s Status, at time.Time, cause error, degradedThreshold, failedThreshold int) Status {
	if degradedThreshold < 1 {
		degradedThreshold = DefaultDegradedThreshold
	}
	if failedThreshold <= degradedThreshold {
		failedThreshold = DefaultFailedThreshold
	}

	at = at.UTC()
	s.LastAttemptAt = &at
	s.LastFailureAt = &at
	s.ConsecutiveFailures++
	if cause != nil {
		s.LastError = cause.Error()
	}
	if s.ManuallyDisabled {
		return s
	}

	switch {
	case s.ConsecutiveFailures >= failedThreshold:
		s.Health = HealthFailed
	case s.ConsecutiveFailures >= degradedThreshold:
		s.Health = HealthDegraded
	}
	return s
}

// MarkStaleDegraded demotes a healthy provider whose data has gone
// stale. Failure counts are untouched; a fresh success restores health.
func MarkStaleDegraded(s Status, now time.Time) Status {
	if s.ManuallyDisabled || s.Health != HealthHealthy {
		return s
	}
	if s.Stale(now) {
		s.Health = HealthDegraded
	}
	return s
}

// Disable is a manual override. A disabled provider never transitions
// out on its own; only Enable clears it.
func Disable(s Status) Status {
	s.ManuallyDisabled = true
	s.Health = HealthDisabled
	return s
}

// Enable clears a manual disable. Health returns to unknown until the
// next sync outcome speaks.
func Enable(s Status) Status {
	if !s.ManuallyDisabled {
		return s
	}
	s.ManuallyDisabled = false
	s.Health = HealthUnknown
	s.ConsecutiveFailures = 0
	return s
}
