package integration

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func TestApplySuccess(t *testing.T) {
	s := NewStatus("statsfeed-xg", 0)
	s.ConsecutiveFailures = 3
	s.Health = HealthDegraded
	s.LastError = "boom"

	s = ApplySuccess(s, testNow)

	if s.Health != HealthHealthy {
		t.Fatalf("Health = %s, want healthy", s.Health)
	}
	if s.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", s.ConsecutiveFailures)
	}
	if s.LastError != "" {
		t.Fatalf("LastError = %q, want empty", s.LastError)
	}
	if s.LastSuccessAt == nil || !s.LastSuccessAt.Equal(testNow) {
		t.Fatalf("LastSuccessAt = %v, want %v", s.LastSuccessAt, testNow)
	}
}

func TestApplyFailureThresholds(t *testing.T) {
	s := NewStatus("oddsboard", 0)
	s.Health = HealthHealthy
	cause := errors.New("connection refused")

	s = ApplyFailure(s, testNow, cause, DefaultDegradedThreshold, DefaultFailedThreshold)
	if s.Health != HealthHealthy {
		t.Fatalf("after 1 failure Health = %s, want healthy", s.Health)
	}

	s = ApplyFailure(s, testNow, cause, DefaultDegradedThreshold, DefaultFailedThreshold)
	if s.Health != HealthDegraded {
		t.Fatalf("after 2 failures Health = %s, want degraded", s.Health)
	}

	for i := 0; i < 3; i++ {
		s = ApplyFailure(s, testNow, cause, DefaultDegradedThreshold, DefaultFailedThreshold)
	}
	if s.Health != HealthFailed {
		t.Fatalf("after 5 failures Health = %s, want failed", s.Health)
	}
	if s.ConsecutiveFailures != 5 {
		t.Fatalf("ConsecutiveFailures = %d, want 5", s.ConsecutiveFailures)
	}
	if s.LastError != "connection refused" {
		t.Fatalf("LastError = %q", s.LastError)
	}
}

func TestSuccessAfterFailuresRestoresHealthy(t *testing.T) {
	s := NewStatus("squadwatch", 0)
	for i := 0; i < 5; i++ {
		s = ApplyFailure(s, testNow, errors.New("x"), DefaultDegradedThreshold, DefaultFailedThreshold)
	}
	if s.Health != HealthFailed {
		t.Fatalf("Health = %s, want failed", s.Health)
	}

	s = ApplySuccess(s, testNow.Add(time.Minute))
	if s.Health != HealthHealthy {
		t.Fatalf("Health = %s, want healthy after success", s.Health)
	}
	if s.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", s.ConsecutiveFailures)
	}
}

func TestDisabledIsSticky(t *testing.T) {
	s := NewStatus("statsfeed-xg", 0)
	s = Disable(s)

	if s.Health != HealthDisabled {
		t.Fatalf("Health = %s, want disabled", s.Health)
	}

	s = ApplySuccess(s, testNow)
	if s.Health != HealthDisabled {
		t.Fatalf("Health after success = %s, want disabled", s.Health)
	}
	if s.LastSuccessAt == nil {
		t.Fatal("LastSuccessAt not advanced while disabled")
	}

	s = ApplyFailure(s, testNow, errors.New("x"), DefaultDegradedThreshold, DefaultFailedThreshold)
	if s.Health != HealthDisabled {
		t.Fatalf("Health after failure = %s, want disabled", s.Health)
	}

	s = Enable(s)
	if s.Health != HealthUnknown {
		t.Fatalf("Health after enable = %s, want unknown", s.Health)
	}
	if s.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after enable", s.ConsecutiveFailures)
	}
}

func TestEnableWithoutDisableIsNoop(t *testing.T) {
	s := NewStatus("oddsboard", 0)
	s.Health = HealthHealthy

	s = Enable(s)
	if s.Health != HealthHealthy {
		t.Fatalf("Health = %s, want healthy untouched", s.Health)
	}
}

func TestMarkStaleDegraded(t *testing.T) {
	s := NewStatus("statsfeed-xg", 10*time.Minute)
	old := testNow.Add(-time.Hour)
	s.LastSuccessAt = &old
	s.Health = HealthHealthy

	s = MarkStaleDegraded(s, testNow)
	if s.Health != HealthDegraded {
		t.Fatalf("Health = %s, want degraded when stale", s.Health)
	}

	fresh := NewStatus("statsfeed-xg", 10*time.Minute)
	recent := testNow.Add(-time.Minute)
	fresh.LastSuccessAt = &recent
	fresh.Health = HealthHealthy

	fresh = MarkStaleDegraded(fresh, testNow)
	if fresh.Health != HealthHealthy {
		t.Fatalf("Health = %s, want healthy when fresh", fresh.Health)
	}
}

func TestStale(t *testing.T) {
	s := NewStatus("oddsboard", 30*time.Minute)
	if !s.Stale(testNow) {
		t.Fatal("status with no success must be stale")
	}

	recent := testNow.Add(-10 * time.Minute)
	s.LastSuccessAt = &recent
	if s.Stale(testNow) {
		t.Fatal("10m old success within 30m threshold must not be stale")
	}

	old := testNow.Add(-31 * time.Minute)
	s.LastSuccessAt = &old
	if !s.Stale(testNow) {
		t.Fatal("31m old success past 30m threshold must be stale")
	}
}

func TestUsable(t *testing.T) {
	tests := []struct {
		health Health
		want   bool
	}{
		{HealthHealthy, true},
		{HealthDegraded, true},
		{HealthUnknown, false},
		{HealthFailed, false},
		{HealthDisabled, false},
	}

	for _, tc := range tests {
		s := Status{Health: tc.health}
		if got := s.Usable(); got != tc.want {
			t.Fatalf("Usable(%s) = %t, want %t", tc.health, got, tc.want)
		}
	}
}
