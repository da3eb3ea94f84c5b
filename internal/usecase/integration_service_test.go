package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/integration"
)

func TestIntegrationService_ProviderHealth_UnknownProvider(t *testing.T) {
	t.Parallel()

	service := NewIntegrationService(newStubIntegrationRepository(), IntegrationConfig{}, nil)

	status, err := service.ProviderHealth(context.Background(), "statsfeed-xg")
	if err != nil {
		t.Fatalf("ProviderHealth error: %v", err)
	}
	if status.Health != integration.HealthUnknown {
		t.Fatalf("Health = %s, want unknown for unseen provider", status.Health)
	}
	if status.Provider != "statsfeed-xg" {
		t.Fatalf("Provider = %s", status.Provider)
	}
}

func TestIntegrationService_RecordFailure_Thresholds(t *testing.T) {
	t.Parallel()

	repo := newStubIntegrationRepository()
	service := NewIntegrationService(repo, IntegrationConfig{}, nil)
	ctx := context.Background()
	cause := errors.New("connection refused")

	if _, err := service.RecordSuccess(ctx, "oddsboard"); err != nil {
		t.Fatalf("RecordSuccess error: %v", err)
	}

	status, err := service.RecordFailure(ctx, "oddsboard", cause)
	if err != nil {
		t.Fatalf("RecordFailure error: %v", err)
	}
	if status.Health != integration.HealthHealthy {
		t.Fatalf("after 1 failure Health = %s, want healthy", status.Health)
	}

	status, _ = service.RecordFailure(ctx, "oddsboard", cause)
	if status.Health != integration.HealthDegraded {
		t.Fatalf("after 2 failures Health = %s, want degraded", status.Health)
	}

	for i := 0; i < 3; i++ {
		status, _ = service.RecordFailure(ctx, "oddsboard", cause)
	}
	if status.Health != integration.HealthFailed {
		t.Fatalf("after 5 failures Health = %s, want failed", status.Health)
	}

	status, err = service.RecordSuccess(ctx, "oddsboard")
	if err != nil {
		t.Fatalf("RecordSuccess error: %v", err)
	}
	if status.Health != integration.HealthHealthy || status.ConsecutiveFailures != 0 {
		t.Fatalf("recovery status = %+v", status)
	}
}

func TestIntegrationService_DisableEnable(t *testing.T) {
	t.Parallel()

	repo := newStubIntegrationRepository()
	service := NewIntegrationService(repo, IntegrationConfig{}, nil)
	ctx := context.Background()

	status, err := service.Disable(ctx, "squadwatch")
	if err != nil {
		t.Fatalf("Disable error: %v", err)
	}
	if status.Health != integration.HealthDisabled {
		t.Fatalf("Health = %s, want disabled", status.Health)
	}

	status, _ = service.RecordSuccess(ctx, "squadwatch")
	if status.Health != integration.HealthDisabled {
		t.Fatalf("Health = %s, disabled must be sticky", status.Health)
	}

	status, err = service.Enable(ctx, "squadwatch")
	if err != nil {
		t.Fatalf("Enable error: %v", err)
	}
	if status.Health != integration.HealthUnknown {
		t.Fatalf("Health = %s, want unknown after enable", status.Health)
	}
}

func TestIntegrationService_UsableForPrediction(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	fresh := now.Add(-time.Minute)
	stale := now.Add(-time.Hour)

	healthy := integration.NewStatus("p-healthy", 30*time.Minute)
	healthy.Health = integration.HealthHealthy
	healthy.LastSuccessAt = &fresh

	staleHealthy := integration.NewStatus("p-stale", 30*time.Minute)
	staleHealthy.Health = integration.HealthHealthy
	staleHealthy.LastSuccessAt = &stale

	degraded := integration.NewStatus("p-degraded", 30*time.Minute)
	degraded.Health = integration.HealthDegraded
	degraded.LastSuccessAt = &fresh

	failed := integration.NewStatus("p-failed", 30*time.Minute)
	failed.Health = integration.HealthFailed
	failed.LastSuccessAt = &fresh

	disabled := integration.Disable(integration.NewStatus("p-disabled", 30*time.Minute))

	repo := newStubIntegrationRepository()
	ctx := context.Background()
	for _, status := range []integration.Status{healthy, staleHealthy, degraded, failed, disabled} {
		if err := repo.Upsert(ctx, status); err != nil {
			t.Fatalf("seed status: %v", err)
		}
	}

	service := NewIntegrationService(repo, IntegrationConfig{}, nil)

	tests := []struct {
		provider   string
		wantUsable bool
		wantHealth integration.Health
	}{
		{"p-healthy", true, integration.HealthHealthy},
		{"p-stale", false, integration.HealthDegraded},
		{"p-degraded", true, integration.HealthDegraded},
		{"p-failed", false, integration.HealthFailed},
		{"p-disabled", false, integration.HealthDisabled},
		{"p-never-seen", true, integration.HealthUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.provider, func(t *testing.T) {
			usable, status, err := service.UsableForPrediction(ctx, tc.provider)
			if err != nil {
				t.Fatalf("UsableForPrediction error: %v", err)
			}
			if usable != tc.wantUsable {
				t.Fatalf("usable = %t, want %t", usable, tc.wantUsable)
			}
			if status.Health != tc.wantHealth {
				t.Fatalf("Health = %s, want %s", status.Health, tc.wantHealth)
			}
		})
	}
}

func TestIntegrationService_ListStatuses_MarksStale(t *testing.T) {
	t.Parallel()

	stale := time.Now().UTC().Add(-time.Hour)
	status := integration.NewStatus("statsfeed-xg", 30*time.Minute)
	status.Health = integration.HealthHealthy
	status.LastSuccessAt = &stale

	repo := newStubIntegrationRepository()
	if err := repo.Upsert(context.Background(), status); err != nil {
		t.Fatalf("seed status: %v", err)
	}

	service := NewIntegrationService(repo, IntegrationConfig{}, nil)

	statuses, err := service.ListStatuses(context.Background())
	if err != nil {
		t.Fatalf("ListStatuses error: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("got %d statuses, want 1", len(statuses))
	}
	if statuses[0].Health != integration.HealthDegraded {
		t.Fatalf("Health = %s, want degraded for stale provider", statuses[0].Health)
	}
}

type stubIntegrationRepository struct {
	mu   sync.Mutex
	rows map[string]integration.Status
}

func newStubIntegrationRepository() *stubIntegrationRepository {
	return &stubIntegrationRepository{rows: make(map[string]integration.Status)}
}

func (s *stubIntegrationRepository) Get(_ context.Context, provider string) (integration.Status, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.rows[provider]
	return status, ok, nil
}

func (s *stubIntegrationRepository) Upsert(_ context.Context, status integration.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[status.Provider] = status
	return nil
}

func (s *stubIntegrationRepository) List(_ context.Context) ([]integration.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]integration.Status, 0, len(s.rows))
	for _, status := range s.rows {
		out = append(out, status)
	}
	return out, nil
}
