package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/integration"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// IntegrationService is the health monitor for signal providers. All
// state changes flow through the pure transition functions in the
// integration domain; this service adds persistence, serialization and
// logging.
type IntegrationService struct {
	repo              integration.Repository
	degradedThreshold int
	failedThreshold   int
	staleThreshold    time.Duration
	logger            *logging.Logger
	now               func() time.Time
	mu                sync.Mutex
}

type IntegrationConfig struct {
	DegradedThreshold int
	FailedThreshold   int
	StaleThreshold    time.Duration
}

func NewIntegrationService(repo integration.Repository, cfg IntegrationConfig, logger *logging.Logger) *IntegrationService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.DegradedThreshold < 1 {
		cfg.DegradedThreshold = integration.DefaultDegradedThreshold
	}
	if cfg.FailedThreshold <= cfg.DegradedThreshold {
		cfg.FailedThreshold = integration.DefaultFailedThreshold
	}
	if cfg.StaleThreshold <= 0 {
		cfg.StaleThreshold = integration.DefaultStaleThreshold
	}

	return &IntegrationService{
		repo:              repo,
		degradedThreshold: cfg.DegradedThreshold,
		failedThreshold:   cfg.FailedThreshold,
		staleThreshold:    cfg.StaleThreshold,
		logger:            logger,
		now:               time.Now,
	}
}

func (s *IntegrationService) RecordSuccess(ctx context.Context, provider string) (integration.Status, error) {
	return s.apply(ctx, provider, func(status integration.Status) integration.Status {
		return integration.ApplySuccess(status, s.now().UTC())
	})
}

func (s *IntegrationService) RecordFailure(ctx context.Context, provider string, cause error) (integration.Status, error) {
	status, err := s.apply(ctx, provider, func(status integration.Status) integration.Status {
		return integration.ApplyFailure(status, s.now().UTC(), cause, s.degradedThreshold, s.failedThreshold)
	})
	if err != nil {
		return integration.Status{}, err
	}

	if status.Health == integration.HealthFailed {
		s.logger.WarnContext(ctx, "signal provider marked failed",
			"provider", provider,
			"consecutive_failures", status.ConsecutiveFailures,
			"error", cause,
		)
	}
	return status, nil
}

func (s *IntegrationService) Disable(ctx context.Context, provider string) (integration.Status, error) {
	status, err := s.apply(ctx, provider, integration.Disable)
	if err != nil {
		return integration.Status{}, err
	}
	s.logger.InfoContext(ctx, "signal provider disabled", "provider", provider)
	return status, nil
}

func (s *IntegrationService) Enable(ctx context.Context, provider string) (integration.Status, error) {
	status, err := s.apply(ctx, provider, integration.Enable)
	if err != nil {
		return integration.Status{}, err
	}
	s.logger.InfoContext(ctx, "signal provider enabled", "provider", provider)
	return status, nil
}

// ProviderHealth is the read-only query for monitoring surfaces. An
// unseen provider reports as unknown rather than an error.
func (s *IntegrationService) ProviderHealth(ctx context.Context, provider string) (integration.Status, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return integration.Status{}, fmt.Errorf("%w: provider name is required", ErrInvalidInput)
	}

	status, ok, err := s.repo.Get(ctx, provider)
	if err != nil {
		return integration.Status{}, fmt.Errorf("get integration status: %w", err)
	}
	if !ok {
		return integration.NewStatus(provider, s.staleThreshold), nil
	}
	return integration.MarkStaleDegraded(status, s.now().UTC()), nil
}

func (s *IntegrationService) ListStatuses(ctx context.Context) ([]integration.Status, error) {
	statuses, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list integration statuses: %w", err)
	}
	now := s.now().UTC()
	for i := range statuses {
		statuses[i] = integration.MarkStaleDegraded(statuses[i], now)
	}
	return statuses, nil
}

// UsableForPrediction reports whether the engine may blend this
// provider's snapshots right now: not failed, not disabled, not stale.
func (s *IntegrationService) UsableForPrediction(ctx context.Context, provider string) (bool, integration.Status, error) {
	status, err := s.ProviderHealth(ctx, provider)
	if err != nil {
		return false, integration.Status{}, err
	}
	if !status.Usable() && status.Health != integration.HealthUnknown {
		return false, status, nil
	}
	if status.Health != integration.HealthUnknown && status.Stale(s.now().UTC()) {
		return false, status, nil
	}
	return true, status, nil
}

func (s *IntegrationService) apply(ctx context.Context, provider string, transition func(integration.Status) integration.Status) (integration.Status, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return integration.Status{}, fmt.Errorf("%w: provider name is required", ErrInvalidInput)
	}

	// Serialize read-modify-write cycles; sync outcomes for one
	// provider must not interleave.
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok, err := s.repo.Get(ctx, provider)
	if err != nil {
		return integration.Status{}, fmt.Errorf("get integration status: %w", err)
	}
	if !ok {
		status = integration.NewStatus(provider, s.staleThreshold)
	}

	status = transition(status)
	if err := s.repo.Upsert(ctx, status); err != nil {
		return integration.Status{}, fmt.Errorf("upsert integration status: %w", err)
	}
	return status, nil
}
