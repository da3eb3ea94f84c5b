package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prediction-league/internal/domain/integration"
)

type IntegrationRepository struct {
	db *sqlx.DB
}

func NewIntegrationRepository(db *sqlx.DB) *IntegrationRepository {
	return &IntegrationRepository{db: db}
}

const integrationColumns = `provider, health, consecutive_failures, last_attempt_at, last_success_at, last_failure_at, last_error, stale_threshold_secs, manually_disabled`

func (r *IntegrationRepository) Get(ctx context.Context, provider string) (integration.Status, bool, error) {
	query := `SELECT ` + integrationColumns + ` FROM integration_statuses WHERE provider = $1`

	var row integrationStatusTableModel
	if err := r.db.GetContext(ctx, &row, query, provider); err != nil {
		if isNotFound(err) {
			return integration.Status{}, false, nil
		}
		return integration.Status{}, false, fmt.Errorf("get integration status %s: %w", provider, err)
	}
	return toIntegrationStatus(row), true, nil
}

func (r *IntegrationRepository) Upsert(ctx context.Context, s integration.Status) error {
	query := `INSERT INTO integration_statuses (provider, health, consecutive_failures, last_attempt_at, last_success_at, last_failure_at, last_error, stale_threshold_secs, manually_disabled, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
ON CONFLICT (provider)
DO UPDATE SET
    health = EXCLUDED.health,
    consecutive_failures = EXCLUDED.consecutive_failures,
    last_attempt_at = EXCLUDED.last_attempt_at,
    last_success_at = EXCLUDED.last_success_at,
    last_failure_at = EXCLUDED.last_failure_at,
    last_error = EXCLUDED.last_error,
    stale_threshold_secs = EXCLUDED.stale_threshold_secs,
    manually_disabled = EXCLUDED.manually_disabled,
    updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query,
		s.Provider, string(s.Health), s.ConsecutiveFailures,
		s.LastAttemptAt, s.LastSuccessAt, s.LastFailureAt, s.LastError,
		int64(s.StaleThreshold/time.Second), s.ManuallyDisabled,
	); err != nil {
		return fmt.Errorf("upsert integration status %s: %w", s.Provider, err)
	}
	return nil
}

func (r *IntegrationRepository) List(ctx context.Context) ([]integration.Status, error) {
	query := `SELECT ` + integrationColumns + ` FROM integration_statuses ORDER BY provider`

	var rows []integrationStatusTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list integration statuses: %w", err)
	}

	out := make([]integration.Status, 0, len(rows))
	for _, row := range rows {
		out = append(out, toIntegrationStatus(row))
	}
	return out, nil
}

func toIntegrationStatus(row integrationStatusTableModel) integration.Status {
	return integration.Status{
		Provider:            row.Provider,
		Health:              integration.Health(row.Health),
		ConsecutiveFailures: row.ConsecutiveFailures,
		LastAttemptAt:       row.LastAttemptAt,
		LastSuccessAt:       row.LastSuccessAt,
		LastFailureAt:       row.LastFailureAt,
		LastError:           row.LastError,
		StaleThreshold:      time.Duration(row.StaleThresholdSecs) * time.Second,
		ManuallyDisabled:    row.ManuallyDisabled,
	}
}
