package postgres

import "time"

type integrationStatusTableModel struct {
	Provider            string     `db:"provider"`
	Health              string     `db:"health"`
	ConsecutiveFailures int        `db:"consecutive_failures"`
	LastAttemptAt       *time.Time `db:"last_attempt_at"`
	LastSuccessAt       *time.Time `db:"last_success_at"`
	LastFailureAt       *time.Time `db:"last_failure_at"`
	LastError           string     `db:"last_error"`
	StaleThresholdSecs  int64      `db:"stale_threshold_secs"`
	ManuallyDisabled    bool       `db:"manually_disabled"`
	UpdatedAt           time.Time  `db:"updated_at"`
}
