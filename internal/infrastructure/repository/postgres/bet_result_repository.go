package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prediction-league/internal/domain/betresult"
)

type BetResultRepository struct {
	db *sqlx.DB
}

func NewBetResultRepository(db *sqlx.DB) *BetResultRepository {
	return &BetResultRepository{db: db}
}

const betResultColumns = `league_id, participant_id, match_id, points, exact, correct_outcome, kickoff_at, computed_at`

func (r *BetResultRepository) Upsert(ctx context.Context, result betresult.Result) error {
	query := `INSERT INTO bet_results (league_id, participant_id, match_id, points, exact, correct_outcome, kickoff_at, computed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (league_id, participant_id, match_id)
DO UPDATE SET
    points = EXCLUDED.points,
    exact = EXCLUDED.exact,
    correct_outcome = EXCLUDED.correct_outcome,
    kickoff_at = EXCLUDED.kickoff_at,
    computed_at = EXCLUDED.computed_at`

	if _, err := r.db.ExecContext(ctx, query,
		result.LeagueID, result.ParticipantID, result.MatchID,
		result.Points, result.Exact, result.CorrectOutcome,
		result.KickoffAt, result.ComputedAt,
	); err != nil {
		return fmt.Errorf("upsert bet result league=%s participant=%s match=%s: %w", result.LeagueID, result.ParticipantID, result.MatchID, err)
	}
	return nil
}

func (r *BetResultRepository) ListByLeague(ctx context.Context, leagueID string) ([]betresult.Result, error) {
	query := `SELECT ` + betResultColumns + ` FROM bet_results
WHERE league_id = $1
ORDER BY kickoff_at, match_id, participant_id`

	var rows []betResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list bet results league=%s: %w", leagueID, err)
	}
	return toBetResults(rows), nil
}

func (r *BetResultRepository) ListByMatch(ctx context.Context, matchID string) ([]betresult.Result, error) {
	query := `SELECT ` + betResultColumns + ` FROM bet_results
WHERE match_id = $1
ORDER BY league_id, participant_id`

	var rows []betResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, matchID); err != nil {
		return nil, fmt.Errorf("list bet results match=%s: %w", matchID, err)
	}
	return toBetResults(rows), nil
}

func toBetResults(rows []betResultTableModel) []betresult.Result {
	out := make([]betresult.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, betresult.Result{
			LeagueID:       row.LeagueID,
			ParticipantID:  row.ParticipantID,
			MatchID:        row.MatchID,
			Points:         row.Points,
			Exact:          row.Exact,
			CorrectOutcome: row.CorrectOutcome,
			KickoffAt:      row.KickoffAt,
			ComputedAt:     row.ComputedAt,
		})
	}
	return out
}
