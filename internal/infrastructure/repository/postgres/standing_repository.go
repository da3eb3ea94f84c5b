package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prediction-league/internal/domain/standing"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]standing.Entry, error) {
	query := `SELECT league_id, participant_id, position, total_points, bets_placed, exact_matches, correct_outcomes, current_streak, best_streak, updated_at
FROM standing_entries
WHERE league_id = $1
ORDER BY position`

	var rows []standingEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list standing entries league=%s: %w", leagueID, err)
	}

	out := make([]standing.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Entry{
			LeagueID:        row.LeagueID,
			ParticipantID:   row.ParticipantID,
			Position:        row.Position,
			TotalPoints:     row.TotalPoints,
			BetsPlaced:      row.BetsPlaced,
			ExactMatches:    row.ExactMatches,
			CorrectOutcomes: row.CorrectOutcomes,
			CurrentStreak:   row.CurrentStreak,
			BestStreak:      row.BestStreak,
			UpdatedAt:       row.UpdatedAt,
		})
	}
	return out, nil
}

// ReplaceByLeague swaps the league's whole table inside one
// transaction, so readers never observe a partially rebuilt table.
func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, entries []standing.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standing entries: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM standing_entries WHERE league_id = $1`, leagueID); err != nil {
		return fmt.Errorf("clear standing entries league=%s: %w", leagueID, err)
	}

	insert := `INSERT INTO standing_entries (league_id, participant_id, position, total_points, bets_placed, exact_matches, correct_outcomes, current_streak, best_streak, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, insert,
			entry.LeagueID, entry.ParticipantID, entry.Position,
			entry.TotalPoints, entry.BetsPlaced, entry.ExactMatches, entry.CorrectOutcomes,
			entry.CurrentStreak, entry.BestStreak, entry.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert standing entry participant=%s: %w", entry.ParticipantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standing entries tx: %w", err)
	}
	return nil
}
