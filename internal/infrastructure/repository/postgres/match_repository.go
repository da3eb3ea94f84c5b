package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `public_id, competition_id, home_team_id, away_team_id, kickoff_at, status, home_score, away_score`

func (r *MatchRepository) Put(ctx context.Context, f match.Fact) error {
	query := `INSERT INTO matches (public_id, competition_id, home_team_id, away_team_id, kickoff_at, status, home_score, away_score)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (public_id)
DO UPDATE SET
    competition_id = EXCLUDED.competition_id,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    kickoff_at = EXCLUDED.kickoff_at,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query,
		f.ID, f.CompetitionID, f.HomeTeamID, f.AwayTeamID,
		f.KickoffAt, match.NormalizeStatus(f.Status), f.HomeScore, f.AwayScore,
	); err != nil {
		return fmt.Errorf("upsert match %s: %w", f.ID, err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Fact, bool, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE public_id = $1 AND deleted_at IS NULL`

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, matchID); err != nil {
		if isNotFound(err) {
			return match.Fact{}, false, nil
		}
		return match.Fact{}, false, fmt.Errorf("get match %s: %w", matchID, err)
	}
	return toMatchFact(row), true, nil
}

func (r *MatchRepository) ListFinishedByTeam(ctx context.Context, competitionID, teamID string, limit int) ([]match.Fact, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
WHERE competition_id = $1
  AND (home_team_id = $2 OR away_team_id = $2)
  AND status IN ('FINISHED', 'FT', 'AET', 'PEN')
  AND home_score IS NOT NULL AND away_score IS NOT NULL
  AND deleted_at IS NULL
ORDER BY kickoff_at DESC, public_id
LIMIT $3`

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, competitionID, teamID, limit); err != nil {
		return nil, fmt.Errorf("list finished matches team=%s: %w", teamID, err)
	}
	return toMatchFacts(rows), nil
}

func (r *MatchRepository) ListFinishedSince(ctx context.Context, since time.Time) ([]match.Fact, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
WHERE status IN ('FINISHED', 'FT', 'AET', 'PEN')
  AND home_score IS NOT NULL AND away_score IS NOT NULL
  AND kickoff_at >= $1
  AND deleted_at IS NULL
ORDER BY kickoff_at, public_id`

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("list finished matches since %s: %w", since, err)
	}
	return toMatchFacts(rows), nil
}

func (r *MatchRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]match.Fact, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
WHERE status = 'SCHEDULED'
  AND kickoff_at BETWEEN $1 AND $2
  AND deleted_at IS NULL
ORDER BY kickoff_at, public_id`

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("list scheduled matches: %w", err)
	}
	return toMatchFacts(rows), nil
}

func toMatchFact(row matchTableModel) match.Fact {
	return match.Fact{
		ID:            row.ID,
		CompetitionID: row.CompetitionID,
		HomeTeamID:    row.HomeTeamID,
		AwayTeamID:    row.AwayTeamID,
		KickoffAt:     row.KickoffAt,
		Status:        row.Status,
		HomeScore:     row.HomeScore,
		AwayScore:     row.AwayScore,
	}
}

func toMatchFacts(rows []matchTableModel) []match.Fact {
	out := make([]match.Fact, 0, len(rows))
	for _, row := range rows {
		out = append(out, toMatchFact(row))
	}
	return out
}
