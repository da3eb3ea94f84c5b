package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

const predictionColumns = `league_id, participant_id, match_id, home_goals, away_goals, origin, created_at, updated_at`

func (r *PredictionRepository) Upsert(ctx context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	query := `INSERT INTO predictions (league_id, participant_id, match_id, home_goals, away_goals, origin, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (league_id, participant_id, match_id)
DO UPDATE SET
    home_goals = EXCLUDED.home_goals,
    away_goals = EXCLUDED.away_goals,
    origin = EXCLUDED.origin,
    updated_at = EXCLUDED.updated_at
RETURNING ` + predictionColumns

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query,
		p.LeagueID, p.ParticipantID, p.MatchID,
		p.HomeGoals, p.AwayGoals, string(p.Origin), p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction league=%s participant=%s match=%s: %w", p.LeagueID, p.ParticipantID, p.MatchID, err)
	}
	return toPrediction(row), nil
}

func (r *PredictionRepository) Get(ctx context.Context, leagueID, participantID, matchID string) (prediction.Prediction, bool, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions
WHERE league_id = $1 AND participant_id = $2 AND match_id = $3`

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID, participantID, matchID); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}
	return toPrediction(row), true, nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions
WHERE match_id = $1
ORDER BY league_id, participant_id`

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, matchID); err != nil {
		return nil, fmt.Errorf("list predictions match=%s: %w", matchID, err)
	}
	return toPredictions(rows), nil
}

func (r *PredictionRepository) ListByLeague(ctx context.Context, leagueID string) ([]prediction.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions
WHERE league_id = $1
ORDER BY match_id, participant_id`

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list predictions league=%s: %w", leagueID, err)
	}
	return toPredictions(rows), nil
}

func toPrediction(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		LeagueID:      row.LeagueID,
		ParticipantID: row.ParticipantID,
		MatchID:       row.MatchID,
		HomeGoals:     row.HomeGoals,
		AwayGoals:     row.AwayGoals,
		Origin:        prediction.Origin(row.Origin),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func toPredictions(rows []predictionTableModel) []prediction.Prediction {
	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPrediction(row))
	}
	return out
}
