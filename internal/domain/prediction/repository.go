package prediction

import "context"

type Repository interface {
	// Upsert stores the prediction, replacing any active row for the
	// same (league, participant, match). The original CreatedAt is
	// preserved on replacement; UpdatedAt takes the new value.
	Upsert(ctx context.Context, p Prediction) (Prediction, error)
	Get(ctx context.Context, leagueID, participantID, matchID string) (Prediction, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Prediction, error)
}
