package betresult

import "context"

type Repository interface {
	// Upsert replaces any existing result for the same (league,
	// participant, match) triple.
	Upsert(ctx context.Context, r Result) error
	ListByLeague(ctx context.Context, leagueID string) ([]Result, error)
	ListByMatch(ctx context.Context, matchID string) ([]Result, error)
}
