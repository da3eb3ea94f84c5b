package standing

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Entry, error)
	// ReplaceByLeague swaps a league's whole table in one logical unit:
	// either every entry is updated or none are.
	ReplaceByLeague(ctx context.Context, leagueID string, entries []Entry) error
}
