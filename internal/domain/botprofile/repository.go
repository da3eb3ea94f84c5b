package botprofile

import "context"

type Repository interface {
	Get(ctx context.Context, botID string) (Profile, bool, error)
	List(ctx context.Context) ([]Profile, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Profile, error)
}
