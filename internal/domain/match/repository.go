package match

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, matchID string) (Fact, bool, error)
	// ListFinishedByTeam returns a team's finished matches in one
	// competition, most recent kickoff first, at most limit rows.
	ListFinishedByTeam(ctx context.Context, competitionID, teamID string, limit int) ([]Fact, error)
	// ListFinishedSince returns matches that finished with a kickoff at
	// or after the given instant, used by the scoring sweep.
	ListFinishedSince(ctx context.Context, since time.Time) ([]Fact, error)
	// ListScheduledBetween returns scheduled matches kicking off inside
	// the window, used by the bot prediction pass.
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]Fact, error)
}
