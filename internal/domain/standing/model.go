package standing

import "time"

// Entry is one participant's cumulative record within one league. It is
// a cache over that participant's bet results, never a source of truth:
// the fold in this package rebuilds it from scratch.
type Entry struct {
	LeagueID        string
	ParticipantID   string
	Position        int
	TotalPoints     int
	BetsPlaced      int
	ExactMatches    int
	CorrectOutcomes int
	CurrentStreak   int
	BestStreak      int
	UpdatedAt       time.Time
}
