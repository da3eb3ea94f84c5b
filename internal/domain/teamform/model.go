package teamform

import "time"

// NeutralScore is the placeholder form value for a team with no
// analyzed matches, a league-average stand-in.
const NeutralScore = 0.5

// DefaultWindow bounds how many recent matches feed a form summary.
const DefaultWindow = 8

// Form is a rolling performance summary for one team in one
// competition. Recomputed wholesale from match facts; never edited.
type Form struct {
	TeamID        string
	CompetitionID string

	Matches int
	Wins    int
	Draws   int
	Losses  int

	GoalsFor     int
	GoalsAgainst int

	HomeMatches      int
	HomeGoalsFor     int
	HomeGoalsAgainst int
	AwayMatches      int
	AwayGoalsFor     int
	AwayGoalsAgainst int

	PointsPerMatch float64
	// UnbeatenStreak counts trailing consecutive non-losses, most
	// recent match backward.
	UnbeatenStreak int
	// Score is a recency-weighted form scalar in [0,1]; 0.5 is neutral.
	Score float64

	ComputedAt time.Time
}

// GoalsForPerMatch returns the attacking rate, 0 when nothing was
// analyzed.
func (f Form) GoalsForPerMatch() float64 {
	if f.Matches == 0 {
		return 0
	}
	return float64(f.GoalsFor) / float64(f.Matches)
}

func (f Form) GoalsAgainstPerMatch() float64 {
	if f.Matches == 0 {
		return 0
	}
	return float64(f.GoalsAgainst) / float64(f.Matches)
}
