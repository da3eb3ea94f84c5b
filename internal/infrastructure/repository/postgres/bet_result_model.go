package postgres

import "time"

type betResultTableModel struct {
	LeagueID       string    `db:"league_id"`
	ParticipantID  string    `db:"participant_id"`
	MatchID        string    `db:"match_id"`
	Points         int       `db:"points"`
	Exact          bool      `db:"exact"`
	CorrectOutcome bool      `db:"correct_outcome"`
	KickoffAt      time.Time `db:"kickoff_at"`
	ComputedAt     time.Time `db:"computed_at"`
}
