package postgres

import "time"

type standingEntryTableModel struct {
	LeagueID        string    `db:"league_id"`
	ParticipantID   string    `db:"participant_id"`
	Position        int       `db:"position"`
	TotalPoints     int       `db:"total_points"`
	BetsPlaced      int       `db:"bets_placed"`
	ExactMatches    int       `db:"exact_matches"`
	CorrectOutcomes int       `db:"correct_outcomes"`
	CurrentStreak   int       `db:"current_streak"`
	BestStreak      int       `db:"best_streak"`
	UpdatedAt       time.Time `db:"updated_at"`
}
