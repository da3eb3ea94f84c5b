package postgres

import "time"

type predictionTableModel struct {
	LeagueID      string    `db:"league_id"`
	ParticipantID string    `db:"participant_id"`
	MatchID       string    `db:"match_id"`
	HomeGoals     int       `db:"home_goals"`
	AwayGoals     int       `db:"away_goals"`
	Origin        string    `db:"origin"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
