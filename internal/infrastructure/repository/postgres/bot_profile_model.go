package postgres

import "time"

type botProfileTableModel struct {
	ID                  string     `db:"public_id"`
	LeagueID            string     `db:"league_id"`
	ParticipantID       string     `db:"participant_id"`
	Name                string     `db:"name"`
	WeightForm          float64    `db:"weight_form"`
	WeightDefensiveForm float64    `db:"weight_defensive_form"`
	WeightXG            float64    `db:"weight_xg"`
	WeightXGAgainst     float64    `db:"weight_xg_against"`
	WeightOdds          float64    `db:"weight_odds"`
	WeightInjuries      float64    `db:"weight_injuries"`
	RiskAppetite        float64    `db:"risk_appetite"`
	CreatedAt           time.Time  `db:"created_at"`
	DeletedAt           *time.Time `db:"deleted_at"`
}
