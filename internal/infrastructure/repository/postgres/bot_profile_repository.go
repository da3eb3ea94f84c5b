package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prediction-league/internal/domain/botprofile"
)

type BotProfileRepository struct {
	db *sqlx.DB
}

func NewBotProfileRepository(db *sqlx.DB) *BotProfileRepository {
	return &BotProfileRepository{db: db}
}

const botProfileColumns = `public_id, league_id, participant_id, name, weight_form, weight_defensive_form, weight_xg, weight_xg_against, weight_odds, weight_injuries, risk_appetite`

func (r *BotProfileRepository) Get(ctx context.Context, botID string) (botprofile.Profile, bool, error) {
	query := `SELECT ` + botProfileColumns + ` FROM bot_profiles
WHERE public_id = $1 AND deleted_at IS NULL`

	var row botProfileTableModel
	if err := r.db.GetContext(ctx, &row, query, botID); err != nil {
		if isNotFound(err) {
			return botprofile.Profile{}, false, nil
		}
		return botprofile.Profile{}, false, fmt.Errorf("get bot profile %s: %w", botID, err)
	}
	return toBotProfile(row), true, nil
}

func (r *BotProfileRepository) List(ctx context.Context) ([]botprofile.Profile, error) {
	query := `SELECT ` + botProfileColumns + ` FROM bot_profiles
WHERE deleted_at IS NULL
ORDER BY public_id`

	var rows []botProfileTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list bot profiles: %w", err)
	}
	return toBotProfiles(rows), nil
}

func (r *BotProfileRepository) ListByLeague(ctx context.Context, leagueID string) ([]botprofile.Profile, error) {
	query := `SELECT ` + botProfileColumns + ` FROM bot_profiles
WHERE league_id = $1 AND deleted_at IS NULL
ORDER BY public_id`

	var rows []botProfileTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list bot profiles league=%s: %w", leagueID, err)
	}
	return toBotProfiles(rows), nil
}

func toBotProfile(row botProfileTableModel) botprofile.Profile {
	return botprofile.Profile{
		ID:            row.ID,
		LeagueID:      row.LeagueID,
		ParticipantID: row.ParticipantID,
		Name:          row.Name,
		Weights: botprofile.Weights{
			Form:          row.WeightForm,
			DefensiveForm: row.WeightDefensiveForm,
			XG:            row.WeightXG,
			XGAgainst:     row.WeightXGAgainst,
			Odds:          row.WeightOdds,
			Injuries:      row.WeightInjuries,
		},
		RiskAppetite: row.RiskAppetite,
	}
}

func toBotProfiles(rows []botProfileTableModel) []botprofile.Profile {
	out := make([]botprofile.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, toBotProfile(row))
	}
	return out
}
