package botprofile

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/prediction-league/internal/domain/signal"
)

var ErrInvalidProfile = errors.New("invalid bot profile")

// weightSumTolerance bounds the allowed drift of a weight vector from
// 1.0.
const weightSumTolerance = 1e-6

var profileValidate = validator.New(validator.WithRequiredStructEnabled())

// Weights allocates a bot's trust across signal categories. The vector
// sums to 1.0 within floating-point tolerance.
type Weights struct {
	Form          float64 `validate:"gte=0,lte=1"`
	DefensiveForm float64 `validate:"gte=0,lte=1"`
	XG            float64 `validate:"gte=0,lte=1"`
	XGAgainst     float64 `validate:"gte=0,lte=1"`
	Odds          float64 `validate:"gte=0,lte=1"`
	Injuries      float64 `validate:"gte=0,lte=1"`
}

func (w Weights) Total() float64 {
	return w.Form + w.DefensiveForm + w.XG + w.XGAgainst + w.Odds + w.Injuries
}

func (w Weights) ByCategory() map[signal.Category]float64 {
	return map[signal.Category]float64{
		signal.CategoryForm:          w.Form,
		signal.CategoryDefensiveForm: w.DefensiveForm,
		signal.CategoryXG:            w.XG,
		signal.CategoryXGAgainst:     w.XGAgainst,
		signal.CategoryOdds:          w.Odds,
		signal.CategoryInjuries:      w.Injuries,
	}
}

// Profile configures one autonomous participant. RiskAppetite in [0,1]
// shifts scoreline rounding: cautious bots break ties toward a draw,
// aggressive ones toward the favored side.
type Profile struct {
	ID            string `validate:"required"`
	LeagueID      string `validate:"required"`
	ParticipantID string `validate:"required"`
	Name          string `validate:"required"`
	Weights       Weights
	RiskAppetite  float64 `validate:"gte=0,lte=1"`
}

func New(id, leagueID, participantID, name string, w Weights, riskAppetite float64) (Profile, error) {
	p := Profile{
		ID:            id,
		LeagueID:      leagueID,
		ParticipantID: participantID,
		Name:          name,
		Weights:       w,
		RiskAppetite:  riskAppetite,
	}
	if err := profileValidate.Struct(p); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if math.Abs(w.Total()-1.0) > weightSumTolerance {
		return Profile{}, fmt.Errorf("%w: weights sum to %.6f, want 1.0", ErrInvalidProfile, w.Total())
	}
	return p, nil
}
