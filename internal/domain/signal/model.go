package signal

import (
	"context"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

type Category string

const (
	CategoryForm          Category = "form"
	CategoryDefensiveForm Category = "defensive_form"
	CategoryXG            Category = "xg"
	CategoryXGAgainst     Category = "xg_against"
	CategoryOdds          Category = "odds"
	CategoryInjuries      Category = "injuries"
)

var AllCategories = map[Category]struct{}{
	CategoryForm:          {},
	CategoryDefensiveForm: {},
	CategoryXG:            {},
	CategoryXGAgainst:     {},
	CategoryOdds:          {},
	CategoryInjuries:      {},
}

// Snapshot is one provider's normalized view of an upcoming match.
type Snapshot struct {
	Provider string
	Category Category
	MatchID  string
	// HomeEdge is the provider's directional lean as a score
	// differential, positive favoring the home side.
	HomeEdge float64
	// Confidence in [0,1] is the provider's own trust in this snapshot.
	Confidence float64
	ComputedAt time.Time
}

// Provider produces snapshots for one signal category.
//
// Fetch returns (snapshot, true, nil) on success, (zero, false, nil)
// when the provider has no data for the match ("unavailable" is an
// expected condition, never an error), and (zero, false, err) on a hard
// failure such as a network or parse error. Callers treat both negative
// cases as a missing signal, but only hard failures count against the
// provider's health.
type Provider interface {
	Name() string
	Category() Category
	Fetch(ctx context.Context, m match.Fact, asOf time.Time) (Snapshot, bool, error)
}
