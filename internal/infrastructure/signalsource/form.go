package signalsource

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/signal"
	"github.com/riskibarqy/prediction-league/internal/domain/teamform"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// formEdgeScale converts a form-score differential in [-1,1] into a
// goal differential.
const formEdgeScale = 2.0

// FormProvider derives an attacking-form signal from the local match
// history. It has no network dependency, so it is the signal of last
// resort when external feeds degrade.
type FormProvider struct {
	forms  *usecase.FormService
	window int
}

func NewFormProvider(forms *usecase.FormService, window int) *FormProvider {
	if window <= 0 {
		window = teamform.DefaultWindow
	}
	return &FormProvider{forms: forms, window: window}
}

func (p *FormProvider) Name() string              { return "local-form" }
func (p *FormProvider) Category() signal.Category { return signal.CategoryForm }

func (p *FormProvider) Fetch(ctx context.Context, m match.Fact, asOf time.Time) (signal.Snapshot, bool, error) {
	home, away, ok, err := fetchForms(ctx, p.forms, m)
	if err != nil || !ok {
		return signal.Snapshot{}, false, err
	}

	return signal.Snapshot{
		Provider:   p.Name(),
		Category:   p.Category(),
		MatchID:    m.ID,
		HomeEdge:   (home.Score - away.Score) * formEdgeScale,
		Confidence: formConfidence(home, away, p.window),
		ComputedAt: asOf,
	}, true, nil
}

// DefensiveFormProvider reads the same history from the defensive side:
// a leakier away defense shifts the edge toward the home team.
type DefensiveFormProvider struct {
	forms  *usecase.FormService
	window int
}

func NewDefensiveFormProvider(forms *usecase.FormService, window int) *DefensiveFormProvider {
	if window <= 0 {
		window = teamform.DefaultWindow
	}
	return &DefensiveFormProvider{forms: forms, window: window}
}

func (p *DefensiveFormProvider) Name() string              { return "local-defensive-form" }
func (p *DefensiveFormProvider) Category() signal.Category { return signal.CategoryDefensiveForm }

func (p *DefensiveFormProvider) Fetch(ctx context.Context, m match.Fact, asOf time.Time) (signal.Snapshot, bool, error) {
	home, away, ok, err := fetchForms(ctx, p.forms, m)
	if err != nil || !ok {
		return signal.Snapshot{}, false, err
	}

	return signal.Snapshot{
		Provider:   p.Name(),
		Category:   p.Category(),
		MatchID:    m.ID,
		HomeEdge:   away.GoalsAgainstPerMatch() - home.GoalsAgainstPerMatch(),
		Confidence: formConfidence(home, away, p.window),
		ComputedAt: asOf,
	}, true, nil
}

func fetchForms(ctx context.Context, forms *usecase.FormService, m match.Fact) (teamform.Form, teamform.Form, bool, error) {
	home, err := forms.Get(ctx, m.HomeTeamID, m.CompetitionID)
	if err != nil {
		return teamform.Form{}, teamform.Form{}, false, fmt.Errorf("home form: %w", err)
	}
	away, err := forms.Get(ctx, m.AwayTeamID, m.CompetitionID)
	if err != nil {
		return teamform.Form{}, teamform.Form{}, false, fmt.Errorf("away form: %w", err)
	}
	// No history on either side means no signal, not an error.
	if home.Matches == 0 && away.Matches == 0 {
		return teamform.Form{}, teamform.Form{}, false, nil
	}
	return home, away, true, nil
}

func formConfidence(home, away teamform.Form, window int) float64 {
	analyzed := float64(home.Matches + away.Matches)
	confidence := analyzed / float64(2*window)
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}
