package betresult

import (
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
)

var ErrMatchNotFinished = errors.New("match is not finished")

type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeDraw    Outcome = "draw"
	OutcomeAwayWin Outcome = "away_win"
)

func ClassifyOutcome(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return OutcomeHomeWin
	case homeGoals < awayGoals:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// Score turns a prediction and a finished match into a result under the
// league's rule. Pure function: identical inputs yield an identical
// result apart from ComputedAt, so recomputation is always safe.
//
// Scoring an unfinished match is a programming error in the caller's
// orchestration; the error is returned loudly rather than recovered.
func Score(p prediction.Prediction, m match.Fact, rule Rule, now time.Time) (Result, error) {
	if !m.Finished() {
		return Result{}, fmt.Errorf("%w: match=%s status=%s", ErrMatchNotFinished, m.ID, m.Status)
	}
	if err := rule.Validate(); err != nil {
		return Result{}, err
	}

	actualHome := *m.HomeScore
	actualAway := *m.AwayScore

	result := Result{
		LeagueID:      p.LeagueID,
		ParticipantID: p.ParticipantID,
		MatchID:       m.ID,
		KickoffAt:     m.KickoffAt,
		ComputedAt:    now.UTC(),
	}

	if p.HomeGoals == actualHome && p.AwayGoals == actualAway {
		result.Points = rule.ExactPoints
		result.Exact = true
		result.CorrectOutcome = true
		return result, nil
	}

	if ClassifyOutcome(p.HomeGoals, p.AwayGoals) == ClassifyOutcome(actualHome, actualAway) {
		result.Points = rule.OutcomePoints
		result.CorrectOutcome = true
	}

	return result, nil
}
