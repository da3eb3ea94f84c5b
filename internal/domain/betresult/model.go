package betresult

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRule = errors.New("invalid scoring rule")

// Rule holds a league's two scoring constants.
type Rule struct {
	ExactPoints   int
	OutcomePoints int
}

func DefaultRule() Rule {
	return Rule{ExactPoints: 3, OutcomePoints: 1}
}

func (r Rule) Validate() error {
	if r.ExactPoints < 0 || r.OutcomePoints < 0 {
		return fmt.Errorf("%w: points must be non-negative", ErrInvalidRule)
	}
	if r.ExactPoints < r.OutcomePoints {
		return fmt.Errorf("%w: exact=%d below outcome=%d", ErrInvalidRule, r.ExactPoints, r.OutcomePoints)
	}
	return nil
}

// Result is the scored outcome of one prediction against one finished
// match. Derived data: recomputing from the same inputs overwrites an
// existing row with identical values.
type Result struct {
	LeagueID       string
	ParticipantID  string
	MatchID        string
	Points         int
	Exact          bool
	CorrectOutcome bool
	// KickoffAt is denormalized from the match so the standings fold
	// can order results chronologically without a second lookup.
	KickoffAt  time.Time
	ComputedAt time.Time
}
