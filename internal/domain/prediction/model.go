package prediction

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxGoals bounds a single predicted score. Anything above this is a
// caller bug, not a plausible forecast.
const MaxGoals = 99

var (
	ErrScoreOutOfRange = errors.New("predicted score out of range")
	ErrIncompleteOwner = errors.New("prediction owner is incomplete")
)

type Origin string

const (
	OriginHuman Origin = "human"
	OriginBot   Origin = "bot"
)

// Prediction is one participant's scoreline guess for one match in one
// league. Exactly one active prediction exists per (league,
// participant, match); later submissions replace the earlier one.
type Prediction struct {
	LeagueID      string
	ParticipantID string
	MatchID       string
	HomeGoals     int
	AwayGoals     int
	Origin        Origin
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New validates and builds a prediction. Invalid scorelines never enter
// the system; the scorer and the standings fold assume well-formed
// input.
func New(leagueID, participantID, matchID string, homeGoals, awayGoals int, origin Origin, now time.Time) (Prediction, error) {
	leagueID = strings.TrimSpace(leagueID)
	participantID = strings.TrimSpace(participantID)
	matchID = strings.TrimSpace(matchID)
	if leagueID == "" || participantID == "" || matchID == "" {
		return Prediction{}, fmt.Errorf("%w: league=%q participant=%q match=%q", ErrIncompleteOwner, leagueID, participantID, matchID)
	}
	if homeGoals < 0 || homeGoals > MaxGoals {
		return Prediction{}, fmt.Errorf("%w: home=%d", ErrScoreOutOfRange, homeGoals)
	}
	if awayGoals < 0 || awayGoals > MaxGoals {
		return Prediction{}, fmt.Errorf("%w: away=%d", ErrScoreOutOfRange, awayGoals)
	}
	if origin != OriginHuman && origin != OriginBot {
		origin = OriginHuman
	}

	now = now.UTC()
	return Prediction{
		LeagueID:      leagueID,
		ParticipantID: participantID,
		MatchID:       matchID,
		HomeGoals:     homeGoals,
		AwayGoals:     awayGoals,
		Origin:        origin,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
