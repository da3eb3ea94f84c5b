package match

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusInPlay    = "IN_PLAY"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

// Fact is one match record delivered by the feed. Facts are immutable
// from this core's point of view: the feed replaces them, nothing here
// mutates them. Scores are set if and only if the match is finished.
type Fact struct {
	ID            string
	CompetitionID string
	HomeTeamID    string
	AwayTeamID    string
	KickoffAt     time.Time
	Status        string
	HomeScore     *int
	AwayScore     *int
}

// Finished reports whether the fact can be scored against: finished
// status with both scores populated.
func (f Fact) Finished() bool {
	return IsFinishedStatus(f.Status) && f.HomeScore != nil && f.AwayScore != nil
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsInPlayStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusInPlay, "LIVE", "HT", "1H", "2H", "ET":
		return true
	default:
		return false
	}
}

// IsVoidStatus reports statuses that will never produce a result.
func IsVoidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusPostponed, StatusCancelled, "ABANDONED":
		return true
	default:
		return false
	}
}
