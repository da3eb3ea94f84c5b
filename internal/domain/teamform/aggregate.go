package teamform

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

// recencyDecay weights the most recent match highest; each older match
// contributes decay^age of its outcome value to the form scalar.
const recencyDecay = 0.85

// Aggregate summarizes the most recent finished matches of one team.
// matches must be ordered most recent first; entries that are not
// finished, or that do not involve the team, are skipped. Zero analyzed
// matches yields the neutral form rather than dividing by zero.
func Aggregate(teamID, competitionID string, matches []match.Fact, window int, now time.Time) Form {
	if window <= 0 {
		window = DefaultWindow
	}

	form := Form{
		TeamID:        teamID,
		CompetitionID: competitionID,
		Score:         NeutralScore,
		ComputedAt:    now.UTC(),
	}

	var weightedSum, weightSum float64
	weight := 1.0
	streakAlive := true

	for _, m := range matches {
		if form.Matches >= window {
			break
		}
		if !m.Finished() {
			continue
		}

		var scored, conceded int
		var home bool
		switch teamID {
		case m.HomeTeamID:
			home = true
			scored, conceded = *m.HomeScore, *m.AwayScore
		case m.AwayTeamID:
			scored, conceded = *m.AwayScore, *m.HomeScore
		default:
			continue
		}

		form.Matches++
		form.GoalsFor += scored
		form.GoalsAgainst += conceded
		if home {
			form.HomeMatches++
			form.HomeGoalsFor += scored
			form.HomeGoalsAgainst += conceded
		} else {
			form.AwayMatches++
			form.AwayGoalsFor += scored
			form.AwayGoalsAgainst += conceded
		}

		var outcomeValue float64
		switch {
		case scored > conceded:
			form.Wins++
			outcomeValue = 1.0
		case scored == conceded:
			form.Draws++
			outcomeValue = 0.5
		default:
			form.Losses++
			outcomeValue = 0.0
		}

		if streakAlive && scored >= conceded {
			form.UnbeatenStreak++
		} else {
			streakAlive = false
		}

		weightedSum += weight * outcomeValue
		weightSum += weight
		weight *= recencyDecay
	}

	if form.Matches == 0 {
		return form
	}

	form.PointsPerMatch = float64(3*form.Wins+form.Draws) / float64(form.Matches)
	form.Score = weightedSum / weightSum
	return form
}
