package standing

import (
	"sort"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/betresult"
)

// Fold rebuilds a league's standing entries from its full set of bet
// results. Input order does not matter: results are grouped per
// participant and sorted by match kickoff before streaks are computed.
// A missed bet leaves no result and is invisible to streaks.
func Fold(leagueID string, results []betresult.Result, now time.Time) []Entry {
	byParticipant := make(map[string][]betresult.Result)
	for _, r := range results {
		if r.LeagueID != leagueID {
			continue
		}
		byParticipant[r.ParticipantID] = append(byParticipant[r.ParticipantID], r)
	}

	entries := make([]Entry, 0, len(byParticipant))
	for participantID, rows := range byParticipant {
		sort.SliceStable(rows, func(i, j int) bool {
			if !rows[i].KickoffAt.Equal(rows[j].KickoffAt) {
				return rows[i].KickoffAt.Before(rows[j].KickoffAt)
			}
			return rows[i].MatchID < rows[j].MatchID
		})

		entry := Entry{
			LeagueID:      leagueID,
			ParticipantID: participantID,
			UpdatedAt:     now.UTC(),
		}
		correct := make([]bool, 0, len(rows))
		for _, r := range rows {
			entry.TotalPoints += r.Points
			entry.BetsPlaced++
			if r.Exact {
				entry.ExactMatches++
			}
			if r.CorrectOutcome {
				entry.CorrectOutcomes++
			}
			correct = append(correct, r.CorrectOutcome)
		}
		entry.CurrentStreak, entry.BestStreak = streaks(correct)
		entries = append(entries, entry)
	}

	return Rank(entries)
}

// Rank orders entries into a strict total order and assigns positions:
// points desc, exact matches desc, bets placed asc (same points from
// fewer bets ranks higher), participant id asc as the final stable
// tie-break.
func Rank(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		if out[i].ExactMatches != out[j].ExactMatches {
			return out[i].ExactMatches > out[j].ExactMatches
		}
		if out[i].BetsPlaced != out[j].BetsPlaced {
			return out[i].BetsPlaced < out[j].BetsPlaced
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})

	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// streaks computes the trailing run of correct outcomes (current) and
// the longest run anywhere (best) over chronologically ordered results.
func streaks(correct []bool) (current, best int) {
	run := 0
	for _, ok := range correct {
		if ok {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}

	for i := len(correct) - 1; i >= 0; i-- {
		if !correct[i] {
			break
		}
		current++
	}
	return current, best
}
