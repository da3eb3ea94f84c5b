package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/betresult"
)

type betResultKey struct {
	leagueID      string
	participantID string
	matchID       string
}

type BetResultRepository struct {
	mu   sync.RWMutex
	rows map[betResultKey]betresult.Result
}

func NewBetResultRepository() *BetResultRepository {
	return &BetResultRepository{rows: make(map[betResultKey]betresult.Result)}
}

func (r *BetResultRepository) Upsert(_ context.Context, result betresult.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := betResultKey{leagueID: result.LeagueID, participantID: result.ParticipantID, matchID: result.MatchID}
	r.rows[key] = result
	return nil
}

func (r *BetResultRepository) ListByLeague(_ context.Context, leagueID string) ([]betresult.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []betresult.Result
	for key, result := range r.rows {
		if key.leagueID == leagueID {
			out = append(out, result)
		}
	}
	sortResults(out)
	return out, nil
}

func (r *BetResultRepository) ListByMatch(_ context.Context, matchID string) ([]betresult.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []betresult.Result
	for key, result := range r.rows {
		if key.matchID == matchID {
			out = append(out, result)
		}
	}
	sortResults(out)
	return out, nil
}

func sortResults(results []betresult.Result) {
	sort.Slice(results, func(i, j int) bool {
		if !results[i].KickoffAt.Equal(results[j].KickoffAt) {
			return results[i].KickoffAt.Before(results[j].KickoffAt)
		}
		if results[i].MatchID != results[j].MatchID {
			return results[i].MatchID < results[j].MatchID
		}
		return results[i].ParticipantID < results[j].ParticipantID
	})
}
