package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/standing"
)

type StandingRepository struct {
	mu       sync.RWMutex
	byLeague map[string][]standing.Entry
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{byLeague: make(map[string][]standing.Entry)}
}

func (r *StandingRepository) ListByLeague(_ context.Context, leagueID string) ([]standing.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byLeague[leagueID]
	out := make([]standing.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (r *StandingRepository) ReplaceByLeague(_ context.Context, leagueID string, entries []standing.Entry) error {
	stored := make([]standing.Entry, len(entries))
	copy(stored, entries)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLeague[leagueID] = stored
	return nil
}
