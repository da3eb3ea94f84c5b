package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	byID  map[string]match.Fact
	order []string
}

func NewMatchRepository(facts []match.Fact) *MatchRepository {
	r := &MatchRepository{byID: make(map[string]match.Fact, len(facts))}
	for _, f := range facts {
		r.put(f)
	}
	return r
}

// Put replaces the stored fact wholesale, mirroring how the feed
// delivers match updates.
func (r *MatchRepository) Put(_ context.Context, f match.Fact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(f)
	return nil
}

func (r *MatchRepository) put(f match.Fact) {
	if _, ok := r.byID[f.ID]; !ok {
		r.order = append(r.order, f.ID)
	}
	r.byID[f.ID] = f
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Fact, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[matchID]
	return f, ok, nil
}

func (r *MatchRepository) ListFinishedByTeam(_ context.Context, competitionID, teamID string, limit int) ([]match.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Fact
	for _, id := range r.order {
		f := r.byID[id]
		if f.CompetitionID != competitionID || !f.Finished() {
			continue
		}
		if f.HomeTeamID != teamID && f.AwayTeamID != teamID {
			continue
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.After(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MatchRepository) ListFinishedSince(_ context.Context, since time.Time) ([]match.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Fact
	for _, id := range r.order {
		f := r.byID[id]
		if f.Finished() && !f.KickoffAt.Before(since) {
			out = append(out, f)
		}
	}
	sortByKickoff(out)
	return out, nil
}

func (r *MatchRepository) ListScheduledBetween(_ context.Context, from, to time.Time) ([]match.Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []match.Fact
	for _, id := range r.order {
		f := r.byID[id]
		if match.NormalizeStatus(f.Status) != match.StatusScheduled {
			continue
		}
		if f.KickoffAt.Before(from) || f.KickoffAt.After(to) {
			continue
		}
		out = append(out, f)
	}
	sortByKickoff(out)
	return out, nil
}

func sortByKickoff(facts []match.Fact) {
	sort.Slice(facts, func(i, j int) bool {
		if !facts[i].KickoffAt.Equal(facts[j].KickoffAt) {
			return facts[i].KickoffAt.Before(facts[j].KickoffAt)
		}
		return facts[i].ID < facts[j].ID
	})
}
