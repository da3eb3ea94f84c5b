package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/botprofile"
)

type BotProfileRepository struct {
	mu   sync.RWMutex
	byID map[string]botprofile.Profile
}

func NewBotProfileRepository(profiles []botprofile.Profile) *BotProfileRepository {
	byID := make(map[string]botprofile.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	return &BotProfileRepository{byID: byID}
}

func (r *BotProfileRepository) Get(_ context.Context, botID string) (botprofile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[botID]
	return p, ok, nil
}

func (r *BotProfileRepository) List(_ context.Context) ([]botprofile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]botprofile.Profile, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BotProfileRepository) ListByLeague(_ context.Context, leagueID string) ([]botprofile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []botprofile.Profile
	for _, p := range r.byID {
		if p.LeagueID == leagueID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
