package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/integration"
)

type IntegrationRepository struct {
	mu         sync.RWMutex
	byProvider map[string]integration.Status
}

func NewIntegrationRepository() *IntegrationRepository {
	return &IntegrationRepository{byProvider: make(map[string]integration.Status)}
}

func (r *IntegrationRepository) Get(_ context.Context, provider string) (integration.Status, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byProvider[provider]
	return s, ok, nil
}

func (r *IntegrationRepository) Upsert(_ context.Context, s integration.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byProvider[s.Provider] = s
	return nil
}

func (r *IntegrationRepository) List(_ context.Context) ([]integration.Status, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]integration.Status, 0, len(r.byProvider))
	for _, s := range r.byProvider {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out, nil
}
