package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
)

type predictionKey struct {
	leagueID      string
	participantID string
	matchID       string
}

type PredictionRepository struct {
	mu   sync.RWMutex
	rows map[predictionKey]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{rows: make(map[predictionKey]prediction.Prediction)}
}

func (r *PredictionRepository) Upsert(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := predictionKey{leagueID: p.LeagueID, participantID: p.ParticipantID, matchID: p.MatchID}
	if existing, ok := r.rows[key]; ok {
		p.CreatedAt = existing.CreatedAt
	}
	r.rows[key] = p
	return p, nil
}

func (r *PredictionRepository) Get(_ context.Context, leagueID, participantID, matchID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.rows[predictionKey{leagueID: leagueID, participantID: participantID, matchID: matchID}]
	return p, ok, nil
}

func (r *PredictionRepository) ListByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prediction.Prediction
	for key, p := range r.rows {
		if key.matchID == matchID {
			out = append(out, p)
		}
	}
	sortPredictions(out)
	return out, nil
}

func sortPredictions(preds []prediction.Prediction) {
	sort.Slice(preds, func(i, j int) bool {
		if preds[i].LeagueID != preds[j].LeagueID {
			return preds[i].LeagueID < preds[j].LeagueID
		}
		if preds[i].MatchID != preds[j].MatchID {
			return preds[i].MatchID < preds[j].MatchID
		}
		return preds[i].ParticipantID < preds[j].ParticipantID
	})
}

func (r *PredictionRepository) ListByLeague(_ context.Context, leagueID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []prediction.Prediction
	for key, p := range r.rows {
		if key.leagueID == leagueID {
			out = append(out, p)
		}
	}
	sortPredictions(out)
	return out, nil
}
