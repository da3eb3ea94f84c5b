package injury

import (
	"context"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/signal"
)

// impactEdgeScale converts an impact differential into a goal
// differential. Impact scores typically sit in [0,1] per side.
const impactEdgeScale = 1.5

const (
	confirmedConfidence   = 0.9
	provisionalConfidence = 0.5
)

// Provider exposes squad availability as a signal. A harder-hit away
// squad shifts the edge toward the home team.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string              { return "squadwatch" }
func (p *Provider) Category() signal.Category { return signal.CategoryInjuries }

func (p *Provider) Fetch(ctx context.Context, m match.Fact, asOf time.Time) (signal.Snapshot, bool, error) {
	availability, found, err := p.client.FetchMatchAvailability(ctx, m.ID)
	if err != nil || !found {
		return signal.Snapshot{}, false, err
	}

	confidence := provisionalConfidence
	if availability.Confirmed {
		confidence = confirmedConfidence
	}

	return signal.Snapshot{
		Provider:   p.Name(),
		Category:   p.Category(),
		MatchID:    m.ID,
		HomeEdge:   (availability.AwayImpact - availability.HomeImpact) * impactEdgeScale,
		Confidence: confidence,
		ComputedAt: asOf,
	}, true, nil
}
