package odds

import (
	"context"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/signal"
)

// probabilityEdgeScale converts a win-probability differential in
// [-1,1] into a goal differential.
const probabilityEdgeScale = 2.5

// booksForFullConfidence is the bookmaker count at which market
// consensus is trusted fully.
const booksForFullConfidence = 5

// Provider exposes market-implied probabilities as a signal.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string              { return "oddsboard" }
func (p *Provider) Category() signal.Category { return signal.CategoryOdds }

func (p *Provider) Fetch(ctx context.Context, m match.Fact, asOf time.Time) (signal.Snapshot, bool, error) {
	implied, found, err := p.client.FetchImpliedProbabilities(ctx, m.ID)
	if err != nil || !found {
		return signal.Snapshot{}, false, err
	}

	confidence := float64(implied.Bookmakers) / booksForFullConfidence
	if confidence > 1 {
		confidence = 1
	}

	return signal.Snapshot{
		Provider:   p.Name(),
		Category:   p.Category(),
		MatchID:    m.ID,
		HomeEdge:   (implied.Home - implied.Away) * probabilityEdgeScale,
		Confidence: confidence,
		ComputedAt: asOf,
	}, true, nil
}
