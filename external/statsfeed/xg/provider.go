package xg

import (
	"context"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/signal"
)

// sampleSizeForFullConfidence is the fixture sample at which the feed's
// trend is trusted fully.
const sampleSizeForFullConfidence = 10

// Provider exposes the attacking xG trend as a signal.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string              { return "statsfeed-xg" }
func (p *Provider) Category() signal.Category { return signal.CategoryXG }

func (p *Provider) Fetch(ctx context.Context, m match.Fact, asOf time.Time) (signal.Snapshot, bool, error) {
	payload, found, err := p.client.FetchMatchXG(ctx, m.ID)
	if err != nil || !found {
		return signal.Snapshot{}, false, err
	}

	return signal.Snapshot{
		Provider:   p.Name(),
		Category:   p.Category(),
		MatchID:    m.ID,
		HomeEdge:   payload.HomeXG - payload.AwayXG,
		Confidence: sampleConfidence(payload.SampleSize),
		ComputedAt: asOf,
	}, true, nil
}

// AgainstProvider reads the defensive side of the same payload: more
// expected goals conceded by the away side favors the home team.
type AgainstProvider struct {
	client *Client
}

func NewAgainstProvider(client *Client) *AgainstProvider {
	return &AgainstProvider{client: client}
}

func (p *AgainstProvider) Name() string              { return "statsfeed-xg-against" }
func (p *AgainstProvider) Category() signal.Category { return signal.CategoryXGAgainst }

func (p *AgainstProvider) Fetch(ctx context.Context, m match.Fact, asOf time.Time) (signal.Snapshot, bool, error) {
	payload, found, err := p.client.FetchMatchXG(ctx, m.ID)
	if err != nil || !found {
		return signal.Snapshot{}, false, err
	}

	return signal.Snapshot{
		Provider:   p.Name(),
		Category:   p.Category(),
		MatchID:    m.ID,
		HomeEdge:   payload.AwayXGA - payload.HomeXGA,
		Confidence: sampleConfidence(payload.SampleSize),
		ComputedAt: asOf,
	}, true, nil
}

func sampleConfidence(sampleSize int) float64 {
	if sampleSize <= 0 {
		return 0
	}
	confidence := float64(sampleSize) / sampleSizeForFullConfidence
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}
