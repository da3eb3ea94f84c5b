package xg

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://api.statsfeed.io/v1"
	defaultTimeout = 10 * time.Second
)

var errXGTransient = crerr.New("xg feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	RateLimit      rate.Limit
	RateBurst      int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the expected-goals feed. One client backs both the
// attacking and defensive xG providers.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	limiter        *rate.Limiter
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	logger         *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limit := cfg.RateLimit
	if limit <= 0 {
		limit = rate.Limit(5)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		limiter:        rate.NewLimiter(limit, burst),
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		logger:         logger,
	}
}

// MatchXG is the normalized feed payload for one fixture.
type MatchXG struct {
	HomeXG     float64
	AwayXG     float64
	HomeXGA    float64
	AwayXGA    float64
	SampleSize int
}

type matchXGEnvelope struct {
	Data struct {
		HomeXG     float64 `json:"home_xg"`
		AwayXG     float64 `json:"away_xg"`
		HomeXGA    float64 `json:"home_xga"`
		AwayXGA    float64 `json:"away_xga"`
		SampleSize int     `json:"sample_size"`
	} `json:"data"`
}

// FetchMatchXG returns (payload, true, nil) on success and
// (zero, false, nil) when the feed has no data for the match.
func (c *Client) FetchMatchXG(ctx context.Context, matchID string) (MatchXG, bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchXG{}, false, crerr.New("match id is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return MatchXG{}, false, fmt.Errorf("xg rate limiter: %w", err)
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return MatchXG{}, false, fmt.Errorf("xg feed is temporarily unavailable: %w", err)
		}
	}

	var envelope matchXGEnvelope
	found, err := c.doJSON(ctx, "/matches/"+matchID+"/xg", &envelope)
	if err != nil {
		if c.circuitEnabled {
			c.breaker.RecordFailure()
		}
		return MatchXG{}, false, err
	}
	if c.circuitEnabled {
		c.breaker.RecordSuccess()
	}
	if !found {
		return MatchXG{}, false, nil
	}

	return MatchXG{
		HomeXG:     envelope.Data.HomeXG,
		AwayXG:     envelope.Data.AwayXG,
		HomeXGA:    envelope.Data.HomeXGA,
		AwayXGA:    envelope.Data.AwayXGA,
		SampleSize: envelope.Data.SampleSize,
	}, true, nil
}

func (c *Client) doJSON(ctx context.Context, path string, out any) (bool, error) {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}

		found, err := c.doJSONOnce(ctx, url, out)
		if err == nil {
			return found, nil
		}
		lastErr = err
		if !stderrors.Is(err, errXGTransient) {
			return false, err
		}
		c.logger.WarnContext(ctx, "xg feed request retrying", "path", path, "attempt", attempt+1, "error", err)
	}

	return false, fmt.Errorf("xg feed request exhausted retries: %w", lastErr)
}

func (c *Client) doJSONOnce(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, crerr.Wrap(err, "create xg request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, crerr.Mark(crerr.Wrap(err, "xg request"), errXGTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, crerr.Mark(crerr.Wrap(err, "read xg response"), errXGTransient)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return false, crerr.Mark(crerr.Newf("xg feed status %d", resp.StatusCode), errXGTransient)
	case resp.StatusCode != http.StatusOK:
		return false, crerr.Newf("xg feed status %d", resp.StatusCode)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return false, crerr.Wrap(err, "decode xg response")
	}
	return true, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
