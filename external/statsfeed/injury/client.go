package injury

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
	defaultBaseURL = "https://api.squadwatch.dev/v1"
	defaultTimeout = 10 * time.Second
)

var errInjuryTransient = crerr.New("injury feed transient failure")

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

// Client talks to the squad-availability feed.
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
		limit = rate.Limit(2)
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

// MatchAvailability summarizes squad damage on both sides of a fixture.
// Impact is the feed's weighted severity score, where key absentees
// count more than fringe players.
type MatchAvailability struct {
	HomeImpact    float64
	AwayImpact    float64
	HomeAbsentees int
	AwayAbsentees int
	Confirmed     bool
}

type availabilityEnvelope struct {
	Data struct {
		HomeImpact    float64 `json:"home_impact"`
		AwayImpact    float64 `json:"away_impact"`
		HomeAbsentees int     `json:"home_absentees"`
		AwayAbsentees int     `json:"away_absentees"`
		Confirmed     bool    `json:"confirmed"`
	} `json:"data"`
}

// FetchMatchAvailability returns (payload, true, nil) on success and
// (zero, false, nil) when the feed has not assessed the match yet.
func (c *Client) FetchMatchAvailability(ctx context.Context, matchID string) (MatchAvailability, bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchAvailability{}, false, crerr.New("match id is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return MatchAvailability{}, false, fmt.Errorf("injury rate limiter: %w", err)
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return MatchAvailability{}, false, fmt.Errorf("injury feed is temporarily unavailable: %w", err)
		}
	}

	var envelope availabilityEnvelope
	found, err := c.doJSON(ctx, "/matches/"+matchID+"/availability", &envelope)
	if err != nil {
		if c.circuitEnabled {
			c.breaker.RecordFailure()
		}
		return MatchAvailability{}, false, err
	}
	if c.circuitEnabled {
		c.breaker.RecordSuccess()
	}
	if !found {
		return MatchAvailability{}, false, nil
	}

	return MatchAvailability{
		HomeImpact:    envelope.Data.HomeImpact,
		AwayImpact:    envelope.Data.AwayImpact,
		HomeAbsentees: envelope.Data.HomeAbsentees,
		AwayAbsentees: envelope.Data.AwayAbsentees,
		Confirmed:     envelope.Data.Confirmed,
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
		if !stderrors.Is(err, errInjuryTransient) {
			return false, err
		}
		c.logger.WarnContext(ctx, "injury feed request retrying", "path", path, "attempt", attempt+1, "error", err)
	}

	return false, fmt.Errorf("injury feed request exhausted retries: %w", lastErr)
}

func (c *Client) doJSONOnce(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, crerr.Wrap(err, "create injury request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, crerr.Mark(crerr.Wrap(err, "injury request"), errInjuryTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, crerr.Mark(crerr.Wrap(err, "read injury response"), errInjuryTransient)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return false, crerr.Mark(crerr.Newf("injury feed status %d", resp.StatusCode), errInjuryTransient)
	case resp.StatusCode != http.StatusOK:
		return false, crerr.Newf("injury feed status %d", resp.StatusCode)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return false, crerr.Wrap(err, "decode injury response")
	}
	return true, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
