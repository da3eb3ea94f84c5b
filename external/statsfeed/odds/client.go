package odds

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
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://api.oddsboard.dev/v2"
	defaultTimeout = 10 * time.Second
)

var errOddsTransient = crerr.New("odds feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RateLimit      rate.Limit
	RateBurst      int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches market prices and reduces them to implied
// probabilities. Bookmaker odds carry an overround; probabilities are
// normalized with decimal arithmetic before the edge is derived.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
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
		limit = rate.Limit(3)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		limiter:        rate.NewLimiter(limit, burst),
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		logger:         logger,
	}
}

// ImpliedProbabilities is the overround-free market view of one match.
type ImpliedProbabilities struct {
	Home       float64
	Draw       float64
	Away       float64
	Bookmakers int
}

type oddsEnvelope struct {
	Data []bookmakerOdds `json:"data"`
}

type bookmakerOdds struct {
	Bookmaker string `json:"bookmaker"`
	Home      string `json:"home"`
	Draw      string `json:"draw"`
	Away      string `json:"away"`
}

// FetchImpliedProbabilities averages the implied probabilities across
// all quoting bookmakers. (zero, false, nil) means no market quotes the
// match yet.
func (c *Client) FetchImpliedProbabilities(ctx context.Context, matchID string) (ImpliedProbabilities, bool, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return ImpliedProbabilities{}, false, crerr.New("match id is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return ImpliedProbabilities{}, false, fmt.Errorf("odds rate limiter: %w", err)
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return ImpliedProbabilities{}, false, fmt.Errorf("odds feed is temporarily unavailable: %w", err)
		}
	}

	var envelope oddsEnvelope
	found, err := c.doJSON(ctx, "/matches/"+matchID+"/odds", &envelope)
	if err != nil {
		if c.circuitEnabled {
			c.breaker.RecordFailure()
		}
		return ImpliedProbabilities{}, false, err
	}
	if c.circuitEnabled {
		c.breaker.RecordSuccess()
	}
	if !found || len(envelope.Data) == 0 {
		return ImpliedProbabilities{}, false, nil
	}

	return reduceImplied(envelope.Data)
}

// reduceImplied converts each bookmaker's decimal odds into normalized
// probabilities and averages across books.
func reduceImplied(books []bookmakerOdds) (ImpliedProbabilities, bool, error) {
	one := decimal.NewFromInt(1)
	sumHome := decimal.Zero
	sumDraw := decimal.Zero
	sumAway := decimal.Zero
	counted := 0

	for _, book := range books {
		home, errHome := decimal.NewFromString(strings.TrimSpace(book.Home))
		draw, errDraw := decimal.NewFromString(strings.TrimSpace(book.Draw))
		away, errAway := decimal.NewFromString(strings.TrimSpace(book.Away))
		if errHome != nil || errDraw != nil || errAway != nil {
			return ImpliedProbabilities{}, false, crerr.Newf("malformed odds from bookmaker %s", book.Bookmaker)
		}
		if home.LessThanOrEqual(one) || draw.LessThanOrEqual(one) || away.LessThanOrEqual(one) {
			continue
		}

		rawHome := one.Div(home)
		rawDraw := one.Div(draw)
		rawAway := one.Div(away)
		overround := rawHome.Add(rawDraw).Add(rawAway)
		if overround.IsZero() {
			continue
		}

		sumHome = sumHome.Add(rawHome.Div(overround))
		sumDraw = sumDraw.Add(rawDraw.Div(overround))
		sumAway = sumAway.Add(rawAway.Div(overround))
		counted++
	}

	if counted == 0 {
		return ImpliedProbabilities{}, false, nil
	}

	n := decimal.NewFromInt(int64(counted))
	return ImpliedProbabilities{
		Home:       sumHome.Div(n).InexactFloat64(),
		Draw:       sumDraw.Div(n).InexactFloat64(),
		Away:       sumAway.Div(n).InexactFloat64(),
		Bookmakers: counted,
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
		if !stderrors.Is(err, errOddsTransient) {
			return false, err
		}
		c.logger.WarnContext(ctx, "odds feed request retrying", "path", path, "attempt", attempt+1, "error", err)
	}

	return false, fmt.Errorf("odds feed request exhausted retries: %w", lastErr)
}

func (c *Client) doJSONOnce(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, crerr.Wrap(err, "create odds request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, crerr.Mark(crerr.Wrap(err, "odds request"), errOddsTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, crerr.Mark(crerr.Wrap(err, "read odds response"), errOddsTransient)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return false, crerr.Mark(crerr.Newf("odds feed status %d", resp.StatusCode), errOddsTransient)
	case resp.StatusCode != http.StatusOK:
		return false, crerr.Newf("odds feed status %d", resp.StatusCode)
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return false, crerr.Wrap(err, "decode odds response")
	}
	return true, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
