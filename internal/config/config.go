package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the engine.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	DBURL          string

	ScoreSweepInterval time.Duration
	ScoreSweepLookback time.Duration
	PredictionLead     time.Duration
	ScoringWorkers     int
	StandingWorkers    int

	FormWindow   int
	FormCacheTTL time.Duration

	EngineDegradedFactor float64
	EngineQualityFloor   float64
	EngineFetchTimeout   time.Duration
	StaleThreshold       time.Duration

	XGFeedEnabled        bool
	XGFeedBaseURL        string
	XGFeedToken          string
	XGFeedTimeout        time.Duration
	XGFeedMaxRetries     int
	OddsFeedEnabled      bool
	OddsFeedBaseURL      string
	OddsFeedAPIKey       string
	OddsFeedTimeout      time.Duration
	OddsFeedMaxRetries   int
	InjuryFeedEnabled    bool
	InjuryFeedBaseURL    string
	InjuryFeedToken      string
	InjuryFeedTimeout    time.Duration
	InjuryFeedMaxRetries int

	FeedCircuitEnabled        bool
	FeedCircuitFailureCount   int
	FeedCircuitOpenTimeout    time.Duration
	FeedCircuitHalfOpenMaxReq int

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	BetterStackEnabled         bool
	BetterStackEndpoint        string
	BetterStackToken           string
	BetterStackTimeout         time.Duration
	BetterStackMinLevel        logging.Level
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "prediction-league-engine"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		DBURL:          strings.TrimSpace(getEnv("DB_URL", "")),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	cfg.ScoreSweepInterval, err = getEnvAsDuration("SCORE_SWEEP_INTERVAL", "5m")
	if err != nil {
		return Config{}, err
	}
	cfg.ScoreSweepLookback, err = getEnvAsDuration("SCORE_SWEEP_LOOKBACK", "48h")
	if err != nil {
		return Config{}, err
	}
	cfg.PredictionLead, err = getEnvAsDuration("PREDICTION_LEAD", "2h")
	if err != nil {
		return Config{}, err
	}

	cfg.ScoringWorkers, err = getEnvAsInt("SCORING_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_WORKERS: %w", err)
	}
	if cfg.ScoringWorkers < 1 {
		return Config{}, fmt.Errorf("SCORING_WORKERS must be >= 1")
	}
	cfg.StandingWorkers, err = getEnvAsInt("STANDING_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse STANDING_WORKERS: %w", err)
	}
	if cfg.StandingWorkers < 1 {
		return Config{}, fmt.Errorf("STANDING_WORKERS must be >= 1")
	}

	cfg.FormWindow, err = getEnvAsInt("FORM_WINDOW", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse FORM_WINDOW: %w", err)
	}
	if cfg.FormWindow < 1 {
		return Config{}, fmt.Errorf("FORM_WINDOW must be >= 1")
	}
	cfg.FormCacheTTL, err = getEnvAsDuration("FORM_CACHE_TTL", "60s")
	if err != nil {
		return Config{}, err
	}

	cfg.EngineDegradedFactor, err = getEnvAsFloat("PREDICTION_DEGRADED_FACTOR", 0.75)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTION_DEGRADED_FACTOR: %w", err)
	}
	if cfg.EngineDegradedFactor <= 0 || cfg.EngineDegradedFactor > 1 {
		return Config{}, fmt.Errorf("PREDICTION_DEGRADED_FACTOR must be in (0, 1]")
	}
	cfg.EngineQualityFloor, err = getEnvAsFloat("PREDICTION_QUALITY_FLOOR", 0.5)
	if err != nil {
		return Config{}, fmt.Errorf("parse PREDICTION_QUALITY_FLOOR: %w", err)
	}
	if cfg.EngineQualityFloor < 0 || cfg.EngineQualityFloor > 1 {
		return Config{}, fmt.Errorf("PREDICTION_QUALITY_FLOOR must be in [0, 1]")
	}
	cfg.EngineFetchTimeout, err = getEnvAsDuration("PREDICTION_FETCH_TIMEOUT", "5s")
	if err != nil {
		return Config{}, err
	}
	cfg.StaleThreshold, err = getEnvAsDuration("INTEGRATION_STALE_THRESHOLD", "30m")
	if err != nil {
		return Config{}, err
	}

	if err := cfg.loadFeeds(); err != nil {
		return Config{}, err
	}
	if err := cfg.loadObservability(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg *Config) loadFeeds() error {
	var err error

	cfg.XGFeedEnabled, err = getEnvAsBool("XG_FEED_ENABLED", "false")
	if err != nil {
		return err
	}
	cfg.XGFeedBaseURL = strings.TrimSpace(getEnv("XG_FEED_BASE_URL", "https://api.statsfeed.io/v1"))
	cfg.XGFeedToken = strings.TrimSpace(getEnv("XG_FEED_TOKEN", ""))
	if cfg.XGFeedEnabled && cfg.XGFeedToken == "" {
		return fmt.Errorf("XG_FEED_TOKEN is required when XG_FEED_ENABLED=true")
	}
	cfg.XGFeedTimeout, err = getEnvAsDuration("XG_FEED_TIMEOUT", "10s")
	if err != nil {
		return err
	}
	cfg.XGFeedMaxRetries, err = getEnvAsInt("XG_FEED_MAX_RETRIES", 1)
	if err != nil {
		return fmt.Errorf("parse XG_FEED_MAX_RETRIES: %w", err)
	}

	cfg.OddsFeedEnabled, err = getEnvAsBool("ODDS_FEED_ENABLED", "false")
	if err != nil {
		return err
	}
	cfg.OddsFeedBaseURL = strings.TrimSpace(getEnv("ODDS_FEED_BASE_URL", "https://api.oddsboard.dev/v2"))
	cfg.OddsFeedAPIKey = strings.TrimSpace(getEnv("ODDS_FEED_API_KEY", ""))
	if cfg.OddsFeedEnabled && cfg.OddsFeedAPIKey == "" {
		return fmt.Errorf("ODDS_FEED_API_KEY is required when ODDS_FEED_ENABLED=true")
	}
	cfg.OddsFeedTimeout, err = getEnvAsDuration("ODDS_FEED_TIMEOUT", "10s")
	if err != nil {
		return err
	}
	cfg.OddsFeedMaxRetries, err = getEnvAsInt("ODDS_FEED_MAX_RETRIES", 1)
	if err != nil {
		return fmt.Errorf("parse ODDS_FEED_MAX_RETRIES: %w", err)
	}

	cfg.InjuryFeedEnabled, err = getEnvAsBool("INJURY_FEED_ENABLED", "false")
	if err != nil {
		return err
	}
	cfg.InjuryFeedBaseURL = strings.TrimSpace(getEnv("INJURY_FEED_BASE_URL", "https://api.squadwatch.dev/v1"))
	cfg.InjuryFeedToken = strings.TrimSpace(getEnv("INJURY_FEED_TOKEN", ""))
	if cfg.InjuryFeedEnabled && cfg.InjuryFeedToken == "" {
		return fmt.Errorf("INJURY_FEED_TOKEN is required when INJURY_FEED_ENABLED=true")
	}
	cfg.InjuryFeedTimeout, err = getEnvAsDuration("INJURY_FEED_TIMEOUT", "10s")
	if err != nil {
		return err
	}
	cfg.InjuryFeedMaxRetries, err = getEnvAsInt("INJURY_FEED_MAX_RETRIES", 1)
	if err != nil {
		return fmt.Errorf("parse INJURY_FEED_MAX_RETRIES: %w", err)
	}

	cfg.FeedCircuitEnabled, err = getEnvAsBool("FEED_CIRCUIT_ENABLED", "true")
	if err != nil {
		return err
	}
	cfg.FeedCircuitFailureCount, err = getEnvAsInt("FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return fmt.Errorf("parse FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.FeedCircuitFailureCount < 1 {
		return fmt.Errorf("FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.FeedCircuitOpenTimeout, err = getEnvAsDuration("FEED_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return err
	}
	cfg.FeedCircuitHalfOpenMaxReq, err = getEnvAsInt("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return fmt.Errorf("parse FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.FeedCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	return nil
}

func (cfg *Config) loadObservability() error {
	var err error

	cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false")
	if err != nil {
		return err
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false")
	if err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg.BetterStackEnabled, err = getEnvAsBool("BETTERSTACK_ENABLED", "false")
	if err != nil {
		return err
	}
	cfg.BetterStackEndpoint = strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if cfg.BetterStackEnabled && cfg.BetterStackEndpoint == "" {
		return fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	cfg.BetterStackToken = strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", ""))
	cfg.BetterStackTimeout, err = getEnvAsDuration("BETTERSTACK_TIMEOUT", "3s")
	if err != nil {
		return err
	}
	cfg.BetterStackMinLevel = parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))

	cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false")
	if err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return err
	}

	return nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
}
