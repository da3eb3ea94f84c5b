package app

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/prediction-league/external/statsfeed/injury"
	"github.com/riskibarqy/prediction-league/external/statsfeed/odds"
	"github.com/riskibarqy/prediction-league/external/statsfeed/xg"
	"github.com/riskibarqy/prediction-league/internal/config"
	"github.com/riskibarqy/prediction-league/internal/domain/betresult"
	"github.com/riskibarqy/prediction-league/internal/domain/botprofile"
	"github.com/riskibarqy/prediction-league/internal/domain/integration"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/signal"
	"github.com/riskibarqy/prediction-league/internal/domain/standing"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/signalsource"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// App holds the wired engine. With an empty DB_URL it runs fully
// in-memory on seed data, which is how local development works.
type App struct {
	Forms        *usecase.FormService
	Integrations *usecase.IntegrationService
	Standings    *usecase.StandingService
	Scoring      *usecase.ScoringService
	Predictions  *usecase.PredictionService
	Runner       *Runner

	db     *sqlx.DB
	logger *logging.Logger
}

// defaultRuleSource applies the stock scoring rule to every league.
// Per-league rule storage hangs off this interface when it lands.
type defaultRuleSource struct{}

func (defaultRuleSource) ScoringRule(context.Context, string) (betresult.Rule, error) {
	return betresult.DefaultRule(), nil
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		db             *sqlx.DB
		matchRepo      match.Repository
		predictionRepo prediction.Repository
		resultRepo     betresult.Repository
		standingRepo   standing.Repository
		botRepo        botprofile.Repository
		statusRepo     integration.Repository
	)

	if cfg.DBURL != "" {
		opened, err := openDB(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		db = opened
		matchRepo = postgres.NewMatchRepository(db)
		predictionRepo = postgres.NewPredictionRepository(db)
		resultRepo = postgres.NewBetResultRepository(db)
		standingRepo = postgres.NewStandingRepository(db)
		botRepo = postgres.NewBotProfileRepository(db)
		statusRepo = postgres.NewIntegrationRepository(db)
	} else {
		logger.Info("running in-memory", "reason", "DB_URL empty")
		matchRepo = memory.NewMatchRepository(memory.SeedMatches())
		predictionRepo = memory.NewPredictionRepository()
		resultRepo = memory.NewBetResultRepository()
		standingRepo = memory.NewStandingRepository()
		botRepo = memory.NewBotProfileRepository(memory.SeedBotProfiles())
		statusRepo = memory.NewIntegrationRepository()
	}

	forms := usecase.NewFormService(matchRepo, cache.NewStore(cfg.FormCacheTTL), cfg.FormWindow, logger)
	integrations := usecase.NewIntegrationService(statusRepo, usecase.IntegrationConfig{
		StaleThreshold: cfg.StaleThreshold,
	}, logger)
	standings := usecase.NewStandingService(resultRepo, standingRepo, cfg.StandingWorkers, logger)
	scoring := usecase.NewScoringService(matchRepo, predictionRepo, resultRepo, defaultRuleSource{}, standings, cfg.ScoringWorkers, logger)

	providers := buildProviders(cfg, forms, logger)

	engineCfg := usecase.DefaultEngineConfig()
	engineCfg.DegradedFactor = cfg.EngineDegradedFactor
	engineCfg.QualityFloor = cfg.EngineQualityFloor
	engineCfg.FetchTimeout = cfg.EngineFetchTimeout

	predictions := usecase.NewPredictionService(providers, integrations, botRepo, matchRepo, predictionRepo, engineCfg, logger)

	runner := NewRunner(RunnerConfig{
		SweepInterval:  cfg.ScoreSweepInterval,
		SweepLookback:  cfg.ScoreSweepLookback,
		PredictionLead: cfg.PredictionLead,
	}, matchRepo, botRepo, scoring, predictions, logger)

	return &App{
		Forms:        forms,
		Integrations: integrations,
		Standings:    standings,
		Scoring:      scoring,
		Predictions:  predictions,
		Runner:       runner,
		db:           db,
		logger:       logger,
	}, nil
}

func buildProviders(cfg config.Config, forms *usecase.FormService, logger *logging.Logger) []signal.Provider {
	circuit := resilience.CircuitBreakerConfig{
		Enabled:          cfg.FeedCircuitEnabled,
		FailureThreshold: cfg.FeedCircuitFailureCount,
		OpenTimeout:      cfg.FeedCircuitOpenTimeout,
		HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
	}

	providers := []signal.Provider{
		signalsource.NewFormProvider(forms, cfg.FormWindow),
		signalsource.NewDefensiveFormProvider(forms, cfg.FormWindow),
	}

	if cfg.XGFeedEnabled {
		client := xg.NewClient(xg.ClientConfig{
			BaseURL:        cfg.XGFeedBaseURL,
			Token:          cfg.XGFeedToken,
			Timeout:        cfg.XGFeedTimeout,
			MaxRetries:     cfg.XGFeedMaxRetries,
			Logger:         logger,
			CircuitBreaker: circuit,
		})
		providers = append(providers, xg.NewProvider(client), xg.NewAgainstProvider(client))
	}

	if cfg.OddsFeedEnabled {
		client := odds.NewClient(odds.ClientConfig{
			BaseURL:        cfg.OddsFeedBaseURL,
			APIKey:         cfg.OddsFeedAPIKey,
			Timeout:        cfg.OddsFeedTimeout,
			MaxRetries:     cfg.OddsFeedMaxRetries,
			Logger:         logger,
			CircuitBreaker: circuit,
		})
		providers = append(providers, odds.NewProvider(client))
	}

	if cfg.InjuryFeedEnabled {
		client := injury.NewClient(injury.ClientConfig{
			BaseURL:        cfg.InjuryFeedBaseURL,
			Token:          cfg.InjuryFeedToken,
			Timeout:        cfg.InjuryFeedTimeout,
			MaxRetries:     cfg.InjuryFeedMaxRetries,
			Logger:         logger,
			CircuitBreaker: circuit,
		})
		providers = append(providers, injury.NewProvider(client))
	}

	return providers
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
