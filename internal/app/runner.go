package app

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/botprofile"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type RunnerConfig struct {
	SweepInterval  time.Duration
	SweepLookback  time.Duration
	PredictionLead time.Duration
}

// Runner drives the engine's two periodic passes: scoring recently
// finished matches and placing bot predictions ahead of kickoff. Both
// passes are idempotent, so overlapping sweeps after a restart are
// harmless.
type Runner struct {
	cfg         RunnerConfig
	matchRepo   match.Repository
	botRepo     botprofile.Repository
	scoring     *usecase.ScoringService
	predictions *usecase.PredictionService
	sweepIDs    id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewRunner(
	cfg RunnerConfig,
	matchRepo match.Repository,
	botRepo botprofile.Repository,
	scoring *usecase.ScoringService,
	predictions *usecase.PredictionService,
	logger *logging.Logger,
) *Runner {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if cfg.SweepLookback <= 0 {
		cfg.SweepLookback = 48 * time.Hour
	}
	if cfg.PredictionLead <= 0 {
		cfg.PredictionLead = 2 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{
		cfg:         cfg,
		matchRepo:   matchRepo,
		botRepo:     botRepo,
		scoring:     scoring,
		predictions: predictions,
		sweepIDs:    id.NewRandomGenerator(),
		logger:      logger,
		now:         time.Now,
	}
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "runner starting",
		"sweep_interval", r.cfg.SweepInterval.String(),
		"sweep_lookback", r.cfg.SweepLookback.String(),
		"prediction_lead", r.cfg.PredictionLead.String(),
	)

	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	r.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	// One opaque ID per sweep so a tick's log lines correlate.
	sweepID, err := r.sweepIDs.NewID()
	if err != nil {
		r.logger.ErrorContext(ctx, "generate sweep id failed", "error", err)
		sweepID = "unidentified"
	}
	logger := r.logger.With("sweep_id", sweepID)

	r.sweepScores(ctx, logger)
	r.placeBotPredictions(ctx, logger)
}

func (r *Runner) sweepScores(ctx context.Context, logger *logging.Logger) {
	since := r.now().UTC().Add(-r.cfg.SweepLookback)
	facts, err := r.matchRepo.ListFinishedSince(ctx, since)
	if err != nil {
		logger.ErrorContext(ctx, "score sweep list failed", "error", err)
		return
	}

	for _, fact := range facts {
		if ctx.Err() != nil {
			return
		}
		summary, err := r.scoring.ScoreFinishedMatch(ctx, fact.ID)
		if err != nil {
			logger.ErrorContext(ctx, "score sweep match failed", "match_id", fact.ID, "error", err)
			continue
		}
		if summary.ScoredCount > 0 {
			logger.InfoContext(ctx, "score sweep match done",
				"match_id", fact.ID,
				"scored", summary.ScoredCount,
				"failed", summary.FailedCount,
				"leagues", len(summary.Leagues),
			)
		}
	}
}

func (r *Runner) placeBotPredictions(ctx context.Context, logger *logging.Logger) {
	now := r.now().UTC()
	upcoming, err := r.matchRepo.ListScheduledBetween(ctx, now, now.Add(r.cfg.PredictionLead))
	if err != nil {
		logger.ErrorContext(ctx, "prediction pass list matches failed", "error", err)
		return
	}
	if len(upcoming) == 0 {
		return
	}

	bots, err := r.botRepo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "prediction pass list bots failed", "error", err)
		return
	}

	for _, fact := range upcoming {
		for _, bot := range bots {
			if ctx.Err() != nil {
				return
			}
			pred, diags, err := r.predictions.PredictForProfile(ctx, bot, fact)
			if err != nil {
				logger.WarnContext(ctx, "bot prediction failed", "bot_id", bot.ID, "match_id", fact.ID, "error", err)
				continue
			}
			logger.DebugContext(ctx, "bot prediction placed",
				"bot_id", bot.ID,
				"match_id", fact.ID,
				"scoreline", scorelineLabel(pred.HomeGoals, pred.AwayGoals),
				"data_quality", diags.DataQuality,
				"fallback", diags.FallbackApplied,
			)
		}
	}
}

func scorelineLabel(home, away int) string {
	return fmt.Sprintf("%d-%d", home, away)
}
