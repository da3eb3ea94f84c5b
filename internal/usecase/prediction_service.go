package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/botprofile"
	"github.com/riskibarqy/prediction-league/internal/domain/integration"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/signal"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

type EngineConfig struct {
	// DegradedFactor discounts contributions from degraded providers.
	DegradedFactor float64
	// QualityFloor is the data-quality score at or below which the
	// engine falls back to a pure-form or neutral prediction.
	QualityFloor float64
	// FetchTimeout bounds each provider call; the engine degrades
	// rather than stall on a slow source.
	FetchTimeout time.Duration
	// BaseGoals is the expected goal count of an average side, the
	// anchor the blended differential is applied to.
	BaseGoals float64
	// MaxGoals caps a synthesized scoreline.
	MaxGoals int
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DegradedFactor: 0.75,
		QualityFloor:   0.5,
		FetchTimeout:   5 * time.Second,
		BaseGoals:      1.25,
		MaxGoals:       6,
	}
}

func normalizeEngineConfig(cfg EngineConfig) EngineConfig {
	defaults := DefaultEngineConfig()
	if cfg.DegradedFactor <= 0 || cfg.DegradedFactor > 1 {
		cfg.DegradedFactor = defaults.DegradedFactor
	}
	if cfg.QualityFloor < 0 || cfg.QualityFloor > 1 {
		cfg.QualityFloor = defaults.QualityFloor
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaults.FetchTimeout
	}
	if cfg.BaseGoals <= 0 {
		cfg.BaseGoals = defaults.BaseGoals
	}
	if cfg.MaxGoals < 1 {
		cfg.MaxGoals = defaults.MaxGoals
	}
	return cfg
}

// Diagnostics describes how a prediction was assembled, for
// observability. Events is an outbox of degradation notes appended
// during the computation and drained by the caller.
type Diagnostics struct {
	DataQuality        float64
	UsedCategories     []signal.Category
	ExcludedCategories []signal.Category
	FallbackApplied    bool
	Events             []string
}

// PredictionService is the engine that blends signal snapshots into a
// bot's scoreline. It depends only on the signal.Provider interface,
// never on concrete sources, and it never fails for missing signals: a
// match with zero usable signals still yields a conservative forecast.
type PredictionService struct {
	providers      []signal.Provider
	health         *IntegrationService
	botRepo        botprofile.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	cfg            EngineConfig
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	providers []signal.Provider,
	health *IntegrationService,
	botRepo botprofile.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	cfg EngineConfig,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		providers:      providers,
		health:         health,
		botRepo:        botRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		cfg:            normalizeEngineConfig(cfg),
		logger:         logger,
		now:            time.Now,
	}
}

// Predict synthesizes and stores a bot's prediction for an upcoming
// match.
func (s *PredictionService) Predict(ctx context.Context, botID, matchID string) (prediction.Prediction, Diagnostics, error) {
	botID = strings.TrimSpace(botID)
	matchID = strings.TrimSpace(matchID)
	if botID == "" || matchID == "" {
		return prediction.Prediction{}, Diagnostics{}, fmt.Errorf("%w: bot and match ids are required", ErrInvalidInput)
	}

	bot, ok, err := s.botRepo.Get(ctx, botID)
	if err != nil {
		return prediction.Prediction{}, Diagnostics{}, fmt.Errorf("get bot profile: %w", err)
	}
	if !ok {
		return prediction.Prediction{}, Diagnostics{}, fmt.Errorf("%w: bot=%s", ErrNotFound, botID)
	}

	m, ok, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return prediction.Prediction{}, Diagnostics{}, fmt.Errorf("get match: %w", err)
	}
	if !ok {
		return prediction.Prediction{}, Diagnostics{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return s.PredictForProfile(ctx, bot, m)
}

// PredictForProfile runs the blend for an already-loaded profile and
// match fact and upserts the resulting prediction.
func (s *PredictionService) PredictForProfile(ctx context.Context, bot botprofile.Profile, m match.Fact) (prediction.Prediction, Diagnostics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict")
	defer span.End()

	if m.Finished() || match.IsVoidStatus(m.Status) {
		return prediction.Prediction{}, Diagnostics{}, fmt.Errorf("%w: match=%s status=%s is not predictable", ErrPreconditionFailed, m.ID, m.Status)
	}

	snapshots, diags := s.gatherSignals(ctx, bot, m)
	homeGoals, awayGoals := s.blend(ctx, bot, m, snapshots, &diags)

	p, err := prediction.New(bot.LeagueID, bot.ParticipantID, m.ID, homeGoals, awayGoals, prediction.OriginBot, s.now().UTC())
	if err != nil {
		return prediction.Prediction{}, Diagnostics{}, fmt.Errorf("build bot prediction: %w", err)
	}

	stored, err := s.predictionRepo.Upsert(ctx, p)
	if err != nil {
		return prediction.Prediction{}, Diagnostics{}, fmt.Errorf("upsert bot prediction: %w", err)
	}

	s.logger.InfoContext(ctx, "bot prediction generated",
		"bot_id", bot.ID,
		"match_id", m.ID,
		"scoreline", fmt.Sprintf("%d-%d", homeGoals, awayGoals),
		"data_quality", diags.DataQuality,
		"fallback", diags.FallbackApplied,
	)
	return stored, diags, nil
}

type weightedSnapshot struct {
	snapshot signal.Snapshot
	weight   float64
	discount float64
}

// gatherSignals collects one usable snapshot per configured category.
// A provider in {failed, disabled} or stale is excluded before any
// fetch; Unavailable excludes without touching health; a hard failure
// excludes and counts against the provider's failure streak.
func (s *PredictionService) gatherSignals(ctx context.Context, bot botprofile.Profile, m match.Fact) (map[signal.Category]weightedSnapshot, Diagnostics) {
	weights := bot.Weights.ByCategory()
	usable := make(map[signal.Category]weightedSnapshot)
	excluded := make(map[signal.Category]struct{})
	var diags Diagnostics

	asOf := s.now().UTC()
	for _, provider := range s.providers {
		category := provider.Category()
		weight := weights[category]
		if weight <= 0 {
			continue
		}
		if _, taken := usable[category]; taken {
			continue
		}

		ok, status, err := s.health.UsableForPrediction(ctx, provider.Name())
		if err != nil {
			s.logger.WarnContext(ctx, "provider health lookup failed", "provider", provider.Name(), "error", err)
			excluded[category] = struct{}{}
			continue
		}
		if !ok {
			excluded[category] = struct{}{}
			diags.Events = append(diags.Events, fmt.Sprintf("provider %s excluded: %s", provider.Name(), status.Health))
			continue
		}

		fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		snapshot, found, err := provider.Fetch(fetchCtx, m, asOf)
		cancel()

		if err != nil {
			// Hard failure: counted against health, retried on the
			// provider's own schedule, never synchronously here.
			providerSyncTotal.WithLabelValues(provider.Name(), syncOutcomeFailure).Inc()
			if _, recordErr := s.health.RecordFailure(ctx, provider.Name(), err); recordErr != nil {
				s.logger.ErrorContext(ctx, "record provider failure", "provider", provider.Name(), "error", recordErr)
			}
			excluded[category] = struct{}{}
			diags.Events = append(diags.Events, fmt.Sprintf("provider %s failed: %v", provider.Name(), err))
			continue
		}
		if !found {
			providerSyncTotal.WithLabelValues(provider.Name(), syncOutcomeUnavailable).Inc()
			excluded[category] = struct{}{}
			s.logger.InfoContext(ctx, "signal unavailable", "provider", provider.Name(), "match_id", m.ID)
			continue
		}

		providerSyncTotal.WithLabelValues(provider.Name(), syncOutcomeSuccess).Inc()
		if _, recordErr := s.health.RecordSuccess(ctx, provider.Name()); recordErr != nil {
			s.logger.ErrorContext(ctx, "record provider success", "provider", provider.Name(), "error", recordErr)
		}

		discount := 1.0
		if status.Health == integration.HealthDegraded {
			discount = s.cfg.DegradedFactor
		}
		usable[category] = weightedSnapshot{snapshot: snapshot, weight: weight, discount: discount}
	}

	var usableWeight, totalWeight float64
	for category, weight := range weights {
		if weight <= 0 {
			continue
		}
		totalWeight += weight
		if ws, ok := usable[category]; ok {
			usableWeight += ws.weight
			diags.UsedCategories = append(diags.UsedCategories, category)
		} else {
			if _, wasExcluded := excluded[category]; !wasExcluded {
				diags.Events = append(diags.Events, fmt.Sprintf("no provider configured for category %s", category))
			}
			diags.ExcludedCategories = append(diags.ExcludedCategories, category)
		}
	}
	sortCategories(diags.UsedCategories)
	sortCategories(diags.ExcludedCategories)

	if totalWeight > 0 {
		diags.DataQuality = usableWeight / totalWeight
	}
	return usable, diags
}

// blend maps usable snapshots to a concrete scoreline. Unusable weight
// is redistributed proportionally across the remaining categories so
// the effective weights still sum to the bot's configured total.
func (s *PredictionService) blend(ctx context.Context, bot botprofile.Profile, m match.Fact, snapshots map[signal.Category]weightedSnapshot, diags *Diagnostics) (int, int) {
	if diags.DataQuality <= s.cfg.QualityFloor {
		diags.FallbackApplied = true
		degradationEventsTotal.Inc()
		diags.Events = append(diags.Events, fmt.Sprintf("data quality %.2f at or below floor %.2f, using fallback strategy", diags.DataQuality, s.cfg.QualityFloor))
		s.logger.WarnContext(ctx, "prediction degraded to fallback",
			"bot_id", bot.ID,
			"match_id", m.ID,
			"data_quality", diags.DataQuality,
		)

		// Pure-form fallback when the form signal survived; otherwise
		// a neutral average scoreline.
		if ws, ok := snapshots[signal.CategoryForm]; ok {
			edge := ws.snapshot.HomeEdge * ws.snapshot.Confidence * ws.discount
			return s.mapScoreline(edge, 0)
		}
		neutral := s.roundGoals(s.cfg.BaseGoals)
		return neutral, neutral
	}

	var usableWeight float64
	for _, ws := range snapshots {
		usableWeight += ws.weight
	}
	if usableWeight <= 0 {
		neutral := s.roundGoals(s.cfg.BaseGoals)
		return neutral, neutral
	}

	// Redistribution: scale each usable weight by total/usable so lost
	// categories reallocate trust instead of shrinking the blend.
	scale := bot.Weights.Total() / usableWeight
	var edge float64
	for _, ws := range snapshots {
		effective := ws.weight * scale
		edge += effective * ws.snapshot.HomeEdge * ws.snapshot.Confidence * ws.discount
	}

	return s.mapScoreline(edge, bot.RiskAppetite)
}

// mapScoreline turns a blended score differential into integer goals.
// Deterministic by construction: same edge and risk always produce the
// same scoreline. Cautious personalities keep near-even matches as
// draws; aggressive ones round toward the favored side.
func (s *PredictionService) mapScoreline(edge, risk float64) (int, int) {
	edge = math.Max(-3, math.Min(3, edge))
	spread := edge * (0.75 + 0.5*risk)

	home := s.roundGoals(s.cfg.BaseGoals + spread/2)
	away := s.roundGoals(s.cfg.BaseGoals - spread/2)

	if home == away && edge != 0 && risk >= 0.5 {
		if edge > 0 {
			home++
		} else {
			away++
		}
	}
	return home, away
}

func (s *PredictionService) roundGoals(v float64) int {
	goals := int(math.Round(v))
	if goals < 0 {
		return 0
	}
	if goals > s.cfg.MaxGoals {
		return s.cfg.MaxGoals
	}
	return goals
}

func sortCategories(categories []signal.Category) {
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
}
