package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/teamform"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// FormService computes rolling team-performance summaries from the
// match history. Summaries are derived data behind a TTL cache; Rebuild
// always replaces the cached value wholesale.
type FormService struct {
	matchRepo match.Repository
	cache     *cache.Store
	window    int
	logger    *logging.Logger
	now       func() time.Time
}

func NewFormService(matchRepo match.Repository, store *cache.Store, window int, logger *logging.Logger) *FormService {
	if window <= 0 {
		window = teamform.DefaultWindow
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FormService{
		matchRepo: matchRepo,
		cache:     store,
		window:    window,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the cached form, computing it on a miss.
func (s *FormService) Get(ctx context.Context, teamID, competitionID string) (teamform.Form, error) {
	teamID = strings.TrimSpace(teamID)
	competitionID = strings.TrimSpace(competitionID)
	if teamID == "" || competitionID == "" {
		return teamform.Form{}, fmt.Errorf("%w: team and competition are required", ErrInvalidInput)
	}

	if s.cache == nil {
		return s.compute(ctx, teamID, competitionID)
	}

	value, err := s.cache.GetOrLoad(ctx, formCacheKey(teamID, competitionID), func(ctx context.Context) (any, error) {
		return s.compute(ctx, teamID, competitionID)
	})
	if err != nil {
		return teamform.Form{}, err
	}
	form, ok := value.(teamform.Form)
	if !ok {
		return s.compute(ctx, teamID, competitionID)
	}
	return form, nil
}

// Rebuild recomputes from scratch and replaces the cached value. Used
// by correctness audits and after each scored match.
func (s *FormService) Rebuild(ctx context.Context, teamID, competitionID string) (teamform.Form, error) {
	teamID = strings.TrimSpace(teamID)
	competitionID = strings.TrimSpace(competitionID)
	if teamID == "" || competitionID == "" {
		return teamform.Form{}, fmt.Errorf("%w: team and competition are required", ErrInvalidInput)
	}

	form, err := s.compute(ctx, teamID, competitionID)
	if err != nil {
		return teamform.Form{}, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, formCacheKey(teamID, competitionID), form)
	}
	return form, nil
}

func (s *FormService) compute(ctx context.Context, teamID, competitionID string) (teamform.Form, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormService.compute")
	defer span.End()

	matches, err := s.matchRepo.ListFinishedByTeam(ctx, competitionID, teamID, s.window)
	if err != nil {
		return teamform.Form{}, fmt.Errorf("list finished matches for form: %w", err)
	}

	form := teamform.Aggregate(teamID, competitionID, matches, s.window, s.now().UTC())
	if form.Matches == 0 {
		s.logger.DebugContext(ctx, "no match history for form, using neutral",
			"team_id", teamID,
			"competition_id", competitionID,
		)
	}
	return form, nil
}

func formCacheKey(teamID, competitionID string) string {
	return "teamform:" + competitionID + ":" + teamID
}
