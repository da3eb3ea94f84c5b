package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/prediction-league/internal/domain/betresult"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const defaultScoringWorkers = 8

// ScoringRuleSource supplies each league's scoring constants. The
// league service owns them; this core only consumes.
type ScoringRuleSource interface {
	ScoringRule(ctx context.Context, leagueID string) (betresult.Rule, error)
}

// StandingRecomputer is implemented by StandingService; an interface
// here keeps the fan-out testable without a real standings stack.
type StandingRecomputer interface {
	Recompute(ctx context.Context, leagueID string) error
}

type ScoringService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	resultRepo     betresult.Repository
	rules          ScoringRuleSource
	standings      StandingRecomputer
	workerCount    int
	logger         *logging.Logger
	now            func() time.Time
}

type ScoreMatchResult struct {
	MatchID     string   `json:"match_id"`
	ScoredCount int      `json:"scored_count"`
	FailedCount int      `json:"failed_count"`
	Leagues     []string `json:"leagues"`
	DurationMs  int64    `json:"duration_ms"`
}

func NewScoringService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	resultRepo betresult.Repository,
	rules ScoringRuleSource,
	standings StandingRecomputer,
	workerCount int,
	logger *logging.Logger,
) *ScoringService {
	if workerCount < 1 {
		workerCount = defaultScoringWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		resultRepo:     resultRepo,
		rules:          rules,
		standings:      standings,
		workerCount:    workerCount,
		logger:         logger,
		now:            time.Now,
	}
}

// ScoreBet scores one prediction against one finished match. Pure and
// deterministic: recomputation yields the same result. Calling it on an
// unfinished match is a caller bug surfaced as a precondition error.
func (s *ScoringService) ScoreBet(p prediction.Prediction, m match.Fact, rule betresult.Rule) (betresult.Result, error) {
	result, err := betresult.Score(p, m, rule, s.now().UTC())
	if err != nil {
		if errors.Is(err, betresult.ErrMatchNotFinished) {
			return betresult.Result{}, fmt.Errorf("%w: %v", ErrPreconditionFailed, err)
		}
		return betresult.Result{}, err
	}
	return result, nil
}

// ScoreFinishedMatch fans scoring out over every prediction placed on
// the match and then recomputes standings for each touched league.
// Standings run strictly after all of that league's results are
// persisted; the whole operation is idempotent and safe to retry.
func (s *ScoringService) ScoreFinishedMatch(ctx context.Context, matchID string) (ScoreMatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreFinishedMatch")
	defer span.End()

	start := s.now()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return ScoreMatchResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, ok, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return ScoreMatchResult{}, fmt.Errorf("get match for scoring: %w", err)
	}
	if !ok {
		return ScoreMatchResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if !m.Finished() {
		return ScoreMatchResult{}, fmt.Errorf("%w: match=%s status=%s", ErrPreconditionFailed, matchID, m.Status)
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return ScoreMatchResult{}, fmt.Errorf("list predictions by match: %w", err)
	}

	result := ScoreMatchResult{MatchID: matchID}
	if len(predictions) == 0 {
		result.DurationMs = time.Since(start).Milliseconds()
		return result, nil
	}

	ruleByLeague, err := s.resolveRules(ctx, predictions)
	if err != nil {
		return ScoreMatchResult{}, err
	}

	var scored, failed atomic.Int32
	leagueSet := make(map[string]struct{})
	var leagueMu sync.Mutex

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return ScoreMatchResult{}, fmt.Errorf("create scoring worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, p := range predictions {
		p := p
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			rule := ruleByLeague[p.LeagueID]
			res, scoreErr := s.ScoreBet(p, m, rule)
			if scoreErr != nil {
				failed.Add(1)
				s.logger.ErrorContext(ctx, "score bet failed",
					"match_id", matchID,
					"league_id", p.LeagueID,
					"participant_id", p.ParticipantID,
					"error", scoreErr,
				)
				return
			}
			if upsertErr := s.resultRepo.Upsert(ctx, res); upsertErr != nil {
				failed.Add(1)
				s.logger.ErrorContext(ctx, "persist bet result failed",
					"match_id", matchID,
					"league_id", p.LeagueID,
					"participant_id", p.ParticipantID,
					"error", upsertErr,
				)
				return
			}

			scored.Add(1)
			betsScoredTotal.Inc()
			leagueMu.Lock()
			leagueSet[p.LeagueID] = struct{}{}
			leagueMu.Unlock()
		}); err != nil {
			workers.Done()
			return ScoreMatchResult{}, fmt.Errorf("submit scoring task: %w", err)
		}
	}
	workers.Wait()

	leagues := make([]string, 0, len(leagueSet))
	for leagueID := range leagueSet {
		leagues = append(leagues, leagueID)
	}
	sort.Strings(leagues)

	// Standings only after the match's results are persisted, one
	// league at a time so each league's table updates as a unit.
	for _, leagueID := range leagues {
		if err := s.standings.Recompute(ctx, leagueID); err != nil {
			return ScoreMatchResult{}, fmt.Errorf("recompute standings league=%s: %w", leagueID, err)
		}
	}

	result.ScoredCount = int(scored.Load())
	result.FailedCount = int(failed.Load())
	result.Leagues = leagues
	result.DurationMs = time.Since(start).Milliseconds()

	s.logger.InfoContext(ctx, "match scored",
		"match_id", matchID,
		"scored", result.ScoredCount,
		"failed", result.FailedCount,
		"leagues", len(leagues),
	)
	return result, nil
}

func (s *ScoringService) resolveRules(ctx context.Context, predictions []prediction.Prediction) (map[string]betresult.Rule, error) {
	out := make(map[string]betresult.Rule)
	for _, p := range predictions {
		if _, ok := out[p.LeagueID]; ok {
			continue
		}
		rule, err := s.rules.ScoringRule(ctx, p.LeagueID)
		if err != nil {
			return nil, fmt.Errorf("resolve scoring rule league=%s: %w", p.LeagueID, err)
		}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("scoring rule league=%s: %w", p.LeagueID, err)
		}
		out[p.LeagueID] = rule
	}
	return out, nil
}
