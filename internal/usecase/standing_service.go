package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/prediction-league/internal/domain/betresult"
	"github.com/riskibarqy/prediction-league/internal/domain/standing"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const defaultSweepWorkers = 4

// StandingService rebuilds league tables from bet results. Every
// recompute is a full fold from the ground truth, so reruns are
// idempotent and partial failures are retried from scratch.
type StandingService struct {
	resultRepo   betresult.Repository
	standingRepo standing.Repository
	sweepWorkers int
	logger       *logging.Logger
	now          func() time.Time

	mu          sync.Mutex
	leagueLocks map[string]*sync.Mutex
}

func NewStandingService(resultRepo betresult.Repository, standingRepo standing.Repository, sweepWorkers int, logger *logging.Logger) *StandingService {
	if sweepWorkers < 1 {
		sweepWorkers = defaultSweepWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingService{
		resultRepo:   resultRepo,
		standingRepo: standingRepo,
		sweepWorkers: sweepWorkers,
		logger:       logger,
		now:          time.Now,
		leagueLocks:  make(map[string]*sync.Mutex),
	}
}

// Recompute rebuilds one league's standings and replaces the stored
// table as a unit. Recomputations for the same league are serialized;
// different leagues run freely in parallel.
func (s *StandingService) Recompute(ctx context.Context, leagueID string) error {
	_, err := s.RecomputeEntries(ctx, leagueID)
	return err
}

func (s *StandingService) RecomputeEntries(ctx context.Context, leagueID string) ([]standing.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.Recompute")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	lock := s.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	results, err := s.resultRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list bet results by league: %w", err)
	}

	entries := standing.Fold(leagueID, results, s.now().UTC())
	if err := s.standingRepo.ReplaceByLeague(ctx, leagueID, entries); err != nil {
		return nil, fmt.Errorf("replace standings league=%s: %w", leagueID, err)
	}

	standingsRecomputesTotal.Inc()
	s.logger.DebugContext(ctx, "standings recomputed",
		"league_id", leagueID,
		"participants", len(entries),
		"results", len(results),
	)
	return entries, nil
}

// ListByLeague returns the stored table without recomputing.
func (s *StandingService) ListByLeague(ctx context.Context, leagueID string) ([]standing.Entry, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	entries, err := s.standingRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	return entries, nil
}

// RecomputeAll sweeps every given league. Cancellation is cooperative
// at league boundaries: an in-flight league finishes, queued leagues
// are skipped, so no league is ever left half-written.
func (s *StandingService) RecomputeAll(ctx context.Context, leagueIDs []string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.RecomputeAll")
	defer span.End()

	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.sweepWorkers)
	var done sync.Map

	for _, leagueID := range leagueIDs {
		leagueID := leagueID
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.Recompute(ctx, leagueID); err != nil {
				return err
			}
			done.Store(leagueID, struct{}{})
			return nil
		})
	}

	err := p.Wait()

	completed := 0
	done.Range(func(_, _ any) bool {
		completed++
		return true
	})

	if err != nil {
		return completed, fmt.Errorf("standings sweep: %w", err)
	}
	return completed, nil
}

func (s *StandingService) leagueLock(leagueID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.leagueLocks[leagueID]
	if !ok {
		lock = &sync.Mutex{}
		s.leagueLocks[leagueID] = lock
	}
	return lock
}
