package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/betresult"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
)

var scoringKickoff = time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC)

func scoringIntPtr(v int) *int { return &v }

func finishedFact(matchID string, home, away int) match.Fact {
	return match.Fact{
		ID:            matchID,
		CompetitionID: "comp-1",
		HomeTeamID:    "team-h",
		AwayTeamID:    "team-a",
		KickoffAt:     scoringKickoff,
		Status:        match.StatusFinished,
		HomeScore:     scoringIntPtr(home),
		AwayScore:     scoringIntPtr(away),
	}
}

func storedPrediction(leagueID, participantID, matchID string, home, away int) prediction.Prediction {
	return prediction.Prediction{
		LeagueID:      leagueID,
		ParticipantID: participantID,
		MatchID:       matchID,
		HomeGoals:     home,
		AwayGoals:     away,
		Origin:        prediction.OriginHuman,
	}
}

func TestScoringService_ScoreFinishedMatch_FanOut(t *testing.T) {
	t.Parallel()

	const matchID = "mx-1"
	matchRepo := &stubMatchRepository{
		byID: map[string]match.Fact{matchID: finishedFact(matchID, 2, 1)},
	}
	predictionRepo := newStubPredictionRepository(
		storedPrediction("lg-a", "pt-1", matchID, 2, 1),
		storedPrediction("lg-a", "pt-2", matchID, 1, 0),
		storedPrediction("lg-b", "pt-3", matchID, 0, 2),
	)
	resultRepo := newStubBetResultRepository()
	standings := &recordingStandings{}

	service := NewScoringService(matchRepo, predictionRepo, resultRepo, &stubRuleSource{rule: betresult.DefaultRule()}, standings, 4, nil)

	got, err := service.ScoreFinishedMatch(context.Background(), matchID)
	if err != nil {
		t.Fatalf("ScoreFinishedMatch error: %v", err)
	}
	if got.ScoredCount != 3 || got.FailedCount != 0 {
		t.Fatalf("scored/failed = %d/%d, want 3/0", got.ScoredCount, got.FailedCount)
	}
	if len(got.Leagues) != 2 || got.Leagues[0] != "lg-a" || got.Leagues[1] != "lg-b" {
		t.Fatalf("Leagues = %v, want [lg-a lg-b]", got.Leagues)
	}

	exact, ok := resultRepo.get("lg-a", "pt-1", matchID)
	if !ok || exact.Points != 3 || !exact.Exact {
		t.Fatalf("exact result = %+v", exact)
	}
	outcome, ok := resultRepo.get("lg-a", "pt-2", matchID)
	if !ok || outcome.Points != 1 || outcome.Exact || !outcome.CorrectOutcome {
		t.Fatalf("outcome result = %+v", outcome)
	}
	miss, ok := resultRepo.get("lg-b", "pt-3", matchID)
	if !ok || miss.Points != 0 || miss.CorrectOutcome {
		t.Fatalf("miss result = %+v", miss)
	}

	if recomputed := standings.recomputed(); len(recomputed) != 2 || recomputed[0] != "lg-a" || recomputed[1] != "lg-b" {
		t.Fatalf("standings recomputed for %v, want [lg-a lg-b]", recomputed)
	}
}

func TestScoringService_ScoreFinishedMatch_Idempotent(t *testing.T) {
	t.Parallel()

	const matchID = "mx-1"
	matchRepo := &stubMatchRepository{
		byID: map[string]match.Fact{matchID: finishedFact(matchID, 1, 1)},
	}
	predictionRepo := newStubPredictionRepository(
		storedPrediction("lg-a", "pt-1", matchID, 1, 1),
		storedPrediction("lg-a", "pt-2", matchID, 0, 0),
	)
	resultRepo := newStubBetResultRepository()

	service := NewScoringService(matchRepo, predictionRepo, resultRepo, &stubRuleSource{rule: betresult.DefaultRule()}, &recordingStandings{}, 2, nil)

	first, err := service.ScoreFinishedMatch(context.Background(), matchID)
	if err != nil {
		t.Fatalf("first run error: %v", err)
	}
	second, err := service.ScoreFinishedMatch(context.Background(), matchID)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}

	if first.ScoredCount != second.ScoredCount {
		t.Fatalf("scored counts diverged: %d vs %d", first.ScoredCount, second.ScoredCount)
	}
	if resultRepo.len() != 2 {
		t.Fatalf("result rows = %d, want 2 after rescoring", resultRepo.len())
	}

	a, _ := resultRepo.get("lg-a", "pt-1", matchID)
	if a.Points != 3 || !a.Exact {
		t.Fatalf("rescored result changed: %+v", a)
	}
}

func TestScoringService_ScoreFinishedMatch_NoPredictions(t *testing.T) {
	t.Parallel()

	const matchID = "mx-1"
	matchRepo := &stubMatchRepository{
		byID: map[string]match.Fact{matchID: finishedFact(matchID, 3, 0)},
	}
	standings := &recordingStandings{}

	service := NewScoringService(matchRepo, newStubPredictionRepository(), newStubBetResultRepository(), &stubRuleSource{rule: betresult.DefaultRule()}, standings, 2, nil)

	got, err := service.ScoreFinishedMatch(context.Background(), matchID)
	if err != nil {
		t.Fatalf("ScoreFinishedMatch error: %v", err)
	}
	if got.ScoredCount != 0 || got.FailedCount != 0 {
		t.Fatalf("scored/failed = %d/%d, want 0/0", got.ScoredCount, got.FailedCount)
	}
	if len(standings.recomputed()) != 0 {
		t.Fatalf("standings recomputed %v, want none", standings.recomputed())
	}
}

func TestScoringService_ScoreFinishedMatch_UnfinishedMatch(t *testing.T) {
	t.Parallel()

	fact := finishedFact("mx-1", 0, 0)
	fact.Status = match.StatusInPlay
	fact.HomeScore = nil
	fact.AwayScore = nil
	matchRepo := &stubMatchRepository{byID: map[string]match.Fact{"mx-1": fact}}

	service := NewScoringService(matchRepo, newStubPredictionRepository(), newStubBetResultRepository(), &stubRuleSource{rule: betresult.DefaultRule()}, &recordingStandings{}, 2, nil)

	_, err := service.ScoreFinishedMatch(context.Background(), "mx-1")
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}
}

func TestScoringService_ScoreFinishedMatch_MatchNotFound(t *testing.T) {
	t.Parallel()

	service := NewScoringService(&stubMatchRepository{}, newStubPredictionRepository(), newStubBetResultRepository(), &stubRuleSource{rule: betresult.DefaultRule()}, &recordingStandings{}, 2, nil)

	_, err := service.ScoreFinishedMatch(context.Background(), "mx-missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestScoringService_ScoreFinishedMatch_InvalidRule(t *testing.T) {
	t.Parallel()

	const matchID = "mx-1"
	matchRepo := &stubMatchRepository{
		byID: map[string]match.Fact{matchID: finishedFact(matchID, 1, 0)},
	}
	predictionRepo := newStubPredictionRepository(storedPrediction("lg-a", "pt-1", matchID, 1, 0))
	rules := &stubRuleSource{rule: betresult.Rule{ExactPoints: 1, OutcomePoints: 2}}

	service := NewScoringService(matchRepo, predictionRepo, newStubBetResultRepository(), rules, &recordingStandings{}, 2, nil)

	_, err := service.ScoreFinishedMatch(context.Background(), matchID)
	if !errors.Is(err, betresult.ErrInvalidRule) {
		t.Fatalf("err = %v, want ErrInvalidRule", err)
	}
}

func TestScoringService_ScoreBet_UnfinishedMatch(t *testing.T) {
	t.Parallel()

	service := NewScoringService(&stubMatchRepository{}, newStubPredictionRepository(), newStubBetResultRepository(), &stubRuleSource{rule: betresult.DefaultRule()}, &recordingStandings{}, 2, nil)

	fact := finishedFact("mx-1", 0, 0)
	fact.Status = match.StatusScheduled
	fact.HomeScore = nil
	fact.AwayScore = nil

	_, err := service.ScoreBet(storedPrediction("lg-a", "pt-1", "mx-1", 1, 0), fact, betresult.DefaultRule())
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}
}

type stubMatchRepository struct {
	byID         map[string]match.Fact
	history      []match.Fact
	historyCalls atomic.Int32
}

func (s *stubMatchRepository) GetByID(_ context.Context, matchID string) (match.Fact, bool, error) {
	fact, ok := s.byID[matchID]
	return fact, ok, nil
}

func (s *stubMatchRepository) ListFinishedByTeam(_ context.Context, _, _ string, limit int) ([]match.Fact, error) {
	s.historyCalls.Add(1)
	out := make([]match.Fact, len(s.history))
	copy(out, s.history)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubMatchRepository) ListFinishedSince(_ context.Context, _ time.Time) ([]match.Fact, error) {
	return nil, nil
}

func (s *stubMatchRepository) ListScheduledBetween(_ context.Context, _, _ time.Time) ([]match.Fact, error) {
	return nil, nil
}

type stubPredictionRepository struct {
	mu   sync.Mutex
	rows map[string]prediction.Prediction
}

func newStubPredictionRepository(preds ...prediction.Prediction) *stubPredictionRepository {
	repo := &stubPredictionRepository{rows: make(map[string]prediction.Prediction)}
	for _, p := range preds {
		repo.rows[predictionRowKey(p.LeagueID, p.ParticipantID, p.MatchID)] = p
	}
	return repo
}

func predictionRowKey(leagueID, participantID, matchID string) string {
	return leagueID + "|" + participantID + "|" + matchID
}

func (s *stubPredictionRepository) Upsert(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := predictionRowKey(p.LeagueID, p.ParticipantID, p.MatchID)
	if existing, ok := s.rows[key]; ok {
		p.CreatedAt = existing.CreatedAt
	}
	s.rows[key] = p
	return p, nil
}

func (s *stubPredictionRepository) Get(_ context.Context, leagueID, participantID, matchID string) (prediction.Prediction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.rows[predictionRowKey(leagueID, participantID, matchID)]
	return p, ok, nil
}

func (s *stubPredictionRepository) ListByMatch(_ context.Context, matchID string) ([]prediction.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []prediction.Prediction
	for _, p := range s.rows {
		if p.MatchID == matchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPredictionRepository) ListByLeague(_ context.Context, leagueID string) ([]prediction.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []prediction.Prediction
	for _, p := range s.rows {
		if p.LeagueID == leagueID {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubBetResultRepository struct {
	mu   sync.Mutex
	rows map[string]betresult.Result
}

func newStubBetResultRepository() *stubBetResultRepository {
	return &stubBetResultRepository{rows: make(map[string]betresult.Result)}
}

func (s *stubBetResultRepository) Upsert(_ context.Context, r betresult.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[predictionRowKey(r.LeagueID, r.ParticipantID, r.MatchID)] = r
	return nil
}

func (s *stubBetResultRepository) ListByLeague(_ context.Context, leagueID string) ([]betresult.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []betresult.Result
	for _, r := range s.rows {
		if r.LeagueID == leagueID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubBetResultRepository) ListByMatch(_ context.Context, matchID string) ([]betresult.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []betresult.Result
	for _, r := range s.rows {
		if r.MatchID == matchID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubBetResultRepository) get(leagueID, participantID, matchID string) (betresult.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[predictionRowKey(leagueID, participantID, matchID)]
	return r, ok
}

func (s *stubBetResultRepository) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

type stubRuleSource struct {
	rule betresult.Rule
	err  error
}

func (s *stubRuleSource) ScoringRule(_ context.Context, _ string) (betresult.Rule, error) {
	return s.rule, s.err
}

type recordingStandings struct {
	mu      sync.Mutex
	leagues []string
	err     error
}

func (s *recordingStandings) Recompute(_ context.Context, leagueID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.leagues = append(s.leagues, leagueID)
	return nil
}

func (s *recordingStandings) recomputed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.leagues))
	copy(out, s.leagues)
	return out
}
