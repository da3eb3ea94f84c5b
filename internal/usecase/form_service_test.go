package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/teamform"
	"github.com/riskibarqy/prediction-league/internal/platform/cache"
)

func formFact(day int, homeGoals, awayGoals int) match.Fact {
	return match.Fact{
		ID:            "mx-form-" + string(rune('a'+day)),
		CompetitionID: "comp-1",
		HomeTeamID:    "team-x",
		AwayTeamID:    "team-y",
		KickoffAt:     time.Date(2026, 2, day, 19, 0, 0, 0, time.UTC),
		Status:        match.StatusFinished,
		HomeScore:     scoringIntPtr(homeGoals),
		AwayScore:     scoringIntPtr(awayGoals),
	}
}

func TestFormService_Get_ComputesAndCaches(t *testing.T) {
	t.Parallel()

	matchRepo := &stubMatchRepository{
		history: []match.Fact{formFact(3, 2, 0), formFact(2, 1, 1), formFact(1, 0, 2)},
	}
	service := NewFormService(matchRepo, cache.NewStore(time.Minute), 8, nil)

	form, err := service.Get(context.Background(), "team-x", "comp-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if form.Matches != 3 || form.Wins != 1 || form.Draws != 1 || form.Losses != 1 {
		t.Fatalf("unexpected form: %+v", form)
	}

	if _, err := service.Get(context.Background(), "team-x", "comp-1"); err != nil {
		t.Fatalf("second Get error: %v", err)
	}
	if calls := matchRepo.historyCalls.Load(); calls != 1 {
		t.Fatalf("match history loaded %d times, want 1 (cached)", calls)
	}
}

func TestFormService_Get_NoHistoryYieldsNeutral(t *testing.T) {
	t.Parallel()

	service := NewFormService(&stubMatchRepository{}, cache.NewStore(time.Minute), 8, nil)

	form, err := service.Get(context.Background(), "team-new", "comp-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if form.Matches != 0 || form.Score != teamform.NeutralScore {
		t.Fatalf("expected neutral form, got %+v", form)
	}
}

func TestFormService_Get_InvalidInput(t *testing.T) {
	t.Parallel()

	service := NewFormService(&stubMatchRepository{}, nil, 8, nil)

	if _, err := service.Get(context.Background(), "", "comp-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestFormService_Rebuild_ReplacesCachedValue(t *testing.T) {
	t.Parallel()

	matchRepo := &stubMatchRepository{history: []match.Fact{formFact(1, 2, 0)}}
	service := NewFormService(matchRepo, cache.NewStore(time.Minute), 8, nil)
	ctx := context.Background()

	if _, err := service.Get(ctx, "team-x", "comp-1"); err != nil {
		t.Fatalf("Get error: %v", err)
	}

	matchRepo.history = append([]match.Fact{formFact(2, 3, 0)}, matchRepo.history...)

	form, err := service.Rebuild(ctx, "team-x", "comp-1")
	if err != nil {
		t.Fatalf("Rebuild error: %v", err)
	}
	if form.Matches != 2 {
		t.Fatalf("Matches = %d, want 2 after rebuild", form.Matches)
	}

	cached, err := service.Get(ctx, "team-x", "comp-1")
	if err != nil {
		t.Fatalf("Get after rebuild error: %v", err)
	}
	if cached.Matches != 2 {
		t.Fatalf("cached Matches = %d, want rebuilt value", cached.Matches)
	}
}

func TestFormService_Get_WithoutCacheRecomputes(t *testing.T) {
	t.Parallel()

	matchRepo := &stubMatchRepository{history: []match.Fact{formFact(1, 1, 0)}}
	service := NewFormService(matchRepo, nil, 8, nil)
	ctx := context.Background()

	if _, err := service.Get(ctx, "team-x", "comp-1"); err != nil {
		t.Fatalf("first Get error: %v", err)
	}
	if _, err := service.Get(ctx, "team-x", "comp-1"); err != nil {
		t.Fatalf("second Get error: %v", err)
	}
	if calls := matchRepo.historyCalls.Load(); calls != 2 {
		t.Fatalf("match history loaded %d times, want 2 without cache", calls)
	}
}
