package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
)

func TestPredictionRepository_Upsert_PreservesCreatedAt(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	ctx := context.Background()

	created := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	original, err := prediction.New("lg-1", "pt-1", "mx-1", 1, 0, prediction.OriginHuman, created)
	if err != nil {
		t.Fatalf("build prediction: %v", err)
	}
	if _, err := repo.Upsert(ctx, original); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	updated, err := prediction.New("lg-1", "pt-1", "mx-1", 2, 2, prediction.OriginHuman, created.Add(time.Hour))
	if err != nil {
		t.Fatalf("build replacement: %v", err)
	}
	stored, err := repo.Upsert(ctx, updated)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if !stored.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %v, want original %v", stored.CreatedAt, created)
	}
	if !stored.UpdatedAt.Equal(created.Add(time.Hour)) {
		t.Fatalf("UpdatedAt = %v, want replacement time", stored.UpdatedAt)
	}
	if stored.HomeGoals != 2 || stored.AwayGoals != 2 {
		t.Fatalf("scoreline = %d-%d, want replaced 2-2", stored.HomeGoals, stored.AwayGoals)
	}

	got, ok, err := repo.Get(ctx, "lg-1", "pt-1", "mx-1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%t err=%v", ok, err)
	}
	if got.HomeGoals != 2 {
		t.Fatalf("stored scoreline = %d-%d", got.HomeGoals, got.AwayGoals)
	}
}

func TestPredictionRepository_ListByMatch_SortsDeterministically(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	for _, ids := range [][2]string{{"lg-b", "pt-1"}, {"lg-a", "pt-2"}, {"lg-a", "pt-1"}} {
		p, err := prediction.New(ids[0], ids[1], "mx-1", 1, 1, prediction.OriginHuman, now)
		if err != nil {
			t.Fatalf("build prediction: %v", err)
		}
		if _, err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	preds, err := repo.ListByMatch(ctx, "mx-1")
	if err != nil {
		t.Fatalf("ListByMatch: %v", err)
	}
	if len(preds) != 3 {
		t.Fatalf("got %d predictions, want 3", len(preds))
	}
	if preds[0].LeagueID != "lg-a" || preds[0].ParticipantID != "pt-1" {
		t.Fatalf("unexpected first row: %+v", preds[0])
	}
	if preds[2].LeagueID != "lg-b" {
		t.Fatalf("unexpected last row: %+v", preds[2])
	}
}
