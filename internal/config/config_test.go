package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("AppEnv = %q, want %q", cfg.AppEnv, EnvDev)
	}
	if cfg.ScoreSweepInterval != 5*time.Minute {
		t.Fatalf("ScoreSweepInterval = %s, want 5m", cfg.ScoreSweepInterval)
	}
	if cfg.EngineDegradedFactor != 0.75 {
		t.Fatalf("EngineDegradedFactor = %v, want 0.75", cfg.EngineDegradedFactor)
	}
	if cfg.EngineQualityFloor != 0.5 {
		t.Fatalf("EngineQualityFloor = %v, want 0.5", cfg.EngineQualityFloor)
	}
	if cfg.ScoringWorkers != 8 {
		t.Fatalf("ScoringWorkers = %d, want 8", cfg.ScoringWorkers)
	}
	if cfg.FeedCircuitEnabled != true {
		t.Fatal("FeedCircuitEnabled = false, want true")
	}
}

func TestLoadInvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded with invalid APP_ENV")
	}
}

func TestLoadEngineKnobs(t *testing.T) {
	t.Setenv("PREDICTION_DEGRADED_FACTOR", "0.6")
	t.Setenv("PREDICTION_QUALITY_FLOOR", "0.4")
	t.Setenv("PREDICTION_FETCH_TIMEOUT", "2s")
	t.Setenv("FORM_WINDOW", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.EngineDegradedFactor != 0.6 {
		t.Fatalf("EngineDegradedFactor = %v, want 0.6", cfg.EngineDegradedFactor)
	}
	if cfg.EngineQualityFloor != 0.4 {
		t.Fatalf("EngineQualityFloor = %v, want 0.4", cfg.EngineQualityFloor)
	}
	if cfg.EngineFetchTimeout != 2*time.Second {
		t.Fatalf("EngineFetchTimeout = %s, want 2s", cfg.EngineFetchTimeout)
	}
	if cfg.FormWindow != 5 {
		t.Fatalf("FormWindow = %d, want 5", cfg.FormWindow)
	}
}

func TestLoadRejectsOutOfRangeFactor(t *testing.T) {
	t.Setenv("PREDICTION_DEGRADED_FACTOR", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded with PREDICTION_DEGRADED_FACTOR out of range")
	}
}

func TestLoadFeedTokenRequiredWhenEnabled(t *testing.T) {
	t.Setenv("XG_FEED_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded without XG_FEED_TOKEN")
	}
}
