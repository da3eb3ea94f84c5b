package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	betsScoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "prediction_league",
		Name:      "bets_scored_total",
		Help:      "Bet results computed, including idempotent recomputes.",
	})

	standingsRecomputesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "prediction_league",
		Name:      "standings_recomputes_total",
		Help:      "Full per-league standings rebuilds.",
	})

	degradationEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "prediction_league",
		Name:      "prediction_degradation_events_total",
		Help:      "Predictions produced below the data-quality floor.",
	})

	providerSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prediction_league",
		Name:      "provider_sync_total",
		Help:      "Signal provider fetch outcomes.",
	}, []string{"provider", "outcome"})
)

const (
	syncOutcomeSuccess     = "success"
	syncOutcomeFailure     = "failure"
	syncOutcomeUnavailable = "unavailable"
)
