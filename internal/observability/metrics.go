// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts processed conversation turns by resulting funnel stage.
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salespipe",
		Name:      "conversation_turns_total",
		Help:      "Number of conversation turns processed, labeled by resulting stage.",
	}, []string{"stage"})

	// GenerationFallbacksTotal counts turns answered with a canned fallback
	// reply because the generation backend failed.
	GenerationFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "salespipe",
		Name:      "generation_fallbacks_total",
		Help:      "Number of turns answered with a canned fallback reply.",
	})

	// ActiveSessions tracks the number of live conversation sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "salespipe",
		Name:      "active_sessions",
		Help:      "Number of conversation sessions currently held in memory.",
	})

	// GenerationDuration observes the wall time of reply generation calls.
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "salespipe",
		Name:      "generation_duration_seconds",
		Help:      "Latency of reply generation calls, fallbacks included.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	// WebExtractionsTotal counts page extraction attempts by outcome.
	WebExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salespipe",
		Name:      "web_extractions_total",
		Help:      "Number of web page extraction attempts, labeled by outcome.",
	}, []string{"outcome"})
)
