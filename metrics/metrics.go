// Package metrics exposes the guard's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ViolationsTotal counts recorded violations per check.
	ViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hyperguard",
		Name:      "violations_total",
		Help:      "Violations recorded, per check.",
	}, []string{"check"})

	// ActionsTotal counts actions dispatched on threshold crossings.
	ActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hyperguard",
		Name:      "actions_total",
		Help:      "Actions dispatched on threshold crossings, per action.",
	}, []string{"action"})

	// TrackedPlayers gauges the number of players currently tracked.
	TrackedPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hyperguard",
		Name:      "tracked_players",
		Help:      "Players currently tracked.",
	})

	// TickDuration observes the wall time of full tick passes.
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hyperguard",
		Name:      "tick_duration_seconds",
		Help:      "Duration of a full tick pass over all players.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
	})

	// CheckPanics counts panics recovered during check processing.
	CheckPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hyperguard",
		Name:      "check_panics_total",
		Help:      "Panics recovered during check processing, per check.",
	}, []string{"check"})
)
