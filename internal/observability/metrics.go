package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReactionApplies counts reaction apply operations by transition and outcome.
	ReactionApplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillsphere_reaction_applies_total",
		Help: "Total number of reaction apply operations by transition and outcome",
	}, []string{"transition", "outcome"})

	// ReactionRollbacks counts optimistic mutations undone after a remote failure.
	ReactionRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillsphere_reaction_rollbacks_total",
		Help: "Total number of optimistic reaction updates rolled back",
	}, []string{"transition"})

	// APIRequestDuration records remote store request latency by method, route
	// and status ("error" for transport failures).
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skillsphere_api_request_duration_seconds",
		Help:    "Remote store request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// CacheResults counts snapshot cache lookups by entity kind and result.
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillsphere_cache_results_total",
		Help: "Snapshot cache lookups by kind and result",
	}, []string{"kind", "result"})
)
