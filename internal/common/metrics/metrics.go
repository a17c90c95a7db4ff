package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActionsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_actions_processed_total",
			Help: "Total number of actions processed by the gateway",
		},
		[]string{"action"},
	)

	ActionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_actions_failed_total",
			Help: "Total number of actions that returned a failure envelope",
		},
		[]string{"action", "error_code"},
	)

	ActionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gateway_action_duration_seconds",
			Help: "Duration of action processing in seconds",
		},
		[]string{"action"},
	)

	ModelInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_model_invocations_total",
			Help: "Total number of upstream model invocations",
		},
		[]string{"model", "status"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"backend"},
	)
)
