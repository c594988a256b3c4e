package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LiveRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kambafy_live_refreshes_total",
		Help: "Admin live view recomputations by view and result.",
	}, []string{"view", "result"})

	LiveRefreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kambafy_live_refresh_duration_seconds",
		Help:    "Time spent re-fetching and aggregating a live view.",
		Buckets: prometheus.DefBuckets,
	}, []string{"view"})

	LiveTriggers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kambafy_live_triggers_total",
		Help: "Refresh triggers received by source; coalesced triggers are counted too.",
	}, []string{"view", "source"})

	ProgressWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kambafy_progress_writes_total",
		Help: "Playback position updates by outcome (persisted, throttled, failed).",
	}, []string{"outcome"})

	FunctionCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kambafy_function_calls_total",
		Help: "Serverless function invocations by function name and result.",
	}, []string{"function", "result"})

	RealtimeSubscribers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kambafy_realtime_subscribers",
		Help: "Current subscribers per realtime channel.",
	}, []string{"channel"})
)
