// Package metrics exposes the Prometheus instruments for the agent.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sofia",
		Name:      "turns_total",
		Help:      "Conversation turns handled, by tenant and outcome.",
	}, []string{"tenant", "status"})

	TurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sofia",
		Name:      "turn_duration_seconds",
		Help:      "End-to-end turn processing latency.",
		Buckets:   prometheus.DefBuckets,
	})

	FunctionCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sofia",
		Name:      "function_calls_total",
		Help:      "Function call outcomes, by function name and status.",
	}, []string{"function", "status"})

	ModelInvokeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sofia",
		Name:      "model_invoke_duration_seconds",
		Help:      "Latency of the proposal model invocation.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	HotLeadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sofia",
		Name:      "hot_leads_total",
		Help:      "Conversations classified as hot leads, by tenant.",
	}, []string{"tenant"})
)
