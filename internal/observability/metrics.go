// Package observability wires Prometheus metrics into the completion
// pipeline.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"codefill/internal/llmclient"
)

var backendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "codefill_backend_requests_total",
		Help: "Total number of streaming completion calls dispatched to the backend",
	},
	[]string{"model"},
)

var backendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "codefill_backend_request_duration_seconds",
		Help:    "Wall time from dispatch until the streaming call settled",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
	},
	[]string{"model", "outcome"},
)

var backendRequestErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "codefill_backend_request_errors_total",
		Help: "Total number of backend calls that settled with an error",
	},
	[]string{"model"},
)

var completionRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "codefill_completion_requests_total",
		Help: "Total number of autocomplete requests by outcome",
	},
	[]string{"outcome"},
)

var completionCacheEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "codefill_completion_cache_events_total",
		Help: "Completion cache lookups by result",
	},
	[]string{"result"},
)

// BackendHooks returns the client callbacks that feed the backend call
// metrics.
func BackendHooks() llmclient.Hooks {
	return llmclient.Hooks{
		OnRequest: func(model string) {
			backendRequestsTotal.WithLabelValues(model).Inc()
		},
		OnSettled: func(model string, status int, elapsed time.Duration, err error) {
			outcome := "ok"
			if err != nil {
				outcome = "error"
				backendRequestErrors.WithLabelValues(model).Inc()
			}
			backendRequestDuration.WithLabelValues(model, outcome).Observe(elapsed.Seconds())
		},
	}
}

// CountCompletionRequest records the outcome of one autocomplete request:
// "ready", "empty", "cancelled", or "failed".
func CountCompletionRequest(outcome string) {
	completionRequestsTotal.WithLabelValues(outcome).Inc()
}

// CountCacheEvent records a completion cache lookup: "hit" or "miss".
func CountCacheEvent(result string) {
	completionCacheEvents.WithLabelValues(result).Inc()
}
