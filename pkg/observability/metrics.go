// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the lokal gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// LoadBuckets defines histogram buckets for engine construction, which
// can take minutes when weights are loaded from disk.
var LoadBuckets = []float64{1, 5, 15, 30, 60, 120, 300, 600}

var (
	// RequestsTotal counts all HTTP requests by method, status class, and path.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lokal_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status", "path"},
	)

	// RequestDuration records HTTP request duration in seconds by path.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lokal_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// CompletionsTotal counts completions by model, mode, and outcome.
	// Mode is one of "single", "batch", "stream".
	CompletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lokal_completions_total",
			Help: "Completion calls",
		},
		[]string{"model", "mode", "status"},
	)

	// TokensTotal counts tokens processed by direction (prompt/completion).
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lokal_tokens_total",
			Help: "Token count",
		},
		[]string{"model", "direction"},
	)

	// EngineLoadSeconds records how long engine construction took.
	EngineLoadSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lokal_engine_load_seconds",
			Help:    "Engine construction duration",
			Buckets: LoadBuckets,
		},
		[]string{"engine", "model"},
	)

	// BatchSize records the number of prompts per batch call.
	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lokal_batch_size",
			Help:    "Prompts per batch completion",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		CompletionsTotal,
		TokensTotal,
		EngineLoadSeconds,
		BatchSize,
	)
}
