// Package metrics declares the Prometheus collectors of the service.
// They are registered once on the default registry and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inft_dashboard"

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	LedgerCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "calls_total",
			Help:      "Sui JSON-RPC calls by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	LedgerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "call_duration_seconds",
			Help:      "Sui JSON-RPC call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	Refreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "refreshes_total",
			Help:      "Dashboard refresh cycles by result (applied, stale)",
		},
		[]string{"result"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full dashboard refresh cycle",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	DegradedFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "degraded_fetches_total",
			Help:      "Sub-requests skipped or zeroed during aggregation, by source",
		},
		[]string{"source"},
	)

	CreditScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "credit_score",
			Help:      "Distribution of applied credit scores",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		},
	)

	TrackedSnapshots = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "snapshots",
			Help:      "Addresses with refresh state held in memory",
		},
	)

	NativePrice = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "price",
			Name:      "native_usd",
			Help:      "Last fetched native coin price in USD",
		},
	)

	BlobUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "walrus",
			Name:      "uploads_total",
			Help:      "Blob uploads by outcome",
		},
		[]string{"outcome"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Connected dashboard websocket clients",
		},
	)
)
