package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kestrel_collector_requests_total",
			Help: "Total number of ingestion requests received",
		},
		[]string{"endpoint", "status"},
	)

	RejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kestrel_collector_rejections_total",
			Help: "Total number of rejected requests by reason",
		},
		[]string{"endpoint", "reason"},
	)

	EventBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kestrel_collector_event_bytes_total",
			Help: "Total bytes of accepted event data",
		},
	)

	SourcemapBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kestrel_collector_sourcemap_bytes_total",
			Help: "Total bytes of accepted sourcemap artifacts",
		},
	)

	// Pipeline metrics
	ProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kestrel_collector_processing_duration_seconds",
			Help:    "Duration of request validation and dispatch in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	AuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kestrel_collector_auth_failures_total",
			Help: "Total number of failed credential verifications",
		},
	)

	// Handoff metrics
	DispatchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kestrel_collector_dispatch_errors_total",
			Help: "Total number of failed event handoffs to the sink",
		},
	)

	StorageErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kestrel_collector_storage_errors_total",
			Help: "Total number of failed artifact storage operations",
		},
	)
)
