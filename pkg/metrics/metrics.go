// Package metrics provides Prometheus metrics for the Clover service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolutionsTotal tracks attribution resolutions by outcome
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "attribution",
			Name:      "resolutions_total",
			Help:      "Total number of attribution resolutions by outcome",
		},
		[]string{"status"},
	)

	// ResolutionDuration tracks end-to-end resolution duration in seconds
	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "attribution",
			Name:      "resolution_duration_seconds",
			Help:      "Duration of attribution resolutions in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// ChannelsTotal tracks resolved channels
	ChannelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "attribution",
			Name:      "channels_total",
			Help:      "Total number of resolutions by classified channel",
		},
		[]string{"channel"},
	)

	// HTTPRequestsTotal tracks outbound HTTP requests to the vendor APIs
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound HTTP requests",
		},
		[]string{"method", "status_code"},
	)

	// HTTPRequestDuration tracks outbound HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clover",
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	// SyncOperationsTotal tracks sync store reads and upserts
	SyncOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "sync_store",
			Name:      "operations_total",
			Help:      "Total number of sync store operations by outcome",
		},
		[]string{"operation", "status"},
	)

	// EventsPublishedTotal tracks attribution events published to Kafka
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clover",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Total number of attribution events published",
		},
		[]string{"status"},
	)
)
