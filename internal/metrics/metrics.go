package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal tracks logical API requests by endpoint and outcome
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellsync_api_requests_total",
			Help: "Total number of logical API requests",
		},
		[]string{"endpoint", "category"},
	)

	// APIRequestAttempts tracks HTTP attempts spent per logical request
	APIRequestAttempts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wellsync_api_request_attempts",
			Help:    "HTTP attempts spent per logical API request",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
		[]string{"endpoint"},
	)

	// RecordsSynced tracks payload downloads that reached the store
	RecordsSynced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellsync_records_synced_total",
			Help: "Total number of records whose payload download was stored",
		},
	)

	// DownloadFailures tracks payload downloads that failed after retries
	DownloadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wellsync_download_failures_total",
			Help: "Total number of payload downloads that failed",
		},
	)

	// ArtifactWritesTotal tracks derived artifact writes by kind and result
	ArtifactWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wellsync_artifact_writes_total",
			Help: "Total number of derived artifact writes",
		},
		[]string{"kind", "result"},
	)

	// WorkListSize tracks the size of the last computed work list
	WorkListSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wellsync_work_list_size",
			Help: "Number of records requiring download in the last cycle",
		},
	)

	// StoredRecords tracks the number of entries in the local store
	StoredRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wellsync_stored_records",
			Help: "Number of header entries in the local store",
		},
	)

	// CycleDuration tracks full sync cycle duration
	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wellsync_cycle_duration_seconds",
			Help:    "Duration of a full sync cycle in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		},
	)
)
