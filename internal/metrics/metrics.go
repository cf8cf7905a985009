package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_convert_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_convert_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_convert_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_convert_conversions_total",
			Help: "Total number of conversion attempts by outcome",
		},
		[]string{"status"}, // "success", "failed", "timeout", "unavailable", "rejected"
	)

	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_convert_conversion_duration_seconds",
			Help:    "Wall-clock duration of ffmpeg conversions in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	ConversionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_convert_conversions_in_flight",
			Help: "Number of ffmpeg processes currently running",
		},
	)

	ConversionQueueWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_convert_conversion_queue_wait_seconds",
			Help:    "Time spent waiting for a conversion slot",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_convert_upload_bytes",
			Help:    "Size of accepted uploads in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
		},
	)

	OutputBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_convert_output_bytes",
			Help:    "Size of produced output files in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
		},
	)
)

// Download metrics
var (
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_convert_downloads_total",
			Help: "Total number of download requests by outcome",
		},
		[]string{"status"}, // "served", "not_found", "invalid"
	)

	DownloadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_convert_download_bytes_total",
			Help: "Total bytes streamed to download clients",
		},
	)
)

// Janitor metrics
var (
	JanitorRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_convert_janitor_runs_total",
			Help: "Total number of scratch janitor sweeps",
		},
	)

	JanitorFilesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_convert_janitor_files_removed_total",
			Help: "Total number of stale scratch files removed",
		},
	)
)

// AppInfo exposes build information as labels on a constant gauge.
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "video_convert_app_info",
		Help: "Application build information",
	},
	[]string{"version", "commit", "go_version"},
)
