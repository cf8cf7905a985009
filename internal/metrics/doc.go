// Package metrics provides Prometheus instrumentation for the video
// conversion service.
//
// All metrics are prefixed with "video_convert_" to avoid naming collisions.
// Metrics are registered with the default registry via promauto; expose them
// by mounting promhttp.Handler() on the metrics listener:
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// Categories:
//
//   - HTTP: request totals, duration, and in-flight gauge
//   - Conversions: attempts by outcome, ffmpeg wall-clock duration,
//     in-flight processes, queue wait, upload/output sizes
//
//   - Downloads: served/not-found totals and bytes streamed
//
//   - Janitor: scratch sweep runs and files removed
//
// Example PromQL:
//
//	sum(rate(video_convert_conversions_total{status="failed"}[5m]))
//	histogram_quantile(0.95, sum(rate(video_convert_conversion_duration_seconds_bucket[5m])) by (le))
package metrics
