// Package workers sizes concurrency limits for containerized environments.
//
// runtime.NumCPU() reports the host CPU count even under cgroup limits;
// GOMAXPROCS (Go 1.19+) reflects the container limit. The helpers here use
// GOMAXPROCS so that the number of concurrent ffmpeg processes matches the
// CPU budget the service actually has.
//
// Operators can override the computed value with the FFMPEG_WORKERS
// environment variable.
package workers
