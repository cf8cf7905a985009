// Package ffmpeg wraps the external ffmpeg binary for one-shot video
// conversions.
//
// It provides:
//   - Fixed-shape conversion to H.264/AAC MP4 with collision-free output naming
//   - A bounded admission gate capping concurrent ffmpeg processes
//   - Wall-clock timeouts with forced process termination
//   - Bounded diagnostic tails for failure reporting
//   - Installation probing via `ffmpeg -version`
//
// Conversion requires ffmpeg to be installed and available in the system
// PATH (or at the configured binary path).
package ffmpeg
