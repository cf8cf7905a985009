package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns the optimal number of concurrent conversion slots.
// It respects container CPU limits via GOMAXPROCS (Go 1.19+).
//
// The multiplier adjusts for task characteristics:
//   - 1.0 for CPU-bound tasks (encoding)
//   - 2.0 for I/O-bound tasks
//
// The limit parameter caps the slot count to prevent resource exhaustion.
// Use 0 for no limit.
//
// Can be overridden with the FFMPEG_WORKERS environment variable.
func Count(multiplier float64, limit int) int {
	// Check for manual override first
	if override := os.Getenv("FFMPEG_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	// GOMAXPROCS is automatically set to container CPU limit in Go 1.19+
	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns a slot count for CPU-bound tasks (1 per CPU).
// ffmpeg saturates a core per encode, so this is the right sizing
// for the conversion gate. The limit parameter caps the maximum.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns a slot count for I/O-bound tasks (2 per CPU).
// The limit parameter caps the maximum.
func ForIO(limit int) int {
	return Count(2.0, limit)
}
