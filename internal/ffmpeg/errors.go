package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for conversion outcomes.
var (
	// ErrUnavailable indicates the ffmpeg binary could not be spawned
	// (missing from PATH or not executable).
	ErrUnavailable = errors.New("ffmpeg unavailable")

	// ErrTimeout indicates a conversion exceeded the configured wall-clock
	// timeout and the process was killed.
	ErrTimeout = errors.New("conversion timed out")
)

// ExitError reports an ffmpeg process that terminated with a non-zero exit
// code. Tail holds a bounded excerpt of the diagnostic stream.
type ExitError struct {
	Code int
	Tail string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("conversion failed with exit code %d", e.Code)
}

// Tail returns the last n non-empty lines of s. ffmpeg can emit megabytes of
// diagnostics; responses carry only this bounded excerpt.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}

	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")

	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		kept = append(kept, lines[i])
	}

	// Reverse back into original order
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}

	return strings.Join(kept, "\n")
}
