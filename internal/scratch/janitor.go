package scratch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"video-convert/internal/logging"
	"video-convert/internal/metrics"
)

// Janitor periodically removes stale files from the scratch directories.
// It is a safety net for files orphaned by crashes or abandoned downloads;
// the request path deletes its own files in the normal case.
type Janitor struct {
	dirs     []string
	interval time.Duration
	maxAge   time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewJanitor creates a Janitor sweeping dirs every interval, removing
// regular files older than maxAge.
func NewJanitor(dirs []string, interval, maxAge time.Duration) *Janitor {
	return &Janitor{
		dirs:     dirs,
		interval: interval,
		maxAge:   maxAge,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine. The first sweep runs
// immediately.
func (j *Janitor) Start() {
	go func() {
		defer close(j.done)

		j.Sweep()

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.Sweep()
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to exit.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
	<-j.done
}

// Sweep removes stale files from all configured directories once and
// returns the number of files removed.
func (j *Janitor) Sweep() int {
	metrics.JanitorRunsTotal.Inc()

	cutoff := time.Now().Add(-j.maxAge)
	removed := 0

	for _, dir := range j.dirs {
		removed += sweepDir(dir, cutoff)
	}

	if removed > 0 {
		logging.Info("Janitor removed %d stale file(s)", removed)
		metrics.JanitorFilesRemoved.Add(float64(removed))
	} else {
		logging.Debug("Janitor sweep complete, nothing to remove")
	}

	return removed
}

func sweepDir(dir string, cutoff time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Warn("Janitor failed to read %s: %v", dir, err)
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logging.Warn("Janitor failed to remove %s: %v", path, err)
			continue
		}

		logging.Debug("Janitor removed stale file: %s", path)
		removed++
	}

	return removed
}
