package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"video-convert/internal/logging"
	"video-convert/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// DiagnosticTailLines bounds the number of diagnostic lines surfaced to
// callers on failure.
const DiagnosticTailLines = 5

// Options configures a Converter.
type Options struct {
	// Binary is the ffmpeg executable name or path.
	Binary string
	// OutputDir is where converted files are written.
	OutputDir string
	// VideoCodec, AudioCodec, Preset and CRF shape the fixed conversion
	// command. Zero values fall back to H.264/AAC at CRF 23.
	VideoCodec string
	AudioCodec string
	Preset     string
	CRF        int
	// Timeout is the wall-clock limit per conversion. Zero disables it.
	Timeout time.Duration
	// MaxConcurrent caps the number of ffmpeg processes running at once.
	// Values below 1 are treated as 1.
	MaxConcurrent int
}

func (o *Options) normalize() {
	if o.Binary == "" {
		o.Binary = "ffmpeg"
	}
	if o.VideoCodec == "" {
		o.VideoCodec = "libx264"
	}
	if o.AudioCodec == "" {
		o.AudioCodec = "aac"
	}
	if o.Preset == "" {
		o.Preset = "fast"
	}
	if o.CRF == 0 {
		o.CRF = 23
	}
	if o.MaxConcurrent < 1 {
		o.MaxConcurrent = 1
	}
}

// Result describes a completed conversion.
type Result struct {
	// OutputFile is the bare filename of the produced file.
	OutputFile string
	// OutputPath is the absolute path of the produced file.
	OutputPath string
	// Size is the produced file size in bytes.
	Size int64
	// Duration is the wall-clock time the conversion took.
	Duration time.Duration
}

// Converter runs ffmpeg conversions with bounded concurrency and process
// tracking for shutdown.
type Converter struct {
	opts Options

	gate *semaphore.Weighted

	processes map[string]*exec.Cmd
	processMu sync.Mutex
}

// New creates a Converter from opts.
func New(opts Options) *Converter {
	opts.normalize()

	return &Converter{
		opts:      opts,
		gate:      semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		processes: make(map[string]*exec.Cmd),
	}
}

// MaxConcurrent returns the configured concurrency cap.
func (c *Converter) MaxConcurrent() int {
	return c.opts.MaxConcurrent
}

// OutputDir returns the directory converted files are written to.
func (c *Converter) OutputDir() string {
	return c.opts.OutputDir
}

// Convert runs one ffmpeg conversion of inputPath to an MP4 in the output
// directory. It blocks while waiting for a conversion slot; ctx cancellation
// while queued abandons the wait. The caller owns inputPath and is
// responsible for deleting it after Convert returns.
//
// Failure modes: ErrUnavailable (spawn failure), ErrTimeout (wall-clock limit
// exceeded, process killed), *ExitError (non-zero exit).
func (c *Converter) Convert(ctx context.Context, inputPath string) (*Result, error) {
	queued := time.Now()
	if err := c.gate.Acquire(ctx, 1); err != nil {
		metrics.ConversionsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("waiting for conversion slot: %w", err)
	}
	defer c.gate.Release(1)
	metrics.ConversionQueueWait.Observe(time.Since(queued).Seconds())

	runCtx := ctx
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	// UUID naming keeps concurrent requests collision-free.
	outputFile := "output-" + uuid.NewString() + ".mp4"
	outputPath := filepath.Join(c.opts.OutputDir, outputFile)

	args := []string{
		"-i", inputPath,
		"-c:v", c.opts.VideoCodec,
		"-c:a", c.opts.AudioCodec,
		"-preset", c.opts.Preset,
		"-crf", fmt.Sprintf("%d", c.opts.CRF),
		"-y", outputPath,
	}

	cmd := exec.CommandContext(runCtx, c.opts.Binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.track(outputFile, cmd)
	defer c.untrack(outputFile)

	logging.Debug("Starting conversion: %s -> %s", filepath.Base(inputPath), outputFile)

	metrics.ConversionsInFlight.Inc()
	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	metrics.ConversionsInFlight.Dec()
	metrics.ConversionDuration.Observe(elapsed.Seconds())

	if runErr != nil {
		c.removePartialOutput(outputPath)
		return nil, c.classify(runCtx, runErr, stderr.String())
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		// ffmpeg exited 0 but produced nothing usable
		metrics.ConversionsTotal.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("output file missing after conversion: %w", err)
	}

	metrics.ConversionsTotal.WithLabelValues("success").Inc()
	metrics.OutputBytes.Observe(float64(info.Size()))
	logging.Info("Conversion complete: %s (%d bytes in %v)", outputFile, info.Size(), elapsed)

	return &Result{
		OutputFile: outputFile,
		OutputPath: outputPath,
		Size:       info.Size(),
		Duration:   elapsed,
	}, nil
}

// classify maps a cmd.Run error onto the package error taxonomy.
func (c *Converter) classify(runCtx context.Context, runErr error, diagnostics string) error {
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		metrics.ConversionsTotal.WithLabelValues("timeout").Inc()
		logging.Warn("Conversion killed after exceeding %v", c.opts.Timeout)
		return fmt.Errorf("%w after %v", ErrTimeout, c.opts.Timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		metrics.ConversionsTotal.WithLabelValues("failed").Inc()
		logging.Error("FFmpeg exited %d; stderr tail:\n%s",
			exitErr.ExitCode(), Tail(diagnostics, DiagnosticTailLines))
		return &ExitError{
			Code: exitErr.ExitCode(),
			Tail: Tail(diagnostics, DiagnosticTailLines),
		}
	}

	// Anything else is a spawn failure: binary missing, not executable, etc.
	metrics.ConversionsTotal.WithLabelValues("unavailable").Inc()
	logging.Error("Failed to spawn %s: %v", c.opts.Binary, runErr)
	return fmt.Errorf("%w: %v", ErrUnavailable, runErr)
}

func (c *Converter) removePartialOutput(outputPath string) {
	if _, err := os.Stat(outputPath); err != nil {
		return
	}
	if err := os.Remove(outputPath); err != nil {
		logging.Warn("Failed to remove partial output %s: %v", outputPath, err)
	}
}

func (c *Converter) track(key string, cmd *exec.Cmd) {
	c.processMu.Lock()
	c.processes[key] = cmd
	c.processMu.Unlock()
}

func (c *Converter) untrack(key string) {
	c.processMu.Lock()
	delete(c.processes, key)
	c.processMu.Unlock()
}

// ActiveProcesses returns the number of tracked ffmpeg processes.
func (c *Converter) ActiveProcesses() int {
	c.processMu.Lock()
	defer c.processMu.Unlock()
	return len(c.processes)
}

// Cleanup kills all tracked ffmpeg processes. Called during shutdown.
func (c *Converter) Cleanup() {
	c.processMu.Lock()
	defer c.processMu.Unlock()

	for key, cmd := range c.processes {
		if cmd.Process != nil {
			logging.Info("Killing conversion process for: %s", key)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill conversion process for %s: %v", key, err)
			}
		}
	}
}
