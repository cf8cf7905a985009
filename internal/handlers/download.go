package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"video-convert/internal/logging"
	"video-convert/internal/metrics"
	"video-convert/internal/streaming"

	"github.com/gorilla/mux"
)

// deleteDelay gives the final response bytes time to drain before the
// output file is removed.
const deleteDelay = 1 * time.Second

// Download handles GET /download/{filename}: streams a converted file to the
// client and schedules its deletion. Each output is served at most once.
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]

	if !validDownloadName(filename) {
		metrics.DownloadsTotal.WithLabelValues("invalid").Inc()
		logging.Warn("Rejected download request for invalid filename: %q", filename)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Invalid filename",
		})
		return
	}

	path := filepath.Join(h.config.ConvertedDir, filename)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		metrics.DownloadsTotal.WithLabelValues("not_found").Inc()
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "File not found",
		})
		return
	}

	file, err := os.Open(path)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues("not_found").Inc()
		logging.Error("Failed to open %s for download: %v", path, err)
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "File not found",
		})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close %s: %v", path, err)
		}
	}()

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	bytesWritten, streamErr := streaming.Stream(r.Context(), w, file, streaming.DefaultTimeoutWriterConfig())
	metrics.DownloadBytes.Add(float64(bytesWritten))

	switch {
	case streamErr == nil:
		metrics.DownloadsTotal.WithLabelValues("served").Inc()
		logging.Info("Served %s (%d bytes)", filename, bytesWritten)
	case errors.Is(streamErr, streaming.ErrClientGone):
		logging.Debug("Client disconnected downloading %s after %d bytes", filename, bytesWritten)
	default:
		logging.Warn("Streaming %s failed after %d bytes: %v", filename, bytesWritten, streamErr)
	}

	// One-shot semantics: the file is deleted whether or not the transfer
	// completed. A short delay lets the connection drain first.
	time.AfterFunc(deleteDelay, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logging.Warn("Failed to remove served file %s: %v", path, err)
			return
		}
		logging.Debug("Removed served file: %s", path)
	})
}

// validDownloadName accepts only bare filenames; anything that could escape
// the converted directory is rejected.
func validDownloadName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if filepath.Base(name) != name {
		return false
	}
	// Base() leaves backslashes alone on non-Windows hosts
	for _, r := range name {
		if r == '/' || r == '\\' || r == 0 {
			return false
		}
	}
	return true
}
