package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"video-convert/internal/ffmpeg"
	"video-convert/internal/logging"
	"video-convert/internal/metrics"

	"github.com/google/uuid"
)

// ConvertResponse is the JSON body for POST /convert.
type ConvertResponse struct {
	Success     bool   `json:"success"`
	OutputFile  string `json:"outputFile,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Error       string `json:"error,omitempty"`
	Details     string `json:"details,omitempty"`
}

// Convert handles POST /convert: accepts a multipart upload under the
// "video" field, converts it to MP4 and returns a one-shot download link.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)

	file, header, err := r.FormFile("video")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeConvertError(w, http.StatusRequestEntityTooLarge,
				"Upload too large",
				fmt.Sprintf("maximum upload size is %d bytes", maxBytesErr.Limit))
			return
		}
		writeConvertError(w, http.StatusBadRequest,
			"Missing video file", `expected a multipart form field named "video"`)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close uploaded file: %v", err)
		}
	}()

	inputPath, size, err := h.spoolUpload(file, header.Filename)
	if err != nil {
		logging.Error("Failed to spool upload: %v", err)
		writeConvertError(w, http.StatusInternalServerError,
			"Failed to save uploaded file", "")
		return
	}
	metrics.UploadBytes.Observe(float64(size))
	logging.Debug("Spooled upload %s (%d bytes) to %s", header.Filename, size, inputPath)

	result, convErr := h.converter.Convert(r.Context(), inputPath)

	// The upload is consumed regardless of outcome.
	if err := os.Remove(inputPath); err != nil {
		logging.Warn("Failed to remove uploaded file %s: %v", inputPath, err)
	}

	if convErr != nil {
		h.writeConversionFailure(w, r, convErr)
		return
	}

	writeJSON(w, http.StatusOK, ConvertResponse{
		Success:     true,
		OutputFile:  result.OutputFile,
		DownloadURL: "/download/" + result.OutputFile,
	})
}

// spoolUpload copies the uploaded stream to a uniquely named file in the
// upload directory, preserving the original extension as an ffmpeg format
// hint.
func (h *Handlers) spoolUpload(src io.Reader, originalName string) (string, int64, error) {
	ext := sanitizeExtension(filepath.Ext(originalName))
	inputPath := filepath.Join(h.config.UploadDir, "upload-"+uuid.NewString()+ext)

	dst, err := os.Create(inputPath)
	if err != nil {
		return "", 0, fmt.Errorf("creating spool file: %w", err)
	}

	size, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()

	if copyErr != nil || closeErr != nil {
		if err := os.Remove(inputPath); err != nil {
			logging.Warn("Failed to remove partial spool file %s: %v", inputPath, err)
		}
		if copyErr != nil {
			return "", 0, fmt.Errorf("writing spool file: %w", copyErr)
		}
		return "", 0, fmt.Errorf("closing spool file: %w", closeErr)
	}

	return inputPath, size, nil
}

// sanitizeExtension keeps only a plain ".ext" suffix from the client-supplied
// filename; anything suspicious is dropped rather than rejected.
func sanitizeExtension(ext string) string {
	if ext == "" || ext == "." {
		return ""
	}
	if strings.ContainsAny(ext, "/\\") || strings.Contains(ext, "..") {
		return ""
	}
	if len(ext) > 8 {
		return ""
	}
	return strings.ToLower(ext)
}

// writeConversionFailure maps converter errors onto HTTP statuses.
func (h *Handlers) writeConversionFailure(w http.ResponseWriter, r *http.Request, err error) {
	var exitErr *ffmpeg.ExitError

	switch {
	case errors.Is(err, ffmpeg.ErrTimeout):
		writeConvertError(w, http.StatusGatewayTimeout,
			"Conversion timed out",
			fmt.Sprintf("exceeded the %v conversion limit", h.config.ConvertTimeout))

	case errors.As(err, &exitErr):
		writeConvertError(w, http.StatusInternalServerError,
			fmt.Sprintf("Conversion failed with exit code %d", exitErr.Code),
			exitErr.Tail)

	case errors.Is(err, ffmpeg.ErrUnavailable):
		writeConvertError(w, http.StatusInternalServerError,
			"Conversion failed", "ffmpeg is not available on this server")

	case r.Context().Err() != nil:
		// Client gave up while queued or mid-conversion; nobody is reading
		// the response, but close out the request cleanly.
		logging.Debug("Conversion abandoned by client: %v", err)
		writeConvertError(w, http.StatusServiceUnavailable,
			"Request canceled", "")

	default:
		logging.Error("Conversion failed: %v", err)
		writeConvertError(w, http.StatusInternalServerError,
			"Conversion failed", "")
	}
}
