package handlers

import (
	"net/http"
	"time"
)

// HealthResponse is the JSON body for GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	FFmpeg    string `json:"ffmpeg"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /health: verifies the ffmpeg installation is usable.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	info, err := h.converter.Probe(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":    "unhealthy",
			"error":     "ffmpeg not available",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		FFmpeg:    info.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Liveness handles GET /livez: process-is-up check, no dependencies.
func (h *Handlers) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /readyz: ready to accept conversions.
func (h *Handlers) Readiness(w http.ResponseWriter, r *http.Request) {
	if _, err := h.converter.Probe(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "ffmpeg not available",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
