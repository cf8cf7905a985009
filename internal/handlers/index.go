package handlers

import (
	"net/http"

	"video-convert/internal/startup"
)

// IndexResponse is the JSON body for GET /.
type IndexResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Index handles GET /: a small service banner with endpoint discovery.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, IndexResponse{
		Service: "video-convert",
		Version: startup.Version,
		Endpoints: map[string]string{
			"POST /convert":            "convert an uploaded video to MP4 (multipart field: video)",
			"GET /download/{filename}": "download a converted file (one-shot)",
			"GET /health":              "service and ffmpeg health",
			"GET /ffmpeg-info":         "installed ffmpeg details",
			"GET /livez":               "liveness probe",
			"GET /readyz":              "readiness probe",
		},
	})
}
