package handlers

import (
	"net/http"
)

// FFmpegInfoResponse is the JSON body for GET /ffmpeg-info.
type FFmpegInfoResponse struct {
	Success       bool     `json:"success"`
	Version       string   `json:"version"`
	Configuration string   `json:"configuration"`
	Libraries     []string `json:"libraries"`
}

// FFmpegInfo handles GET /ffmpeg-info: reports the installed ffmpeg version,
// build configuration and component libraries.
func (h *Handlers) FFmpegInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.converter.Probe(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "ffmpeg not available",
		})
		return
	}

	libraries := info.Libraries
	if libraries == nil {
		libraries = []string{}
	}

	writeJSON(w, http.StatusOK, FFmpegInfoResponse{
		Success:       true,
		Version:       info.Version,
		Configuration: info.Configuration,
		Libraries:     libraries,
	})
}
