package handlers

import (
	"encoding/json"
	"net/http"

	"video-convert/internal/logging"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error("Failed to encode JSON response: %v", err)
	}
}

// writeConvertError writes a conversion failure response. details may be
// empty when there is nothing diagnostic to add.
func writeConvertError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ConvertResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}
