package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFFmpegInfo(t *testing.T) {
	h, _ := newTestHandlers(t, versionStub)

	rec := httptest.NewRecorder()
	h.FFmpegInfo(rec, httptest.NewRequest("GET", "/ffmpeg-info", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp FFmpegInfoResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if !strings.HasPrefix(resp.Version, "ffmpeg version") {
		t.Errorf("Version = %q, want version banner", resp.Version)
	}
	if !strings.Contains(resp.Configuration, "--enable-libx264") {
		t.Errorf("Configuration = %q, want build flags", resp.Configuration)
	}
	if len(resp.Libraries) != 2 {
		t.Errorf("len(Libraries) = %d, want 2", len(resp.Libraries))
	}
}

func TestFFmpegInfo_Unavailable(t *testing.T) {
	h, config := newTestHandlers(t, versionStub)
	h = New(newMissingBinaryConverter(config.ConvertedDir), config)

	rec := httptest.NewRecorder()
	h.FFmpegInfo(rec, httptest.NewRequest("GET", "/ffmpeg-info", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if success, _ := resp["success"].(bool); success {
		t.Error("success = true, want false")
	}
}

func TestIndex(t *testing.T) {
	h, _ := newTestHandlers(t, versionStub)

	rec := httptest.NewRecorder()
	h.Index(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp IndexResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Service != "video-convert" {
		t.Errorf("Service = %q, want video-convert", resp.Service)
	}
	if _, ok := resp.Endpoints["POST /convert"]; !ok {
		t.Error("Endpoints missing POST /convert")
	}
	if _, ok := resp.Endpoints["GET /download/{filename}"]; !ok {
		t.Error("Endpoints missing GET /download/{filename}")
	}
}
