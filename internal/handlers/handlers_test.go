package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"video-convert/internal/ffmpeg"
	"video-convert/internal/startup"
)

// newTestHandlers wires a Handlers instance around a stub ffmpeg binary and
// temp scratch directories.
func newTestHandlers(t *testing.T, stubBody string) (*Handlers, *startup.Config) {
	t.Helper()

	scratch := t.TempDir()
	config := &startup.Config{
		ScratchDir:     scratch,
		UploadDir:      filepath.Join(scratch, "uploads"),
		ConvertedDir:   filepath.Join(scratch, "converted"),
		MaxUploadSize:  10 * 1024 * 1024,
		ConvertTimeout: 30 * time.Second,
	}
	for _, dir := range []string{config.UploadDir, config.ConvertedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	conv := ffmpeg.New(ffmpeg.Options{
		Binary:    writeStubBinary(t, stubBody),
		OutputDir: config.ConvertedDir,
		Timeout:   config.ConvertTimeout,
	})

	return New(conv, config), config
}

func writeStubBinary(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ffmpeg-stub")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write stub binary: %v", err)
	}
	return path
}

// convertingStub writes data to the output path (the final argument),
// mimicking a successful encode.
const convertingStub = `for arg; do out="$arg"; done
printf 'converted video bytes' > "$out"`

// versionStub answers -version queries the way a healthy install would.
const versionStub = `cat <<'EOF'
ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers
configuration: --prefix=/usr --enable-gpl --enable-libx264
libavutil      58. 29.100 / 58. 29.100
libavcodec     60. 31.102 / 60. 31.102
EOF`

// newMissingBinaryConverter returns a converter whose binary does not exist,
// for exercising unavailable-ffmpeg paths.
func newMissingBinaryConverter(outputDir string) *ffmpeg.Converter {
	return ffmpeg.New(ffmpeg.Options{
		Binary:    "/nonexistent/ffmpeg",
		OutputDir: outputDir,
	})
}

// multipartUpload builds a multipart request body with a single file field.
func multipartUpload(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	return &buf, writer.FormDataContentType()
}

func checkContentType(t *testing.T, header http.Header) {
	t.Helper()
	if got := header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
}
