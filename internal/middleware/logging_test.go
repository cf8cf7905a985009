package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean string",
			input: "GET /convert",
			want:  "GET /convert",
		},
		{
			name:  "newline injection",
			input: "evil\n2026-01-01 00:00:00 forged line",
			want:  "evil 2026-01-01 00:00:00 forged line",
		},
		{
			name:  "carriage return",
			input: "a\rb",
			want:  "a b",
		},
		{
			name:  "null byte stripped",
			input: "a\x00b",
			want:  "ab",
		},
		{
			name:  "ansi escape stripped",
			input: "a\x1b[31mred",
			want:  "a[31mred",
		},
		{
			name:  "tab preserved",
			input: "a\tb",
			want:  "a\tb",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeLogField(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusNotFound)
	if _, err := rw.Write([]byte("nope")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusNotFound)
	}
	if rw.bytesWritten != 4 {
		t.Errorf("bytesWritten = %d, want 4", rw.bytesWritten)
	}
}

func TestResponseWriterDefaultStatus(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	if _, err := rw.Write([]byte("ok")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if rw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusOK)
	}
}

func TestResponseWriterIgnoresDoubleWriteHeader(t *testing.T) {
	rw := newResponseWriter(httptest.NewRecorder())

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusCreated {
		t.Errorf("statusCode = %d, want %d", rw.statusCode, http.StatusCreated)
	}
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		config LoggingConfig
		want   bool
	}{
		{
			name:   "normal path",
			path:   "/convert",
			config: DefaultLoggingConfig(),
			want:   false,
		},
		{
			name:   "health logged by default",
			path:   "/health",
			config: DefaultLoggingConfig(),
			want:   false,
		},
		{
			name:   "health skipped when disabled",
			path:   "/health",
			config: LoggingConfig{LogHealthChecks: false},
			want:   true,
		},
		{
			name:   "livez skipped when disabled",
			path:   "/livez",
			config: LoggingConfig{LogHealthChecks: false},
			want:   true,
		},
		{
			name:   "explicit skip path",
			path:   "/internal/debug",
			config: LoggingConfig{SkipPaths: []string{"/internal"}, LogHealthChecks: true},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldSkip(tt.path, tt.config)
			if got != tt.want {
				t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.0.2.1:54321",
			want:       "192.0.2.1",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "x-forwarded-for chain takes first",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"},
			want:       "203.0.113.9",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			want:       "198.51.100.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			got := getClientIP(req)
			if got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoggerMiddlewarePassesThrough(t *testing.T) {
	called := false
	handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/convert", nil))

	if !called {
		t.Error("wrapped handler was not called")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
