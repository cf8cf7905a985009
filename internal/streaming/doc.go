// Package streaming provides timeout-protected streaming for HTTP downloads.
//
// Slow or disconnected clients can otherwise hold server resources
// indefinitely while a converted file is being transferred. TimeoutWriter
// wraps http.ResponseWriter with per-write timeouts, idle detection, and
// chunked writes so stalled connections are detected and terminated.
//
// Typical usage:
//
//	file, err := os.Open(outputPath)
//	if err != nil { ... }
//	defer file.Close()
//
//	n, err := streaming.Stream(r.Context(), w, file, streaming.DefaultTimeoutWriterConfig())
//	if err != nil && !errors.Is(err, streaming.ErrClientGone) {
//		logging.Warn("download stream error: %v", err)
//	}
//
// ErrClientGone is returned when the requester disconnects mid-transfer and
// is usually not a server error. ErrWriteTimeout indicates a client receiving
// too slowly; the connection is terminated.
package streaming
