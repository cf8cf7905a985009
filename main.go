package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"video-convert/internal/ffmpeg"
	"video-convert/internal/handlers"
	"video-convert/internal/logging"
	"video-convert/internal/metrics"
	"video-convert/internal/middleware"
	"video-convert/internal/scratch"
	"video-convert/internal/startup"
	"video-convert/internal/workers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize converter
	config.MaxConcurrent = workers.ForCPU(0)
	conv := ffmpeg.New(ffmpeg.Options{
		Binary:        config.FFmpegPath,
		OutputDir:     config.ConvertedDir,
		Preset:        config.Preset,
		CRF:           config.CRF,
		Timeout:       config.ConvertTimeout,
		MaxConcurrent: config.MaxConcurrent,
	})

	// Startup probe is log-only; a broken ffmpeg install surfaces per
	// request and via /health rather than preventing startup.
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	info, probeErr := conv.Probe(probeCtx)
	probeCancel()
	version := ""
	if info != nil {
		version = info.Version
	}
	startup.LogConverterInit(version, probeErr, conv.MaxConcurrent())

	// Initialize scratch janitor
	startup.LogJanitorInit(config.JanitorInterval, config.JanitorMaxAge)
	janitor := scratch.NewJanitor(
		[]string{config.UploadDir, config.ConvertedDir},
		config.JanitorInterval,
		config.JanitorMaxAge,
	)
	janitor.Start()

	// Initialize handlers
	h := handlers.New(conv, config)

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router)

	// Apply metrics middleware
	var handler http.Handler = router
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		metrics.AppInfo.WithLabelValues(startup.Version, startup.Commit, runtime.Version()).Set(1)
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  0, // uploads can be slow; body size is bounded instead
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics listener on its own port keeps /metrics off the public surface
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, conv, janitor)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/convert", h.Convert).Methods("POST")
	r.HandleFunc("/download/{filename}", h.Download).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/ffmpeg-info", h.FFmpegInfo).Methods("GET")
	r.HandleFunc("/livez", h.Liveness).Methods("GET")
	r.HandleFunc("/readyz", h.Readiness).Methods("GET")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, conv *ffmpeg.Converter, janitor *scratch.Janitor) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping janitor")
	janitor.Stop()
	startup.LogShutdownStepComplete("Janitor stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	// Kill conversions after the server drains so in-flight requests get
	// their error responses first.
	startup.LogShutdownStep("Cleaning up converter")
	conv.Cleanup()
	startup.LogShutdownStepComplete("Converter cleanup complete")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
}
