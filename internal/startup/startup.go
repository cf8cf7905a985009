package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"video-convert/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	ScratchDir      string
	Port            string
	MetricsPort     string
	MaxUploadSize   int64
	ConvertTimeout  time.Duration
	MaxConcurrent   int
	JanitorInterval time.Duration
	JanitorMaxAge   time.Duration
	FFmpegPath      string
	Preset          string
	CRF             int
	LogHealthChecks bool
	MetricsEnabled  bool

	// Derived paths
	UploadDir    string
	ConvertedDir string
}

const defaultMaxUploadMB = 100

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	scratchDir := getEnv("SCRATCH_DIR", "/scratch")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	maxUploadMB := getEnvInt("MAX_UPLOAD_SIZE_MB", defaultMaxUploadMB)
	convertTimeout := getEnvDuration("CONVERT_TIMEOUT", 10*time.Minute)
	janitorInterval := getEnvDuration("JANITOR_INTERVAL", 1*time.Hour)
	janitorMaxAge := getEnvDuration("JANITOR_MAX_AGE", 24*time.Hour)
	ffmpegPath := getEnv("FFMPEG_PATH", "ffmpeg")
	preset := getEnv("FFMPEG_PRESET", "fast")
	crf := getEnvInt("FFMPEG_CRF", 23)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	logging.Info("  SCRATCH_DIR:        %s", scratchDir)
	logging.Info("  PORT:               %s", port)
	logging.Info("  METRICS_PORT:       %s", metricsPort)
	logging.Info("  METRICS_ENABLED:    %v", metricsEnabled)
	logging.Info("  MAX_UPLOAD_SIZE_MB: %d", maxUploadMB)
	logging.Info("  CONVERT_TIMEOUT:    %s", convertTimeout)
	logging.Info("  JANITOR_INTERVAL:   %s", janitorInterval)
	logging.Info("  JANITOR_MAX_AGE:    %s", janitorMaxAge)
	logging.Info("  FFMPEG_PATH:        %s", ffmpegPath)
	logging.Info("  FFMPEG_PRESET:      %s", preset)
	logging.Info("  FFMPEG_CRF:         %d", crf)
	logging.Info("  LOG_HEALTH_CHECKS:  %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:          %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	scratchDir, err := filepath.Abs(scratchDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scratch directory path: %w", err)
	}
	logging.Info("  Scratch directory (absolute): %s", scratchDir)

	config := &Config{
		ScratchDir:      scratchDir,
		Port:            port,
		MetricsPort:     metricsPort,
		MaxUploadSize:   int64(maxUploadMB) * 1024 * 1024,
		ConvertTimeout:  convertTimeout,
		JanitorInterval: janitorInterval,
		JanitorMaxAge:   janitorMaxAge,
		FFmpegPath:      ffmpegPath,
		Preset:          preset,
		CRF:             crf,
		LogHealthChecks: logHealthChecks,
		MetricsEnabled:  metricsEnabled,
		UploadDir:       filepath.Join(scratchDir, "uploads"),
		ConvertedDir:    filepath.Join(scratchDir, "converted"),
	}

	// Both scratch subdirectories are required: the service cannot accept
	// work without somewhere to spool uploads and write outputs.
	for _, dir := range []struct{ path, name string }{
		{config.UploadDir, "uploads"},
		{config.ConvertedDir, "converted"},
	} {
		if err := ensureDirectory(dir.path, dir.name); err != nil {
			return nil, fmt.Errorf("%s directory error: %w", dir.name, err)
		}
		if err := testWriteAccess(dir.path); err != nil {
			return nil, fmt.Errorf("%s directory is not writable: %w", dir.name, err)
		}
		logging.Info("  [OK] %s directory is writable", dir.name)
	}

	return config, nil
}

// LogConverterInit logs converter initialization and the startup ffmpeg
// probe outcome. The probe is log-only; a missing binary does not prevent
// the service from starting.
func LogConverterInit(version string, probeErr error, maxConcurrent int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CONVERTER INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Concurrent conversions: %d", maxConcurrent)

	if probeErr != nil {
		logging.Warn("  FFmpeg check failed: %v", probeErr)
		logging.Warn("  Conversion requests will fail until ffmpeg is available")
		return
	}

	logging.Info("  [OK] %s", version)
}

// LogJanitorInit logs scratch janitor initialization
func LogJanitorInit(interval, maxAge time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("JANITOR INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Sweep interval: %v", interval)
	logging.Info("  Max file age:   %v", maxAge)
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{Method: method, Path: pathTemplate})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	logging.Info("  Registered routes (%d total):", len(routes))
	for _, route := range routes {
		logging.Info("    %-6s %s", route.Method, route.Path)
	}
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
        _     __                                          __
 _   __(_)___/ /__  ____        _________  ____ _   _____/ /_
| | / / / __  / _ \/ __ \______/ ___/ __ \/ __ \ | / / _ \ __/
| |/ / / /_/ /  __/ /_/ /_____/ /__/ /_/ / / / / |/ /  __/ /_
|___/_/\__,_/\___/\____/      \___/\____/_/ /_/|___/\___/\__/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
