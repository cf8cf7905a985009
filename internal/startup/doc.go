// Package startup handles configuration loading and operator-facing
// startup/shutdown logging.
//
// Configuration is read from environment variables with logged defaults.
// The scratch subdirectories (uploads, converted) are created and
// write-tested during LoadConfig; failure there is fatal since the service
// cannot spool work without them.
package startup
