// Package handlers contains the HTTP handlers for the conversion service:
// upload-and-convert, one-shot download, health and ffmpeg probes, and the
// service banner.
package handlers
