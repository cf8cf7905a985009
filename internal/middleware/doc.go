// Package middleware provides HTTP middleware for the video conversion service.
//
// It includes:
//   - Request logging in W3C Extended Log Format with log-injection sanitization
//   - Prometheus request metrics with path normalization
package middleware
