// Package controller contains HTTP middlewares and helper handlers shared by
// the console host.
//
// Middlewares:
//   - WithCORS: CORS headers for the configured origin, short-circuits preflight.
//   - WithLogger: request-scoped logger and request ID, structured access log.
//   - WithMetrics: OpenTelemetry request duration histogram.
//
// Helpers:
//   - PprofMux: net/http/pprof handlers for mounting under a debug prefix.
//   - GetClientIP: originating client address behind proxies.
package controller
