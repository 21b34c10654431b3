// Package monitoring provides Prometheus metrics for workspaced:
// HTTP request instrumentation, lifecycle operation counters, the
// resident-application gauge and WebSocket connection tracking.
package monitoring
