package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// Metrics holds all Prometheus metrics for workspaced.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Lifecycle metrics
	AppsOpened   prometheus.Counter
	AppsUpdated  prometheus.Counter
	AppsClosed   prometheus.Counter
	AppsResident prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workspaced_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "workspaced_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),

		AppsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workspaced_apps_opened_total",
			Help: "Total number of application entries created",
		}),
		AppsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workspaced_apps_updated_total",
			Help: "Total number of application updates persisted",
		}),
		AppsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "workspaced_apps_closed_total",
			Help: "Total number of application entries removed",
		}),
		AppsResident: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "workspaced_apps_resident",
			Help: "Application entries currently in the registry",
		}),

		WSConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "workspaced_ws_connections",
			Help: "Active WebSocket connections",
		}),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workspaced_ws_messages_total",
				Help: "WebSocket messages by type and direction",
			},
			[]string{"type", "direction"},
		),

		Uptime: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "workspaced_uptime_seconds",
			Help: "Seconds since process start",
		}),
	}
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}

// Handler returns the Prometheus exposition endpoint.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
