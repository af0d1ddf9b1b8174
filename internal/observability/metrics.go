package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Metrics exposes Prometheus collectors for the HTTP surface and the
// policy table mutations.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	ErrorsTotal      *prometheus.CounterVec
	PolicyMutations  *prometheus.CounterVec
	PolicyTableRows  prometheus.Gauge
	BackupsTotal     prometheus.Counter
	BackupLastUnixTS prometheus.Gauge
}

// NewMetrics registers collectors on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "policy_http_requests_total",
			Help: "Total HTTP requests handled, by path, method and status",
		}, []string{"path", "method", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "policy_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		ErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "policy_http_errors_total",
			Help: "Total requests that resolved to a domain error, by code",
		}, []string{"path", "method", "code"}),
		PolicyMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "policy_mutations_total",
			Help: "Policy table mutations by operation (create/update/delete/restore/wipe)",
		}, []string{"operation"}),
		PolicyTableRows: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "policy_table_rows",
			Help: "Row count of the policy table as of the last stats read",
		}),
		BackupsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "policy_backups_total",
			Help: "Number of backups produced, scheduled or on demand",
		}),
		BackupLastUnixTS: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "policy_backup_last_timestamp_seconds",
			Help: "Unix time of the most recent successful backup",
		}),
	}
}

// RecordRequest observes one settled HTTP request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError counts a request that resolved to a domain error.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(path, method, code).Inc()
}

// RecordMutation counts a policy table mutation.
func (m *Metrics) RecordMutation(operation string) {
	if m == nil {
		return
	}
	m.PolicyMutations.WithLabelValues(operation).Inc()
}

// RequestLogger logs each request with latency and feeds the request metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		metrics.RecordRequest(c.Path(), c.Method(), status, elapsed)
		logger.Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		)
		return err
	}
}
