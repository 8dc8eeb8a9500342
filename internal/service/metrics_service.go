package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by MetricsService.
const (
	LoginSucceeded  = "success"
	LoginRejected   = "rejected"
	LoginBadRequest = "bad_request"
	LoginFailed     = "error"
)

// MetricsService encapsulates Prometheus instrumentation. A nil *MetricsService is a no-op.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	loginAttempts   *prometheus.CounterVec
	provisioned     prometheus.Counter
	reportsWritten  prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	loginAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Login attempts by requested role and outcome",
	}, []string{"role", "outcome"})

	provisioned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_legacy_accounts_provisioned_total",
		Help: "Login accounts created from legacy teacher credentials",
	})

	reportsWritten := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reports_written_total",
		Help: "Individual parent reports persisted",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, loginAttempts, provisioned, reportsWritten, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		loginAttempts:   loginAttempts,
		provisioned:     provisioned,
		reportsWritten:  reportsWritten,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordLogin counts one login attempt.
func (m *MetricsService) RecordLogin(role, outcome string) {
	if m == nil {
		return
	}
	if role == "" {
		role = "unknown"
	}
	m.loginAttempts.WithLabelValues(role, outcome).Inc()
}

// RecordProvisionedAccount counts a login account created from legacy credentials.
func (m *MetricsService) RecordProvisionedAccount() {
	if m == nil {
		return
	}
	m.provisioned.Inc()
}

// RecordReports counts persisted individual reports.
func (m *MetricsService) RecordReports(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reportsWritten.Add(float64(n))
}
