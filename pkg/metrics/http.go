package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics tracks the web server: request volume and latency,
// template rendering, and authentication outcomes.
type HTTPMetrics struct {
	RequestsTotal        *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	RequestsInFlight     prometheus.Gauge
	TemplateRenderTime   *prometheus.HistogramVec
	TemplateRenderErrors *prometheus.CounterVec
	SignIns              *prometheus.CounterVec
	SignUps              *prometheus.CounterVec
}

// NewHTTPMetrics builds and registers the web server collectors.
func NewHTTPMetrics(namespace string) *HTTPMetrics {
	counterVec := func(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}
	histogramVec := func(subsystem, name, help string, labels ...string) *prometheus.HistogramVec {
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
			Buckets:   prometheus.DefBuckets,
		}, labels)
	}

	m := &HTTPMetrics{
		RequestsTotal: counterVec("http", "requests_total",
			"HTTP requests served", "method", "path", "status_code"),
		RequestDuration: histogramVec("http", "request_duration_seconds",
			"HTTP request latency", "method", "path"),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being handled",
		}),
		TemplateRenderTime: histogramVec("template", "render_duration_seconds",
			"Template render latency", "template"),
		TemplateRenderErrors: counterVec("template", "render_errors_total",
			"Template renders that failed", "template"),
		SignIns: counterVec("auth", "sign_ins_total",
			"Sign-in attempts by result", "result"),
		SignUps: counterVec("auth", "sign_ups_total",
			"Sign-up attempts by result", "result"),
	}

	MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.TemplateRenderTime,
		m.TemplateRenderErrors,
		m.SignIns,
		m.SignUps,
	)

	return m
}
