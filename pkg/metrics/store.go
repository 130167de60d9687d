package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics contains Prometheus metrics for repository operations.
type StoreMetrics struct {
	Operations        *prometheus.CounterVec
	OperationFailures *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// NewStoreMetrics creates and registers repository metrics.
func NewStoreMetrics(namespace string) *StoreMetrics {
	m := &StoreMetrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of repository operations",
			},
			[]string{"entity", "operation"},
		),
		OperationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operation_failures_total",
				Help:      "Total number of failed repository operations",
			},
			[]string{"entity", "operation", "reason"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Duration of repository operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"entity", "operation"},
		),
	}

	MustRegister(
		m.Operations,
		m.OperationFailures,
		m.OperationDuration,
	)

	return m
}
