package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MQMetrics tracks the health of the RabbitMQ client: publish and
// consume volume, failures by reason, and connection state.
type MQMetrics struct {
	MessagesPushed      *prometheus.CounterVec
	PushFailures        *prometheus.CounterVec
	MessagesConsumed    *prometheus.CounterVec
	ConsumptionFailures *prometheus.CounterVec
	ReconnectAttempts   prometheus.Counter
	ConnectionStatus    prometheus.Gauge
}

// NewMQMetrics builds and registers the MQ client collectors under
// namespace_mq_*.
func NewMQMetrics(namespace string) *MQMetrics {
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mq",
			Name:      name,
			Help:      help,
		}, labels)
	}

	m := &MQMetrics{
		MessagesPushed: counterVec("messages_pushed_total",
			"Messages published to RabbitMQ", "queue"),
		PushFailures: counterVec("push_failures_total",
			"Publishes that failed, by reason", "queue", "reason"),
		MessagesConsumed: counterVec("messages_consumed_total",
			"Messages consumed from RabbitMQ", "queue"),
		ConsumptionFailures: counterVec("consumption_failures_total",
			"Deliveries that could not be processed, by reason", "queue", "reason"),
		ReconnectAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mq",
			Name:      "reconnect_attempts_total",
			Help:      "Broker reconnection attempts",
		}),
		ConnectionStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mq",
			Name:      "connection_status",
			Help:      "Broker connection state (1=connected, 0=disconnected)",
		}),
	}

	MustRegister(
		m.MessagesPushed,
		m.PushFailures,
		m.MessagesConsumed,
		m.ConsumptionFailures,
		m.ReconnectAttempts,
		m.ConnectionStatus,
	)

	return m
}
