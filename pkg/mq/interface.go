package mq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ClientInterface is the seam between the telemetry components and the
// RabbitMQ client, so the simulator fleet and the ingest consumer can
// run against a mock in tests.
type ClientInterface interface {
	// Push publishes data to the queue and waits for the broker's
	// confirmation, retrying with backoff while disconnected.
	Push(ctx context.Context, data []byte) error

	// UnsafePush publishes without waiting for a confirmation. It
	// fails immediately when the client is not connected.
	UnsafePush(ctx context.Context, data []byte) error

	// Consume returns a channel of queue deliveries. Each delivery
	// must be Ack'd once processed or Nack'd to requeue it.
	Consume() (<-chan amqp.Delivery, error)

	// Close shuts down the channel and connection.
	Close() error
}

var _ ClientInterface = (*Client)(nil)
