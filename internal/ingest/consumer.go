// Package ingest consumes weather-station readings from RabbitMQ and
// persists them as weather records.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"farmledger.dev/farmledger/internal/store"
	"farmledger.dev/farmledger/pkg/generator"
	"farmledger.dev/farmledger/pkg/metrics"
	"farmledger.dev/farmledger/pkg/mq"
)

// Consumer consumes station readings from RabbitMQ and persists them
// through the weather repository.
type Consumer struct {
	logger   *slog.Logger
	repos    *store.Repositories
	mqClient mq.ClientInterface
	metrics  *metrics.MQMetrics
	queue    string
	done     chan struct{}
	started  bool
}

// ConsumerConfig carries the queue endpoint and the store handle the
// consumer persists readings through.
type ConsumerConfig struct {
	Logger      *slog.Logger
	Repos       *store.Repositories
	RabbitMQURL string
	QueueName   string

	// MQClient overrides the RabbitMQ client; when nil one is built
	// from RabbitMQURL and QueueName.
	MQClient mq.ClientInterface
}

// NewConsumer validates cfg and wires the consumer to its queue.
func NewConsumer(cfg *ConsumerConfig) (*Consumer, error) {
	if cfg == nil {
		return nil, errors.New("consumer config cannot be nil")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.Repos == nil {
		return nil, errors.New("repositories cannot be nil")
	}

	mqClient := cfg.MQClient
	if mqClient == nil {
		if cfg.RabbitMQURL == "" {
			return nil, errors.New("rabbitmq URL cannot be empty")
		}
		if cfg.QueueName == "" {
			return nil, errors.New("queue name cannot be empty")
		}
		mqClient = mq.New(cfg.QueueName, cfg.RabbitMQURL, cfg.Logger)
	}

	return &Consumer{
		logger:   cfg.Logger,
		repos:    cfg.Repos,
		mqClient: mqClient,
		queue:    cfg.QueueName,
		done:     make(chan struct{}),
	}, nil
}

// SetMetrics sets the metrics collector for this consumer.
func (c *Consumer) SetMetrics(m *metrics.MQMetrics) {
	c.metrics = m
}

// Start begins consuming readings from RabbitMQ.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("starting ingest consumer")

	// Give the MQ client time to finish its initial connect.
	time.Sleep(2 * time.Second)

	deliveries, err := c.mqClient.Consume()
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("ingest consumer started, waiting for readings")

	c.started = true
	go c.processDeliveries(ctx, deliveries)

	return nil
}

// processDeliveries drains the deliveries channel until it closes or
// the context is canceled.
func (c *Consumer) processDeliveries(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("context canceled, stopping reading ingestion")
			close(c.done)
			return

		case delivery, ok := <-deliveries:
			if !ok {
				c.logger.Warn("deliveries channel closed")
				close(c.done)
				return
			}

			c.handleDelivery(ctx, delivery)
		}
	}
}

// handleDelivery processes a single station reading.
func (c *Consumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	var reading generator.StationReading
	if err := json.Unmarshal(delivery.Body, &reading); err != nil {
		c.logger.Error("failed to decode station reading", "error", err)
		c.countFailure("decode_error")
		// Ack malformed payloads so they are not redelivered forever.
		if ackErr := delivery.Ack(false); ackErr != nil {
			c.logger.Error("failed to ack message", "error", ackErr)
		}
		return
	}

	c.logger.Info("received station reading",
		"station_id", reading.StationID,
		"farm_id", reading.FarmID,
		"temperature", reading.Temperature,
	)

	if err := c.saveReading(ctx, &reading); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The farm was deleted; drop the reading.
			c.logger.Warn("reading references unknown farm, dropping",
				"station_id", reading.StationID,
				"farm_id", reading.FarmID,
			)
			c.countFailure("unknown_farm")
			if ackErr := delivery.Ack(false); ackErr != nil {
				c.logger.Error("failed to ack message", "error", ackErr)
			}
			return
		}

		c.logger.Error("failed to save station reading",
			"station_id", reading.StationID,
			"error", err,
		)
		c.countFailure("save_error")
		// Nack so the reading can be reprocessed.
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			c.logger.Error("failed to nack message", "error", nackErr)
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "error", err)
		return
	}

	if c.metrics != nil {
		c.metrics.MessagesConsumed.WithLabelValues(c.queue).Inc()
	}

	c.logger.Debug("station reading saved",
		"station_id", reading.StationID,
		"farm_id", reading.FarmID,
	)
}

// saveReading resolves the farm and persists the reading as a
// weather record.
func (c *Consumer) saveReading(ctx context.Context, reading *generator.StationReading) error {
	if _, err := c.repos.Farms.Get(ctx, reading.FarmID); err != nil {
		return err
	}

	wind := reading.WindSpeed
	record := &store.WeatherRecord{
		FarmID:      reading.FarmID,
		RecordDate:  reading.RecordedAt.UTC(),
		Temperature: reading.Temperature,
		Humidity:    reading.Humidity,
		Rainfall:    reading.Rainfall,
		WindSpeed:   &wind,
		Notes:       "station " + reading.StationID,
	}

	if err := c.repos.Weather.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to create weather record: %w", err)
	}

	return nil
}

func (c *Consumer) countFailure(reason string) {
	if c.metrics != nil {
		c.metrics.ConsumptionFailures.WithLabelValues(c.queue, reason).Inc()
	}
}

// Stop tears down the MQ client and waits for the read loop to exit.
func (c *Consumer) Stop() error {
	c.logger.Info("stopping ingest consumer")

	if err := c.mqClient.Close(); err != nil {
		return fmt.Errorf("failed to close mq client: %w", err)
	}

	// The read loop, and with it the done channel, only exists after a
	// successful Start.
	if c.started {
		<-c.done
	}

	c.logger.Info("ingest consumer stopped")
	return nil
}
