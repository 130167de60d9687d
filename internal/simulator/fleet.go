// Package simulator runs a fleet of synthetic weather stations, one
// per farm, publishing readings to the telemetry queue.
package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"farmledger.dev/farmledger/internal/store"
	"farmledger.dev/farmledger/pkg/generator"
	"farmledger.dev/farmledger/pkg/metrics"
	"farmledger.dev/farmledger/pkg/mq"
)

// FleetConfig holds the configuration for the station fleet.
type FleetConfig struct {
	// Logger is the structured logger.
	Logger *slog.Logger
	// Repos provides the farm list the fleet is built from.
	Repos *store.Repositories
	// RabbitMQURL is the connection string for RabbitMQ.
	RabbitMQURL string
	// QueueName is the queue to publish station readings to.
	QueueName string
	// Interval is the time between readings per station.
	Interval time.Duration
	// MQMetrics is the optional Prometheus collector for MQ operations.
	MQMetrics *metrics.MQMetrics

	// MQClient overrides the RabbitMQ client; when nil one is built
	// from RabbitMQURL and QueueName.
	MQClient mq.ClientInterface
}

// Fleet manages one synthetic weather station per farm.
type Fleet struct {
	logger   *slog.Logger
	config   *FleetConfig
	mqClient mq.ClientInterface
	wg       sync.WaitGroup
}

var (
	errInvalidInterval = errors.New("interval must be greater than 0")
	errLoggerRequired  = errors.New("logger is required")
	errReposRequired   = errors.New("repositories are required")
)

// NewFleet creates a station fleet with the given configuration.
func NewFleet(cfg *FleetConfig) (*Fleet, error) {
	if cfg == nil {
		return nil, errors.New("fleet config cannot be nil")
	}

	if cfg.Logger == nil {
		return nil, errLoggerRequired
	}

	if cfg.Repos == nil {
		return nil, errReposRequired
	}

	if cfg.Interval <= 0 {
		return nil, errInvalidInterval
	}

	mqClient := cfg.MQClient
	if mqClient == nil {
		if cfg.RabbitMQURL == "" {
			return nil, errors.New("rabbitmq URL cannot be empty")
		}
		if cfg.QueueName == "" {
			return nil, errors.New("queue name cannot be empty")
		}
		client := mq.New(cfg.QueueName, cfg.RabbitMQURL, cfg.Logger.With(
			slog.String("component", "mq-client"),
		))
		if cfg.MQMetrics != nil {
			client.SetMetrics(cfg.MQMetrics)
		}
		mqClient = client
	}

	return &Fleet{
		logger:   cfg.Logger,
		config:   cfg,
		mqClient: mqClient,
	}, nil
}

// Run builds one station per farm and publishes readings at the
// configured interval, blocking until a shutdown signal or context
// cancellation.
func (f *Fleet) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	farms, err := f.config.Repos.Farms.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load farms: %w", err)
	}
	if len(farms) == 0 {
		return errors.New("no farms in the store; run seed first")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	for _, farm := range farms {
		station := generator.NewStation(farm.ID)
		f.wg.Add(1)
		go f.runStation(ctx, station, farm.Name)
	}

	f.logger.Info("station fleet started",
		"stations", len(farms),
		"interval", f.config.Interval,
	)

	select {
	case sig := <-sigChan:
		f.logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
	case <-ctx.Done():
		f.logger.Info("context canceled, shutting down")
	}

	f.logger.Info("waiting for stations to shut down")
	f.wg.Wait()

	if err := f.mqClient.Close(); err != nil {
		f.logger.Error("failed to close MQ client", "error", err)
	}

	f.logger.Info("station fleet stopped")
	return nil
}

// runStation publishes one reading per tick for a single station.
func (f *Fleet) runStation(ctx context.Context, station *generator.Station, farmName string) {
	defer f.wg.Done()

	gen := generator.NewWeatherGenerator(station)
	ticker := time.NewTicker(f.config.Interval)
	defer ticker.Stop()

	stationLogger := f.logger.With(
		slog.String("station_id", station.StationID),
		slog.String("farm", farmName),
	)
	stationLogger.Info("station started")

	for {
		select {
		case <-ctx.Done():
			stationLogger.Info("station shutting down")
			return

		case <-ticker.C:
			if err := f.publish(ctx, gen.Reading(time.Now())); err != nil {
				stationLogger.Error("failed to publish reading", "error", err)
				// Keep the station running; the MQ client reconnects
				// on its own.
				continue
			}

			stationLogger.Debug("reading published")
		}
	}
}

// publish encodes a reading and pushes it to the queue.
func (f *Fleet) publish(ctx context.Context, reading *generator.StationReading) error {
	body, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to encode reading: %w", err)
	}

	if err := f.mqClient.Push(ctx, body); err != nil {
		return fmt.Errorf("failed to push reading: %w", err)
	}

	return nil
}
