package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"farmledger.dev/farmledger/internal/simulator"
	"farmledger.dev/farmledger/internal/store"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the weather-station fleet",
	Long: `Run the synthetic weather-station fleet that:
- Builds one station per farm in the store
- Generates correlated temperature, humidity, rainfall and wind
- Publishes station readings to RabbitMQ`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	registerDBFlags(simulateCmd, "simulate")

	simulateCmd.Flags().String("rabbitmq-url", "amqp://localhost:5672", "RabbitMQ URL")
	simulateCmd.Flags().String("queue-name", "weather-readings", "RabbitMQ queue name for station readings")
	simulateCmd.Flags().Duration("interval", 5*time.Second, "interval between readings per station")

	_ = viper.BindPFlag("simulate.rabbitmq.url", simulateCmd.Flags().Lookup("rabbitmq-url"))
	_ = viper.BindPFlag("simulate.rabbitmq.queue_name", simulateCmd.Flags().Lookup("queue-name"))
	_ = viper.BindPFlag("simulate.interval", simulateCmd.Flags().Lookup("interval"))
}

func runSimulate(_ *cobra.Command, _ []string) error {
	logger := GetLogger()
	logger.Info("starting station fleet")

	db, err := store.NewDB(dbConfigFromViper("simulate", logger))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer func() {
		if err := store.CloseDB(db, logger); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	repos := store.NewRepositories(db, logger)

	fleet, err := simulator.NewFleet(&simulator.FleetConfig{
		Logger:      logger,
		Repos:       repos,
		RabbitMQURL: viper.GetString("simulate.rabbitmq.url"),
		QueueName:   viper.GetString("simulate.rabbitmq.queue_name"),
		Interval:    viper.GetDuration("simulate.interval"),
	})
	if err != nil {
		logger.Error("failed to create station fleet", "error", err)
		return err
	}

	if err := fleet.Run(context.Background()); err != nil {
		logger.Error("station fleet error", "error", err)
		return err
	}

	logger.Info("station fleet stopped")
	return nil
}
