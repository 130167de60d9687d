package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"farmledger.dev/farmledger/internal/ingest"
	"farmledger.dev/farmledger/internal/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Consume weather-station readings",
	Long: `Run the ingest worker that:
- Consumes station readings from RabbitMQ
- Resolves the farm each reading belongs to
- Persists readings as weather records`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	registerDBFlags(ingestCmd, "ingest")

	ingestCmd.Flags().String("rabbitmq-url", "amqp://localhost:5672", "RabbitMQ URL")
	ingestCmd.Flags().String("queue-name", "weather-readings", "RabbitMQ queue name for station readings")

	_ = viper.BindPFlag("ingest.rabbitmq.url", ingestCmd.Flags().Lookup("rabbitmq-url"))
	_ = viper.BindPFlag("ingest.rabbitmq.queue_name", ingestCmd.Flags().Lookup("queue-name"))
}

func runIngest(_ *cobra.Command, _ []string) error {
	logger := GetLogger()
	logger.Info("starting ingest worker")

	db, err := store.NewDB(dbConfigFromViper("ingest", logger))
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

	consumer, err := ingest.NewConsumer(&ingest.ConsumerConfig{
		Logger:      logger,
		Repos:       repos,
		RabbitMQURL: viper.GetString("ingest.rabbitmq.url"),
		QueueName:   viper.GetString("ingest.rabbitmq.queue_name"),
	})
	if err != nil {
		logger.Error("failed to create consumer", "error", err)
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Error("failed to start consumer", "error", err)
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("received shutdown signal", "signal", sig.String())
	cancel()

	if err := consumer.Stop(); err != nil {
		logger.Error("failed to stop consumer", "error", err)
		return err
	}

	logger.Info("ingest worker stopped")
	return nil
}
