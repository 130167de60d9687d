package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"farmledger.dev/farmledger/internal/server"
	"farmledger.dev/farmledger/internal/store"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the web application",
	Long: `Run the web server that:
- Serves the farm record pages and the dashboard
- Exposes the JSON API under /api/v1
- Handles session-cookie authentication
- Serves Prometheus metrics and a health endpoint`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	registerDBFlags(serverCmd, "server")

	serverCmd.Flags().Int("http-port", 8080, "HTTP server port")
	serverCmd.Flags().String("session-secret", "", "secret used to sign session cookies")
	serverCmd.Flags().Bool("secure-cookies", false, "mark session cookies Secure (HTTPS deployments)")
	serverCmd.Flags().Bool("metrics", true, "enable Prometheus metrics")

	_ = viper.BindPFlag("server.http.port", serverCmd.Flags().Lookup("http-port"))
	_ = viper.BindPFlag("server.session.secret", serverCmd.Flags().Lookup("session-secret"))
	_ = viper.BindPFlag("server.session.secure", serverCmd.Flags().Lookup("secure-cookies"))
	_ = viper.BindPFlag("server.metrics", serverCmd.Flags().Lookup("metrics"))
}

func runServer(_ *cobra.Command, _ []string) error {
	logger := GetLogger()
	logger.Info("starting server")

	db, err := store.NewDB(dbConfigFromViper("server", logger))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return err
	}
	defer func() {
		if err := store.CloseDB(db, logger); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	config := &server.ServerConfig{
		Logger:        logger,
		DB:            db,
		HTTPPort:      viper.GetInt("server.http.port"),
		SessionSecret: viper.GetString("server.session.secret"),
		SecureCookies: viper.GetBool("server.session.secure"),
		Metrics:       viper.GetBool("server.metrics"),
	}

	srv, err := server.NewServer(config)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		return err
	}

	logger.Info("server configuration",
		"http_port", config.HTTPPort,
		"db_driver", viper.GetString("server.db.driver"),
		"metrics", config.Metrics,
	)

	if err := srv.Run(context.Background()); err != nil {
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
