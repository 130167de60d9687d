package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"farmledger.dev/farmledger/internal/store"
	"farmledger.dev/farmledger/pkg/logger"
)

// InitConfig points viper at the config file (explicit path, else
// config.yaml in the working directory or /etc/farmledger/) and layers
// FARMLEDGER_* environment variables on top. A missing config file is
// fine; flags and env cover everything.
func InitConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/farmledger/")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("FARMLEDGER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

// GetLogger builds the process logger at the configured level.
func GetLogger() *slog.Logger {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.ParseLevel(strings.ToLower(viper.GetString("log.level")))
	return logger.New(cfg)
}

// registerDBFlags declares the database flags shared by the commands
// that open the store, bound under the given viper prefix.
func registerDBFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().String("db-driver", store.DriverPostgres, "database driver (postgres, sqlite)")
	cmd.Flags().String("db-host", "localhost", "PostgreSQL host")
	cmd.Flags().Int("db-port", 5432, "PostgreSQL port")
	cmd.Flags().String("db-user", "postgres", "PostgreSQL user")
	cmd.Flags().String("db-password", "", "PostgreSQL password")
	cmd.Flags().String("db-name", "farmledger", "PostgreSQL database name")
	cmd.Flags().String("db-sslmode", "disable", "PostgreSQL SSL mode")
	cmd.Flags().String("db-path", "farmledger.db", "SQLite database path")

	_ = viper.BindPFlag(prefix+".db.driver", cmd.Flags().Lookup("db-driver"))
	_ = viper.BindPFlag(prefix+".db.host", cmd.Flags().Lookup("db-host"))
	_ = viper.BindPFlag(prefix+".db.port", cmd.Flags().Lookup("db-port"))
	_ = viper.BindPFlag(prefix+".db.user", cmd.Flags().Lookup("db-user"))
	_ = viper.BindPFlag(prefix+".db.password", cmd.Flags().Lookup("db-password"))
	_ = viper.BindPFlag(prefix+".db.name", cmd.Flags().Lookup("db-name"))
	_ = viper.BindPFlag(prefix+".db.sslmode", cmd.Flags().Lookup("db-sslmode"))
	_ = viper.BindPFlag(prefix+".db.path", cmd.Flags().Lookup("db-path"))
}

// dbConfigFromViper assembles a store.DBConfig from the flags bound
// under the given prefix.
func dbConfigFromViper(prefix string, log *slog.Logger) *store.DBConfig {
	return &store.DBConfig{
		Logger:   log,
		Driver:   viper.GetString(prefix + ".db.driver"),
		Host:     viper.GetString(prefix + ".db.host"),
		Port:     viper.GetInt(prefix + ".db.port"),
		User:     viper.GetString(prefix + ".db.user"),
		Password: viper.GetString(prefix + ".db.password"),
		DBName:   viper.GetString(prefix + ".db.name"),
		SSLMode:  viper.GetString(prefix + ".db.sslmode"),
		Path:     viper.GetString(prefix + ".db.path"),
	}
}
