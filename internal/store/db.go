package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig holds the database configuration. Driver selects between
// the Postgres backend used in deployments and the pure-Go SQLite
// backend used as the local substitute store and in tests.
type DBConfig struct {
	Logger *slog.Logger
	Driver string

	// Postgres settings.
	Host     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Port     int

	// SQLite settings. Path is a file path or ":memory:".
	Path string
}

// NewDB opens the configured database and migrates the schema.
func NewDB(cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("database config cannot be nil")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		cfg.Logger.Info("connecting to database",
			"driver", cfg.Driver,
			"host", cfg.Host,
			"port", cfg.Port,
			"dbname", cfg.DBName,
		)

		db, err = gorm.Open(postgres.Open(dsn), gormConfig)

	case DriverSQLite:
		if cfg.Path == "" {
			return nil, errors.New("sqlite path cannot be empty")
		}

		cfg.Logger.Info("connecting to database",
			"driver", cfg.Driver,
			"path", cfg.Path,
		)

		db, err = gorm.Open(sqlite.Open(cfg.Path), gormConfig)

	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == DriverPostgres {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	cfg.Logger.Info("database connection established")

	if err := runMigrations(db, cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// runMigrations keeps the schema in step with the model structs.
func runMigrations(db *gorm.DB, logger *slog.Logger) error {
	logger.Info("running database migrations")

	if err := db.AutoMigrate(
		&User{},
		&Farmer{},
		&Farm{},
		&Crop{},
		&CropCycle{},
		&CropGrowthRecord{},
		&Inventory{},
		&Supplier{},
		&Equipment{},
		&MarketPrice{},
		&WeatherRecord{},
		&SoilAnalysis{},
		&TaskSchedule{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	logger.Info("database migrations complete")
	return nil
}

// CloseDB releases the underlying connection pool. A nil db is a no-op.
func CloseDB(db *gorm.DB, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	logger.Info("closing database connection")
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
