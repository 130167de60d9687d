package testcontainers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"farmledger.dev/farmledger/internal/store"
)

// PostgresConfig holds configuration for the PostgreSQL test container.
// Empty fields fall back to farmledger/farmledger/farmledger.
type PostgresConfig struct {
	User          string
	Password      string
	Database      string
	ContainerName string
}

// StartPostgres starts a PostgreSQL container and returns it together
// with a store.DBConfig pointing at the mapped port. The caller still
// needs to fill in the Logger before opening the database.
func StartPostgres(ctx context.Context, config *PostgresConfig) (testcontainers.Container, *store.DBConfig, error) {
	if config == nil {
		config = &PostgresConfig{}
	}
	if config.User == "" {
		config.User = "farmledger"
	}
	if config.Password == "" {
		config.Password = "farmledger"
	}
	if config.Database == "" {
		config.Database = "farmledger"
	}

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		),
		Env: map[string]string{
			"POSTGRES_USER":     config.User,
			"POSTGRES_PASSWORD": config.Password,
			"POSTGRES_DB":       config.Database,
		},
		Name: config.ContainerName,
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres container: %w", err)
	}

	host, port, err := mappedEndpoint(ctx, container, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, err
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, fmt.Errorf("parse mapped port %q: %w", port, err)
	}

	dbConfig := &store.DBConfig{
		Driver:   store.DriverPostgres,
		Host:     host,
		Port:     portNum,
		User:     config.User,
		Password: config.Password,
		DBName:   config.Database,
		SSLMode:  "disable",
	}

	return container, dbConfig, nil
}
