// Package testcontainers manages the throwaway PostgreSQL and RabbitMQ
// containers the end-to-end suites run against.
package testcontainers

import (
	"context"
	"fmt"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RabbitMQConfig holds configuration for the RabbitMQ test container.
// Empty credentials fall back to guest/guest.
type RabbitMQConfig struct {
	User          string
	Password      string
	ContainerName string
}

// StartRabbitMQ starts a RabbitMQ container and returns it together
// with the AMQP connection URL for the mapped port.
func StartRabbitMQ(ctx context.Context, config *RabbitMQConfig) (testcontainers.Container, string, error) {
	if config == nil {
		config = &RabbitMQConfig{}
	}
	if config.User == "" {
		config.User = "guest"
	}
	if config.Password == "" {
		config.Password = "guest"
	}

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-management-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5672/tcp"),
			wait.ForLog("Server startup complete"),
		),
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER": config.User,
			"RABBITMQ_DEFAULT_PASS": config.Password,
		},
		Name: config.ContainerName,
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("start rabbitmq container: %w", err)
	}

	host, port, err := mappedEndpoint(ctx, container, "5672")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", err
	}

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/", config.User, config.Password, host, port)

	return container, url, nil
}

// mappedEndpoint resolves the host and host-side port for a container port.
func mappedEndpoint(ctx context.Context, container testcontainers.Container, port string) (string, string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", "", fmt.Errorf("resolve container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return "", "", fmt.Errorf("resolve mapped port %s: %w", port, err)
	}
	return host, mapped.Port(), nil
}
