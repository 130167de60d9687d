// Package mock provides a mock implementation of the mq client interface for testing.
package mock

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"farmledger.dev/farmledger/pkg/mq"
)

// Client is a mock implementation of mq.ClientInterface.
// It records pushed payloads and allows configuring return values.
type Client struct {
	mu sync.Mutex

	// PushErr is returned by Push and UnsafePush.
	PushErr error
	// Pushed holds the payload of every Push and UnsafePush call, in order.
	Pushed [][]byte

	// Deliveries is the channel returned by Consume.
	Deliveries chan amqp.Delivery
	// ConsumeErr is returned by Consume.
	ConsumeErr error
	// ConsumeCalls counts Consume invocations.
	ConsumeCalls int

	// CloseErr is returned by Close.
	CloseErr error
	// CloseCalls counts Close invocations.
	CloseCalls int
}

// NewClient creates a mock client with a buffered delivery channel
// and no configured errors.
func NewClient() *Client {
	return &Client{
		Deliveries: make(chan amqp.Delivery, 16),
	}
}

// Push implements mq.ClientInterface.
func (c *Client) Push(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.PushErr != nil {
		return c.PushErr
	}
	c.Pushed = append(c.Pushed, data)
	return nil
}

// UnsafePush implements mq.ClientInterface.
func (c *Client) UnsafePush(ctx context.Context, data []byte) error {
	return c.Push(ctx, data)
}

// Consume implements mq.ClientInterface.
func (c *Client) Consume() (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ConsumeCalls++
	if c.ConsumeErr != nil {
		return nil, c.ConsumeErr
	}
	return c.Deliveries, nil
}

// Close implements mq.ClientInterface.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.CloseCalls++
	return c.CloseErr
}

// PushedPayloads returns a copy of all recorded payloads.
func (c *Client) PushedPayloads() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([][]byte, len(c.Pushed))
	copy(out, c.Pushed)
	return out
}

// Ensure Client implements mq.ClientInterface.
var _ mq.ClientInterface = (*Client)(nil)
