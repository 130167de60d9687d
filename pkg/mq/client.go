// Package mq provides a RabbitMQ client with automatic reconnection and error handling.
// It carries the weather telemetry stream between the station simulator and the
// ingest worker.
package mq

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"farmledger.dev/farmledger/pkg/metrics"
)

const (
	// Delay before dialing again after the connection drops.
	reconnectDelay = 5 * time.Second

	// Delay before reopening the channel after a channel exception.
	reInitDelay = 2 * time.Second

	// Push retries start at this backoff and double per attempt.
	initialBackoff = 100 * time.Millisecond

	// Ceiling for the Push retry backoff.
	maxBackoff = 10 * time.Second

	// Push gives up after this many failed attempts.
	maxRetryAttempts = 5
)

var (
	errNotConnected       = errors.New("not connected to a server")
	errAlreadyClosed      = errors.New("already closed: not connected to the server")
	errShutdown           = errors.New("client is shutting down")
	errMaxRetriesExceeded = errors.New("maximum retry attempts exceeded")
)

// Client publishes to and consumes from a single queue. It dials in the
// background and re-establishes both the connection and the channel when
// either drops, so callers never deal with AMQP session state.
type Client struct {
	m               *sync.Mutex
	logger          *slog.Logger
	connection      *amqp.Connection
	channel         *amqp.Channel
	done            chan bool
	notifyConnClose chan *amqp.Error
	notifyChanClose chan *amqp.Error
	notifyConfirm   chan amqp.Confirmation
	queueName       string
	isReady         bool
	metrics         *metrics.MQMetrics // optional
}

// New returns a client bound to queueName and kicks off the background
// connect loop against addr. The client is usable immediately; Push blocks
// until the loop has a live channel.
func New(queueName, addr string, l *slog.Logger) *Client {
	c := Client{
		m:         &sync.Mutex{},
		logger:    l,
		queueName: queueName,
		done:      make(chan bool),
	}
	go c.handleReconnect(addr)
	return &c
}

// SetMetrics attaches a collector. Call it before traffic starts.
func (c *Client) SetMetrics(m *metrics.MQMetrics) {
	c.metrics = m
}

// handleReconnect dials in a loop until a connection sticks, then hands
// off to handleReInit. It returns only when the client is shut down.
func (c *Client) handleReconnect(addr string) {
	for {
		c.setReady(false)

		c.logger.Info("attempting to connect", "queue", c.queueName)

		if c.metrics != nil {
			c.metrics.ReconnectAttempts.Inc()
		}

		conn, err := c.connect(addr)
		if err != nil {
			c.logger.Error("failed to connect, retrying", "error", err)

			select {
			case <-c.done:
				return
			case <-time.After(reconnectDelay):
			}
			continue
		}

		if done := c.handleReInit(conn); done {
			break
		}
	}
}

// connect dials addr and installs the connection close listener.
func (c *Client) connect(addr string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(addr)
	if err != nil {
		if c.metrics != nil {
			c.metrics.ConnectionStatus.Set(0)
		}
		return nil, err
	}

	c.changeConnection(conn)
	c.logger.Info("connected")

	if c.metrics != nil {
		c.metrics.ConnectionStatus.Set(1)
	}

	return conn, nil
}

// handleReInit keeps a channel open on conn, reopening it after channel
// exceptions. It reports true when the client is shutting down and false
// when the underlying connection died and a fresh dial is needed.
func (c *Client) handleReInit(conn *amqp.Connection) bool {
	for {
		c.setReady(false)

		if err := c.init(conn); err != nil {
			c.logger.Error("failed to initialize channel, retrying", "error", err)

			select {
			case <-c.done:
				return true
			case <-c.notifyConnClose:
				c.logger.Info("connection closed, reconnecting")
				return false
			case <-time.After(reInitDelay):
			}
			continue
		}

		select {
		case <-c.done:
			return true
		case <-c.notifyConnClose:
			c.logger.Info("connection closed, reconnecting")
			return false
		case <-c.notifyChanClose:
			c.logger.Info("channel closed, re-running init")
		}
	}
}

// init opens a channel in confirm mode and declares the queue.
func (c *Client) init(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	if err := ch.Confirm(false); err != nil {
		return err
	}
	_, err = ch.QueueDeclare(
		c.queueName,
		false, // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	c.changeChannel(ch)
	c.setReady(true)
	c.logger.Info("client init done", "queue", c.queueName)

	return nil
}

func (c *Client) setReady(ready bool) {
	c.m.Lock()
	c.isReady = ready
	c.m.Unlock()
}

func (c *Client) ready() bool {
	c.m.Lock()
	defer c.m.Unlock()
	return c.isReady
}

// changeConnection swaps in a fresh connection and rewires its close listener.
func (c *Client) changeConnection(connection *amqp.Connection) {
	c.connection = connection
	c.notifyConnClose = make(chan *amqp.Error, 1)
	c.connection.NotifyClose(c.notifyConnClose)
}

// changeChannel swaps in a fresh channel and rewires its close and
// publish-confirm listeners.
func (c *Client) changeChannel(channel *amqp.Channel) {
	c.channel = channel
	c.notifyChanClose = make(chan *amqp.Error, 1)
	c.notifyConfirm = make(chan amqp.Confirmation, 1)
	c.channel.NotifyClose(c.notifyChanClose)
	c.channel.NotifyPublish(c.notifyConfirm)
}

// nextBackoff doubles the delay, capped at maxBackoff.
func nextBackoff(backoff time.Duration) time.Duration {
	backoff *= 2
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	return backoff
}

// Push publishes data and blocks until the broker confirms it. While the
// client is disconnected it retries with exponential backoff, giving the
// reconnect loop time to recover, and fails with errMaxRetriesExceeded once
// maxRetryAttempts is spent. See UnsafePush for the unconfirmed variant.
func (c *Client) Push(ctx context.Context, data []byte) error {
	backoff := initialBackoff
	retryCount := 0

	wait := func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return errShutdown
		case <-time.After(backoff):
			backoff = nextBackoff(backoff)
			retryCount++
			return nil
		}
	}

	for {
		if retryCount >= maxRetryAttempts {
			c.logger.Error("maximum retry attempts exceeded",
				"retry_count", retryCount,
				"max_attempts", maxRetryAttempts)

			if c.metrics != nil {
				c.metrics.PushFailures.WithLabelValues(c.queueName, "max_retries_exceeded").Inc()
			}

			return errMaxRetriesExceeded
		}

		if !c.ready() {
			c.logger.Info("not connected, waiting for reconnection",
				"backoff", backoff,
				"retry_count", retryCount)

			if err := wait(); err != nil {
				return err
			}
			continue
		}

		if err := c.UnsafePush(ctx, data); err != nil {
			c.logger.Error("push failed, retrying with backoff",
				"error", err,
				"backoff", backoff,
				"retry_count", retryCount)

			if err := wait(); err != nil {
				return err
			}
			continue
		}

		select {
		case <-ctx.Done():
			if c.metrics != nil {
				c.metrics.PushFailures.WithLabelValues(c.queueName, "context_canceled").Inc()
			}
			return ctx.Err()
		case confirm := <-c.notifyConfirm:
			if confirm.Ack {
				if c.metrics != nil {
					c.metrics.MessagesPushed.WithLabelValues(c.queueName).Inc()
				}

				c.logger.Debug("push confirmed",
					"delivery_tag", confirm.DeliveryTag,
					"retry_count", retryCount)
				return nil
			}
			c.logger.Warn("push not acknowledged, retrying",
				"delivery_tag", confirm.DeliveryTag,
				"backoff", backoff)

			if err := wait(); err != nil {
				return err
			}
		}
	}
}

// UnsafePush publishes without waiting for a broker confirmation. It only
// errors when the client has no live channel; a successful return does not
// mean the broker has the message.
func (c *Client) UnsafePush(ctx context.Context, data []byte) error {
	if !c.ready() {
		return errNotConnected
	}

	return c.channel.PublishWithContext(
		ctx,
		"",          // exchange
		c.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
		},
	)
}

// Consume streams deliveries from the queue with a prefetch of one.
// Every delivery must be Acked or Nacked by the caller; unacked messages
// pile up on the broker.
func (c *Client) Consume() (<-chan amqp.Delivery, error) {
	if !c.ready() {
		return nil, errNotConnected
	}

	if err := c.channel.Qos(
		1,     // prefetchCount
		0,     // prefetchSize
		false, // global
	); err != nil {
		return nil, err
	}

	return c.channel.Consume(
		c.queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
}

// Close stops the reconnect loop and tears down the channel and connection.
// Calling it on a client that never connected, or twice, returns
// errAlreadyClosed.
func (c *Client) Close() error {
	// isReady is read and written below, so hold the lock for the whole
	// teardown.
	c.m.Lock()
	defer c.m.Unlock()

	if !c.isReady {
		return errAlreadyClosed
	}
	close(c.done)
	if err := c.channel.Close(); err != nil {
		return err
	}
	if err := c.connection.Close(); err != nil {
		return err
	}

	c.isReady = false

	if c.metrics != nil {
		c.metrics.ConnectionStatus.Set(0)
	}

	return nil
}
