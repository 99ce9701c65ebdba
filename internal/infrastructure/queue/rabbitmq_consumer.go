package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"

	"github.com/south-ventures/tikang-front/internal/domain/listing"
)

var ErrConsumerClosed = errors.New("consumer is closed")

// EventHandler applies one listing change event.
type EventHandler interface {
	Handle(ctx context.Context, event listing.ChangeEvent) error
}

type RabbitMQConfig struct {
	URL                  string
	QueueName            string
	Exchange             string
	RoutingKey           string
	PrefetchCount        int
	RetryBaseDelay       time.Duration
	MaxRetryDelay        time.Duration
	ConnectionTimeout    time.Duration
	HeartbeatInterval    time.Duration
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int
	// PerInstance gives each consumer its own exclusive, server-named queue bound to
	// Exchange, so every process sees every change event. QueueName is then only a label.
	PerInstance bool
}

type queueSpec struct {
	name       string
	durable    bool
	autoDelete bool
	exclusive  bool
}

func (c *RabbitMQConfig) queueSpec() queueSpec {
	if c.PerInstance {
		return queueSpec{name: "", durable: false, autoDelete: true, exclusive: true}
	}
	return queueSpec{name: c.QueueName, durable: true}
}

func NewRabbitMQConfig(url, queueName, exchange, routingKey string, prefetchCount int) *RabbitMQConfig {
	return &RabbitMQConfig{
		URL:                  url,
		QueueName:            queueName,
		Exchange:             exchange,
		RoutingKey:           routingKey,
		PrefetchCount:        prefetchCount,
		RetryBaseDelay:       time.Second,
		MaxRetryDelay:        30 * time.Second,
		ConnectionTimeout:    10 * time.Second,
		HeartbeatInterval:    10 * time.Second,
		ReconnectInterval:    5 * time.Second,
		MaxReconnectAttempts: 5,
	}
}

// RabbitMQConsumer reads listing change events and keeps its connection alive across broker restarts.
type RabbitMQConsumer struct {
	config         *RabbitMQConfig
	logger         *slog.Logger
	conn           *amqp.Connection
	channel        *amqp.Channel
	queueName      string
	circuitBreaker *gobreaker.CircuitBreaker
	mu             sync.RWMutex
	closed         int64
	ctx            context.Context
	cancel         context.CancelFunc
}

func NewRabbitMQConsumer(config *RabbitMQConfig, logger *slog.Logger) *RabbitMQConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	cbSettings := gobreaker.Settings{
		Name:        "rabbitmq-connection",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from,
				"to", to)
		},
	}

	return &RabbitMQConsumer{
		config:         config,
		logger:         logger,
		circuitBreaker: gobreaker.NewCircuitBreaker(cbSettings),
		ctx:            ctx,
		cancel:         cancel,
	}
}

func (c *RabbitMQConsumer) connectWithRetry(maxAttempts int) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if atomic.LoadInt64(&c.closed) == 1 {
			return ErrConsumerClosed
		}

		err := c.doConnect()
		if err == nil {
			c.logger.Info("Connected to RabbitMQ", "queue", c.config.QueueName, "attempt", attempt)
			return nil
		}
		lastErr = err

		c.logger.Warn("Connection attempt failed",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", err)

		if attempt < maxAttempts {
			select {
			case <-c.ctx.Done():
				return c.ctx.Err()
			case <-time.After(c.backoffDelay(attempt)):
			}
		}
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", maxAttempts, lastErr)
}

func (c *RabbitMQConsumer) doConnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && !c.conn.IsClosed() {
		_ = c.conn.Close()
	}

	conn, err := amqp.DialConfig(c.config.URL, amqp.Config{
		Heartbeat: c.config.HeartbeatInterval,
		Dial:      amqp.DefaultDial(c.config.ConnectionTimeout),
	})
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	queueName, err := c.declareTopology(ch)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	if err := ch.Qos(c.config.PrefetchCount, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	c.conn = conn
	c.channel = ch
	c.queueName = queueName
	return nil
}

// declareTopology returns the name of the queue to consume from, which the broker
// generates in per-instance mode.
func (c *RabbitMQConsumer) declareTopology(ch *amqp.Channel) (string, error) {
	spec := c.config.queueSpec()
	queue, err := ch.QueueDeclare(spec.name, spec.durable, spec.autoDelete, spec.exclusive, false, nil)
	if err != nil {
		return "", fmt.Errorf("failed to declare queue %s: %w", c.config.QueueName, err)
	}
	if c.config.Exchange == "" {
		return queue.Name, nil
	}

	if err := ch.ExchangeDeclare(c.config.Exchange, "topic", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("failed to declare exchange %s: %w", c.config.Exchange, err)
	}
	if err := ch.QueueBind(queue.Name, c.config.RoutingKey, c.config.Exchange, false, nil); err != nil {
		return "", fmt.Errorf("failed to bind queue %s: %w", queue.Name, err)
	}
	return queue.Name, nil
}

func (c *RabbitMQConsumer) consume() (<-chan amqp.Delivery, error) {
	if atomic.LoadInt64(&c.closed) == 1 {
		return nil, ErrConsumerClosed
	}

	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		c.mu.RLock()
		defer c.mu.RUnlock()

		if c.channel == nil {
			return nil, fmt.Errorf("channel is not available")
		}

		deliveries, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to start consuming: %w", err)
		}
		return deliveries, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(<-chan amqp.Delivery), nil
}

// Run consumes until ctx is cancelled or Close is called, reconnecting when the delivery
// channel closes underneath it.
func (c *RabbitMQConsumer) Run(ctx context.Context, handler EventHandler) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if atomic.LoadInt64(&c.closed) == 1 {
			return nil
		}

		if err := c.HealthCheck(); err != nil {
			if err := c.connectWithRetry(c.config.MaxReconnectAttempts); err != nil {
				if errors.Is(err, ErrConsumerClosed) || errors.Is(err, context.Canceled) {
					return nil
				}
				c.logger.Error("Reconnection failed", "error", err)
				if !c.sleep(ctx, c.config.ReconnectInterval) {
					return nil
				}
				continue
			}
		}

		deliveries, err := c.consume()
		if err != nil {
			c.logger.Error("Failed to start consuming", "error", err)
			if !c.sleep(ctx, c.config.ReconnectInterval) {
				return nil
			}
			continue
		}

		c.logger.Info("Consuming listing change events", "queue", c.currentQueue())
		if done := c.drain(ctx, deliveries, handler); done {
			return nil
		}
		c.logger.Warn("Delivery channel closed, reconnecting")
	}
}

func (c *RabbitMQConsumer) currentQueue() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queueName
}

func (c *RabbitMQConsumer) drain(ctx context.Context, deliveries <-chan amqp.Delivery, handler EventHandler) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case <-c.ctx.Done():
			return true
		case delivery, ok := <-deliveries:
			if !ok {
				return false
			}
			c.process(ctx, delivery, handler)
		}
	}
}

func (c *RabbitMQConsumer) process(ctx context.Context, delivery amqp.Delivery, handler EventHandler) {
	event, err := decodeEvent(delivery.Body)
	if err != nil {
		c.logger.Warn("Discarding malformed change event", "delivery_tag", delivery.DeliveryTag, "error", err)
		_ = delivery.Nack(false, false)
		return
	}

	if err := handler.Handle(ctx, event); err != nil {
		requeue := !delivery.Redelivered
		c.logger.Error("Failed to apply change event",
			"event_id", event.ID,
			"type", event.Type,
			"requeue", requeue,
			"error", err)
		_ = delivery.Nack(false, requeue)
		return
	}

	if err := delivery.Ack(false); err != nil {
		c.logger.Warn("Failed to ack change event", "event_id", event.ID, "error", err)
	}
}

func decodeEvent(body []byte) (listing.ChangeEvent, error) {
	var event listing.ChangeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return listing.ChangeEvent{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Type == "" {
		return listing.ChangeEvent{}, fmt.Errorf("event %q has no type", event.ID)
	}
	return event, nil
}

func (c *RabbitMQConsumer) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (c *RabbitMQConsumer) Close() error {
	if !atomic.CompareAndSwapInt64(&c.closed, 0, 1) {
		return nil
	}

	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.logger.Info("RabbitMQ consumer closed successfully")
	return nil
}

func (c *RabbitMQConsumer) HealthCheck() error {
	if atomic.LoadInt64(&c.closed) == 1 {
		return ErrConsumerClosed
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn == nil || c.conn.IsClosed() {
		return fmt.Errorf("connection is not available")
	}
	if c.channel == nil || c.channel.IsClosed() {
		return fmt.Errorf("channel is not available")
	}
	return nil
}

func (c *RabbitMQConsumer) backoffDelay(attempt int) time.Duration {
	delay := c.config.RetryBaseDelay * time.Duration(1<<uint(attempt-1))
	if delay > c.config.MaxRetryDelay {
		delay = c.config.MaxRetryDelay
	}
	return delay
}
