package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/config"
)

// Default timeouts for Kafka operations.
const (
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// messageWriter is the subset of *kafkago.Writer the client uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Client produces messages to a single Kafka topic.
//
// Messages are keyed, and the hash balancer keeps every message with the
// same key on the same partition, so one sensor's readings stay ordered.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	writer  messageWriter
	brokers []string

	connected bool
	mu        sync.RWMutex

	closeOnce sync.Once
	closeErr  error
}

// Connect verifies a broker is reachable and prepares a synchronous writer.
//
// It performs the following:
//  1. Dials the brokers in order until one answers, failing fast only when
//     none of them is reachable
//  2. Builds a kafka-go Writer with the hash balancer and leader acks
//
// BatchSize is 1 so a single Publish is sent at once rather than waiting
// out the writer's batch timeout.
//
// Parameters:
//   - ctx: Context bounding the reachability check
//   - cfg: Kafka configuration
//
// Returns:
//   - *Client: Client ready for Publish
//   - error: ErrConnectionFailed wrapping the cause
func Connect(ctx context.Context, cfg config.KafkaConfig) (*Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: no brokers configured", ErrConnectionFailed)
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("%w: topic is empty", ErrConnectionFailed)
	}

	if err := pingAny(ctx, cfg.Brokers); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	writeTimeout := defaultWriteTimeout
	if cfg.WriteTimeout > 0 {
		writeTimeout = time.Duration(cfg.WriteTimeout) * time.Second
	}

	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchSize:              1,
		WriteTimeout:           writeTimeout,
		AllowAutoTopicCreation: true,
	}

	return newClient(w, cfg.Brokers), nil
}

func newClient(w messageWriter, brokers []string) *Client {
	return &Client{
		writer:    w,
		brokers:   brokers,
		connected: true,
	}
}

// pingAny returns nil as soon as one broker answers. The writer discovers
// the rest of the cluster from whichever broker it reaches.
func pingAny(ctx context.Context, brokers []string) error {
	errs := make([]error, 0, len(brokers))
	for _, b := range brokers {
		err := ping(ctx, b)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

// ping opens and closes one connection to broker.
func ping(ctx context.Context, broker string) error {
	dialCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()

	conn, err := kafkago.DialContext(dialCtx, "tcp", broker)
	if err != nil {
		return fmt.Errorf("dial %s: %w", broker, err)
	}
	return conn.Close()
}

// Publish writes one keyed message and waits for the leader to acknowledge it.
//
// Parameters:
//   - ctx: Context for cancellation
//   - key: Partitioning key (the sensor id)
//   - value: Message body
//   - at: Message timestamp
//
// Returns:
//   - error: ErrNotConnected after Close, or ErrPublishFailed wrapping the cause
func (c *Client) Publish(ctx context.Context, key, value []byte, at time.Time) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	msg := kafkago.Message{
		Key:   key,
		Value: value,
		Time:  at,
	}
	if err := c.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// HealthCheck succeeds if any configured broker accepts a connection.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	if err := pingAny(ctx, c.brokers); err != nil {
		return fmt.Errorf("kafka health check: %w", err)
	}
	return nil
}

// IsConnected reports whether Close has not been called yet.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close flushes and closes the writer. Calling Close more than once returns
// the first result.
func (c *Client) Close() error {
	if c == nil || c.writer == nil {
		return nil
	}

	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()

		if err := c.writer.Close(); err != nil {
			c.closeErr = fmt.Errorf("kafka: closing writer: %w", err)
		}
	})

	return c.closeErr
}
