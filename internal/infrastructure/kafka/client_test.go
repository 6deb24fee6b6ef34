package kafka

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/config"
)

// fakeWriter records messages instead of producing them.
type fakeWriter struct {
	mu       sync.Mutex
	msgs     []kafkago.Message
	writeErr error
	closeErr error
	closes   int
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return f.closeErr
}

func TestPublish(t *testing.T) {
	w := &fakeWriter{}
	c := newClient(w, []string{"localhost:9092"})

	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	if err := c.Publish(context.Background(), []byte("SENSOR_001"), []byte(`{"temperatura":22.3}`), at); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(w.msgs) != 1 {
		t.Fatalf("writer received %d messages, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "SENSOR_001" {
		t.Errorf("Key = %q, want %q", msg.Key, "SENSOR_001")
	}
	if !msg.Time.Equal(at) {
		t.Errorf("Time = %v, want %v", msg.Time, at)
	}
}

func TestPublish_WriterError(t *testing.T) {
	cause := errors.New("leader not available")
	c := newClient(&fakeWriter{writeErr: cause}, []string{"localhost:9092"})

	err := c.Publish(context.Background(), nil, []byte("x"), time.Now())
	if !errors.Is(err, ErrPublishFailed) || !errors.Is(err, cause) {
		t.Errorf("Publish() error = %v, want ErrPublishFailed wrapping cause", err)
	}
}

func TestClose_Idempotent(t *testing.T) {
	w := &fakeWriter{closeErr: errors.New("flush failed")}
	c := newClient(w, []string{"localhost:9092"})

	first := c.Close()
	second := c.Close()

	if first == nil || second == nil {
		t.Fatalf("Close() errors = %v, %v; want the writer error both times", first, second)
	}
	if w.closes != 1 {
		t.Errorf("writer closed %d times, want 1", w.closes)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}

	err := c.Publish(context.Background(), nil, []byte("x"), time.Now())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() after Close error = %v, want ErrNotConnected", err)
	}
}

func TestClose_Nil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
}

func TestConnect_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.KafkaConfig
	}{
		{"no brokers", config.KafkaConfig{Topic: "t"}},
		{"no topic", config.KafkaConfig{Brokers: []string{"localhost:9092"}}},
		{"unreachable", config.KafkaConfig{Brokers: []string{"127.0.0.1:1"}, Topic: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Connect(context.Background(), tt.cfg)
			if !errors.Is(err, ErrConnectionFailed) {
				t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
			}
		})
	}
}

// liveBroker accepts TCP connections for the lifetime of the test.
func liveBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	return ln.Addr().String()
}

// deadBroker returns an address nothing listens on.
func deadBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func TestConnect_BrokerOrder(t *testing.T) {
	live := liveBroker(t)
	dead := deadBroker(t)

	tests := []struct {
		name    string
		brokers []string
		wantErr bool
	}{
		{"live only", []string{live}, false},
		{"live then dead", []string{live, dead}, false},
		{"dead then live", []string{dead, live}, false},
		{"all dead", []string{dead, dead}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Connect(context.Background(), config.KafkaConfig{
				Brokers: tt.brokers,
				Topic:   "sensor.readings",
			})
			if tt.wantErr {
				if !errors.Is(err, ErrConnectionFailed) {
					t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Connect() error = %v", err)
			}
			defer c.Close()

			if err := c.HealthCheck(context.Background()); err != nil {
				t.Errorf("HealthCheck() error = %v", err)
			}
		})
	}
}

func TestHealthCheck_AllBrokersDown(t *testing.T) {
	c := newClient(&fakeWriter{}, []string{deadBroker(t), deadBroker(t)})

	if err := c.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() with no reachable broker should fail")
	}

	c.Close()
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() after Close error = %v, want ErrNotConnected", err)
	}
}

func TestConnect_Integration(t *testing.T) {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		t.Skip("KAFKA_BROKER not set, skipping integration test")
	}

	c, err := Connect(context.Background(), config.KafkaConfig{
		Brokers: []string{broker},
		Topic:   "sensorsim.test",
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer c.Close()

	if err := c.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
