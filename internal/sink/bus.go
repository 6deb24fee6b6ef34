package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/kafka"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
)

// mqttPublisher is satisfied by *mqtt.Client.
type mqttPublisher interface {
	PublishDefault(ctx context.Context, topic string, payload []byte) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// MQTT mirrors readings to an MQTT broker.
type MQTT struct {
	connect func(ctx context.Context) (mqttPublisher, error)
}

// NewMQTT returns a mirror that publishes to the configured broker.
// logger may be nil.
func NewMQTT(cfg config.MQTTConfig, logger mqtt.Logger) *MQTT {
	return &MQTT{
		connect: func(ctx context.Context) (mqttPublisher, error) {
			c, err := mqtt.Connect(ctx, cfg)
			if err != nil {
				return nil, err
			}
			if logger != nil {
				c.SetLogger(logger)
			}
			return c, nil
		},
	}
}

// Name identifies the mirror in logs.
func (m *MQTT) Name() string { return "mqtt" }

// Connect opens the broker connection.
func (m *MQTT) Connect(ctx context.Context) (emitter.Session, error) {
	p, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	return &mqttSession{pub: p}, nil
}

type mqttSession struct {
	pub       mqttPublisher
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func (s *mqttSession) Write(ctx context.Context, r sensor.Reading) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return s.pub.PublishDefault(ctx, mqtt.Topics{}.Reading(r.SensorID), body)
}

func (s *mqttSession) HealthCheck(ctx context.Context) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.pub.HealthCheck(ctx)
}

func (s *mqttSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.pub.Close()
	})
	return s.closeErr
}

// kafkaProducer is satisfied by *kafka.Client.
type kafkaProducer interface {
	Publish(ctx context.Context, key, value []byte, at time.Time) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// Kafka mirrors readings to a Kafka topic keyed by sensor id.
type Kafka struct {
	connect func(ctx context.Context) (kafkaProducer, error)
}

// NewKafka returns a mirror that produces to the configured topic.
func NewKafka(cfg config.KafkaConfig) *Kafka {
	return &Kafka{
		connect: func(ctx context.Context) (kafkaProducer, error) {
			return kafka.Connect(ctx, cfg)
		},
	}
}

// Name identifies the mirror in logs.
func (k *Kafka) Name() string { return "kafka" }

// Connect opens the producer.
func (k *Kafka) Connect(ctx context.Context) (emitter.Session, error) {
	p, err := k.connect(ctx)
	if err != nil {
		return nil, err
	}
	return &kafkaSession{producer: p}, nil
}

type kafkaSession struct {
	producer  kafkaProducer
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func (s *kafkaSession) Write(ctx context.Context, r sensor.Reading) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return s.producer.Publish(ctx, []byte(r.SensorID), body, r.Timestamp)
}

func (s *kafkaSession) HealthCheck(ctx context.Context) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.producer.HealthCheck(ctx)
}

func (s *kafkaSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.producer.Close()
	})
	return s.closeErr
}
