package sink

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-sensorsim/internal/infrastructure/tsdb"
	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
)

// pointWriter is satisfied by *influxdb.Client and *tsdb.Client.
type pointWriter interface {
	WritePoint(ctx context.Context, measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// PointStore is a primary sink that writes each reading as one
// time-series point.
type PointStore struct {
	name    string
	connect func(ctx context.Context) (pointWriter, error)
}

// NewInflux returns a primary sink backed by InfluxDB v2.
func NewInflux(cfg config.InfluxDBConfig) *PointStore {
	return &PointStore{
		name: "influxdb",
		connect: func(ctx context.Context) (pointWriter, error) {
			return influxdb.Connect(ctx, cfg)
		},
	}
}

// NewVictoriaMetrics returns a primary sink backed by VictoriaMetrics.
func NewVictoriaMetrics(cfg config.TSDBConfig) *PointStore {
	return &PointStore{
		name: "tsdb",
		connect: func(ctx context.Context) (pointWriter, error) {
			return tsdb.Connect(ctx, cfg)
		},
	}
}

// Name identifies the store in logs.
func (s *PointStore) Name() string { return s.name }

// Connect opens the store client.
func (s *PointStore) Connect(ctx context.Context) (emitter.Session, error) {
	w, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	return &pointSession{writer: w}, nil
}

type pointSession struct {
	writer    pointWriter
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func (s *pointSession) Write(ctx context.Context, r sensor.Reading) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.writer.WritePoint(ctx, sensor.Measurement, r.Tags(), r.Fields(), r.Timestamp)
}

func (s *pointSession) HealthCheck(ctx context.Context) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.writer.HealthCheck(ctx)
}

func (s *pointSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.writer.Close()
	})
	return s.closeErr
}
