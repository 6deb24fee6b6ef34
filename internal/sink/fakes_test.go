package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
)

var errBoom = errors.New("boom")

var testTime = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testReading() sensor.Reading {
	return sensor.NewReading(sensor.Values{Temperature: 22.3, Humidity: 59, Pressure: 1013.65}, testTime)
}

// fakeSink records every interaction with its session.
type fakeSink struct {
	name       string
	connectErr error
	writeErr   error
	closeErr   error
	healthErr  error
	panicMsg   string

	mu      sync.Mutex
	written []sensor.Reading
	opened  int
	closed  int
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Connect(_ context.Context) (emitter.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	f.opened++
	return &fakeSession{sink: f}, nil
}

func (f *fakeSink) writes() []sensor.Reading {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sensor.Reading(nil), f.written...)
}

func (f *fakeSink) closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeSession struct {
	sink *fakeSink
}

func (s *fakeSession) Write(_ context.Context, r sensor.Reading) error {
	if s.sink.panicMsg != "" {
		panic(s.sink.panicMsg)
	}
	s.sink.mu.Lock()
	defer s.sink.mu.Unlock()
	if s.sink.writeErr != nil {
		return s.sink.writeErr
	}
	s.sink.written = append(s.sink.written, r)
	return nil
}

func (s *fakeSession) HealthCheck(_ context.Context) error {
	return s.sink.healthErr
}

func (s *fakeSession) Close() error {
	s.sink.mu.Lock()
	defer s.sink.mu.Unlock()
	s.sink.closed++
	return s.sink.closeErr
}

// recordingLogger captures Warn calls.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Warn(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprint(append([]any{msg}, args...)...))
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warns)
}

// fakePublisher stands in for the MQTT client.
type fakePublisher struct {
	topic     string
	payload   []byte
	err       error
	healthErr error
	closeCnt  int
}

func (p *fakePublisher) PublishDefault(_ context.Context, topic string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.topic = topic
	p.payload = payload
	return nil
}

func (p *fakePublisher) HealthCheck(_ context.Context) error {
	return p.healthErr
}

func (p *fakePublisher) Close() error {
	p.closeCnt++
	return nil
}

// fakeProducer stands in for the Kafka client.
type fakeProducer struct {
	key, value []byte
	at         time.Time
	healthErr  error
	closeCnt   int
}

func (p *fakeProducer) Publish(_ context.Context, key, value []byte, at time.Time) error {
	p.key, p.value, p.at = key, value, at
	return nil
}

func (p *fakeProducer) HealthCheck(_ context.Context) error {
	return p.healthErr
}

func (p *fakeProducer) Close() error {
	p.closeCnt++
	return nil
}

// fakeRecorder stands in for the journal repository.
type fakeRecorder struct {
	runIDs []string
	err    error
}

func (r *fakeRecorder) Record(_ context.Context, runID string, _ sensor.Reading) error {
	if r.err != nil {
		return r.err
	}
	r.runIDs = append(r.runIDs, runID)
	return nil
}
