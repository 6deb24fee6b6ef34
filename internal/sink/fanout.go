package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
)

// Named is a sink that can identify itself in logs.
type Named interface {
	emitter.Sink
	Name() string
}

// Logger receives mirror failures.
type Logger interface {
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// Fanout writes every reading to one primary sink and then to each mirror.
type Fanout struct {
	primary Named
	mirrors []Named
	logger  Logger

	mu      sync.Mutex
	current *fanoutSession
}

// NewFanout combines primary with mirrors. logger may be nil.
func NewFanout(primary Named, mirrors []Named, logger Logger) *Fanout {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Fanout{primary: primary, mirrors: mirrors, logger: logger}
}

// Name reports the primary's name.
func (f *Fanout) Name() string { return f.primary.Name() }

// Connect opens the primary and every mirror. If any of them fails, the
// sessions already opened are closed and the error is returned.
//
// A primary failure is returned unwrapped so the emitter can classify it.
func (f *Fanout) Connect(ctx context.Context) (emitter.Session, error) {
	primary, err := f.primary.Connect(ctx)
	if err != nil {
		return nil, err
	}

	s := &fanoutSession{
		primary: namedSession{name: f.primary.Name(), session: primary},
		logger:  f.logger,
	}
	for _, m := range f.mirrors {
		ms, err := m.Connect(ctx)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrMirrorConnect, m.Name(), err)
		}
		s.mirrors = append(s.mirrors, namedSession{name: m.Name(), session: ms})
	}

	f.mu.Lock()
	f.current = s
	f.mu.Unlock()
	return s, nil
}

// HealthCheck checks every sink of the most recently opened session.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: ErrNotConnected when no session is open, otherwise one error
//     per unhealthy sink prefixed with its name
func (f *Fanout) HealthCheck(ctx context.Context) error {
	f.mu.Lock()
	s := f.current
	f.mu.Unlock()

	if s == nil || s.closed.Load() {
		return ErrNotConnected
	}
	return s.HealthCheck(ctx)
}

type namedSession struct {
	name    string
	session emitter.Session
}

type fanoutSession struct {
	primary namedSession
	mirrors []namedSession
	logger  Logger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Write returns the primary's result. Mirrors are only written once the
// primary has accepted the reading.
func (s *fanoutSession) Write(ctx context.Context, r sensor.Reading) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if err := s.primary.session.Write(ctx, r); err != nil {
		return err
	}
	for _, m := range s.mirrors {
		if err := writeMirror(ctx, m.session, r); err != nil {
			s.logger.Warn("mirror write failed",
				"mirror", m.name,
				"sensor_id", r.SensorID,
				"error", err,
			)
		}
	}
	return nil
}

// writeMirror isolates a panicking mirror from the primary's result.
func writeMirror(ctx context.Context, session emitter.Session, r sensor.Reading) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("mirror panicked: %v", rec)
		}
	}()
	return session.Write(ctx, r)
}

// HealthCheck checks the primary and then each mirror.
func (s *fanoutSession) HealthCheck(ctx context.Context) error {
	var errs []error
	for _, m := range append([]namedSession{s.primary}, s.mirrors...) {
		if err := checkHealth(ctx, m.session); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *fanoutSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		var errs []error
		for i := len(s.mirrors) - 1; i >= 0; i-- {
			if err := s.mirrors[i].session.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", s.mirrors[i].name, err))
			}
		}
		if err := s.primary.session.Close(); err != nil {
			errs = append(errs, err)
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
