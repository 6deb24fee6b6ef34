package emitter

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
)

// Default emission settings.
const (
	// DefaultInterval is the pause between cycles.
	DefaultInterval = 5 * time.Second

	// DefaultConnectAttempts is the number of connection attempts before a run fails.
	DefaultConnectAttempts = 5

	// DefaultConnectInitialDelay is the first backoff delay between connection attempts.
	DefaultConnectInitialDelay = time.Second

	// DefaultConnectMaxDelay caps the exponential backoff.
	DefaultConnectMaxDelay = 30 * time.Second
)

// Sink opens sessions with a durable store.
type Sink interface {
	// Connect establishes a session. An error here is fatal for a run
	// once the retry budget is exhausted.
	Connect(ctx context.Context) (Session, error)
}

// Session persists readings. It is opened once per run and held until the
// run ends.
type Session interface {
	// Write durably persists one reading. It blocks until the store has
	// accepted or rejected the reading. Timeouts are the session's concern.
	Write(ctx context.Context, r sensor.Reading) error

	// Close releases the session. It must be safe to call more than once.
	Close() error
}

// Logger is the logging surface used by the emitter.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Config controls cadence and connection policy.
// Zero values select the package defaults.
type Config struct {
	// Interval is the pause after each cycle. Readings are spaced at least
	// this far apart; write latency is not compensated.
	Interval time.Duration

	// StartupDelay is an optional fixed wait before the first connection attempt.
	StartupDelay time.Duration

	// ConnectAttempts bounds the connection attempts at startup.
	ConnectAttempts int

	// ConnectInitialDelay is the backoff after the first failed attempt.
	// It doubles after each further failure up to ConnectMaxDelay.
	ConnectInitialDelay time.Duration

	// ConnectMaxDelay caps the backoff.
	ConnectMaxDelay time.Duration
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.ConnectAttempts <= 0 {
		c.ConnectAttempts = DefaultConnectAttempts
	}
	if c.ConnectInitialDelay <= 0 {
		c.ConnectInitialDelay = DefaultConnectInitialDelay
	}
	if c.ConnectMaxDelay <= 0 {
		c.ConnectMaxDelay = DefaultConnectMaxDelay
	}
	if c.ConnectMaxDelay < c.ConnectInitialDelay {
		c.ConnectMaxDelay = c.ConnectInitialDelay
	}
	return c
}

// Emitter runs the emission loop for one virtual sensor.
type Emitter struct {
	cfg    Config
	model  *sensor.Model
	logger Logger
	now    func() time.Time

	// lastTimestamp is owned by the loop and keeps timestamps non-decreasing.
	lastTimestamp time.Time

	count       atomic.Uint64
	failures    atomic.Uint64
	lastSuccess atomic.Int64 // unix nanoseconds, 0 if none
	state       atomic.Int32
}

// New creates an Emitter around model.
func New(cfg Config, model *sensor.Model) *Emitter {
	return &Emitter{
		cfg:    cfg.withDefaults(),
		model:  model,
		logger: nopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the logger. Must be called before Run or RunOnce.
func (e *Emitter) SetLogger(logger Logger) {
	if logger == nil {
		e.logger = nopLogger{}
		return
	}
	e.logger = logger
}

// Count returns the number of readings confirmed by the sink.
func (e *Emitter) Count() uint64 {
	return e.count.Load()
}

// Failures returns the number of readings the sink failed to persist.
func (e *Emitter) Failures() uint64 {
	return e.failures.Load()
}

// LastSuccess returns the timestamp of the last confirmed reading,
// or the zero time if none.
func (e *Emitter) LastSuccess() time.Time {
	ns := e.lastSuccess.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}

// State returns the current lifecycle state.
func (e *Emitter) State() State {
	return State(e.state.Load())
}

func (e *Emitter) setState(s State) {
	e.state.Store(int32(s))
}

// Run connects to sink and emits a reading every interval until ctx is
// cancelled.
//
// Returns:
//   - nil on cancellation (including cancellation while connecting)
//   - an error wrapping ErrConnectionFailed if the sink never became reachable
func (e *Emitter) Run(ctx context.Context, sink Sink) error {
	session, err := e.connect(ctx, sink)
	if err != nil {
		if ctx.Err() != nil {
			e.setState(StateStopped)
			e.logger.Info("emitter stopped before sink connected")
			return nil
		}
		e.setState(StateFatalFailed)
		e.logger.Error("sink connection failed", "error", err)
		return err
	}
	defer e.closeSession(session)

	e.setState(StateRunning)
	e.logger.Info("emitter running", "interval", e.cfg.Interval.String())

	for ctx.Err() == nil {
		_, _ = e.cycle(ctx, session) //nolint:errcheck // logged and counted inside cycle

		if !sleep(ctx, e.cfg.Interval) {
			break
		}
	}

	e.setState(StateStopped)
	e.logger.Info("emitter stopped",
		"readings", e.Count(),
		"failures", e.Failures(),
	)
	return nil
}

// RunOnce connects to sink, emits exactly one reading, and closes the session.
//
// Returns:
//   - sensor.Reading: the reading that was generated (also on write failure)
//   - error: wrapping ErrConnectionFailed or ErrWriteFailed, or ctx.Err()
//     if cancelled before connecting or during the write
func (e *Emitter) RunOnce(ctx context.Context, sink Sink) (sensor.Reading, error) {
	session, err := e.connect(ctx, sink)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			e.setState(StateStopped)
			return sensor.Reading{}, ctxErr
		}
		e.setState(StateFatalFailed)
		return sensor.Reading{}, err
	}
	defer e.closeSession(session)

	e.setState(StateRunning)
	r, err := e.cycle(ctx, session)
	e.setState(StateStopped)
	return r, err
}

// cycle generates, assembles and writes one reading.
// Failures are logged and counted here and never propagate past the loop.
// A write cut short by cancellation is neither counted nor logged as a failure.
func (e *Emitter) cycle(ctx context.Context, session Session) (sensor.Reading, error) {
	r := sensor.NewReading(e.model.Next(), e.timestamp())

	if err := e.write(ctx, session, r); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			e.logger.Info("write interrupted by shutdown", "error", err)
			return r, ctxErr
		}
		failures := e.failures.Add(1)
		e.logger.Warn("reading not persisted",
			"error", err,
			"failures", failures,
		)
		return r, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	n := e.count.Add(1)
	e.lastSuccess.Store(r.Timestamp.UnixNano())
	e.logger.Info("reading emitted",
		"count", n,
		"temperature_c", r.Temperature,
		"humidity_pct", r.Humidity,
		"pressure_hpa", r.Pressure,
		"timestamp", r.Timestamp.Format(time.RFC3339),
	)
	return r, nil
}

// write calls the session with panic recovery.
func (e *Emitter) write(ctx context.Context, session Session, r sensor.Reading) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrSinkPanic, p)
		}
	}()
	return session.Write(ctx, r)
}

// timestamp returns the current UTC instant, never earlier than the previous one.
func (e *Emitter) timestamp() time.Time {
	ts := e.now().UTC()
	if ts.Before(e.lastTimestamp) {
		ts = e.lastTimestamp
	}
	e.lastTimestamp = ts
	return ts
}

// closeSession releases the session and logs any error.
func (e *Emitter) closeSession(session Session) {
	if err := session.Close(); err != nil {
		e.logger.Error("error closing sink session", "error", err)
		return
	}
	e.logger.Info("sink session closed")
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
