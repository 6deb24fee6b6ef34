// Package emitter drives the periodic generate → persist cycle.
//
// An Emitter owns the sensor value model and the emission counter. It opens a
// single session with a Sink, then repeatedly produces a reading, writes it
// synchronously, and sleeps for the configured interval.
//
// # Lifecycle
//
//	Connecting ──ok──▶ Running ──cancel──▶ Stopped
//	     │                │ ▲
//	     │ fail           └─┘ write failure (logged, loop continues)
//	     ▼
//	FatalFailed
//
// Connection failures at startup are retried with exponential backoff up to
// the configured attempt limit; once exhausted the run fails with
// ErrConnectionFailed and the loop is never entered. Write failures inside a
// cycle never escape the loop. Cancelling the context stops the loop at the
// top of the next cycle or during the sleep; the session is then closed and
// Run returns nil.
//
// # Usage
//
//	e := emitter.New(emitter.Config{Interval: 5 * time.Second},
//	    sensor.NewModel(sensor.NewRandNoiseFromTime()))
//	e.SetLogger(log)
//	if err := e.Run(ctx, sink); err != nil {
//	    return err // fatal: sink unreachable
//	}
//
// # Thread Safety
//
// Run and RunOnce must not be called concurrently on the same Emitter.
// Count, Failures, LastSuccess and State may be read from any goroutine.
package emitter
