package emitter

import (
	"context"
	"fmt"
)

// connect opens a sink session, retrying with exponential backoff.
//
// The optional startup delay runs first. Cancellation at any point returns
// ctx.Err() immediately.
func (e *Emitter) connect(ctx context.Context, sink Sink) (Session, error) {
	e.setState(StateConnecting)

	if e.cfg.StartupDelay > 0 {
		e.logger.Info("waiting before connecting to sink", "delay", e.cfg.StartupDelay.String())
		if !sleep(ctx, e.cfg.StartupDelay) {
			return nil, ctx.Err()
		}
	}

	delay := e.cfg.ConnectInitialDelay
	var lastErr error

	for attempt := 1; attempt <= e.cfg.ConnectAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		session, err := sink.Connect(ctx)
		if err == nil {
			e.logger.Info("sink connected", "attempt", attempt)
			return session, nil
		}
		lastErr = err

		if attempt == e.cfg.ConnectAttempts {
			break
		}

		e.logger.Warn("sink connection failed, retrying",
			"attempt", attempt,
			"max_attempts", e.cfg.ConnectAttempts,
			"retry_in", delay.String(),
			"error", err,
		)
		if !sleep(ctx, delay) {
			return nil, ctx.Err()
		}
		delay = min(delay*2, e.cfg.ConnectMaxDelay)
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrConnectionFailed, e.cfg.ConnectAttempts, lastErr)
}
