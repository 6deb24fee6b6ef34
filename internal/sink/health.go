package sink

import (
	"context"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
)

// HealthChecker is implemented by sessions that can verify their
// connection without writing a reading.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// checkHealth runs the session's check. Sessions without one, like the
// journal whose database is checked by its owner, count as healthy.
func checkHealth(ctx context.Context, s emitter.Session) error {
	if hc, ok := s.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
