package sink

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
)

// WriteObserver receives the duration and result of every write.
// *metrics.Metrics satisfies it.
type WriteObserver interface {
	ObserveWrite(sink string, d time.Duration, err error)
}

// Observed wraps a sink so each write is reported to an observer under the
// sink's name.
type Observed struct {
	inner    Named
	observer WriteObserver
	now      func() time.Time
}

// NewObserved wraps inner. A nil observer returns inner unchanged.
func NewObserved(inner Named, observer WriteObserver) Named {
	if observer == nil {
		return inner
	}
	return &Observed{inner: inner, observer: observer, now: time.Now}
}

// Name reports the wrapped sink's name.
func (o *Observed) Name() string { return o.inner.Name() }

// Connect opens the wrapped sink.
func (o *Observed) Connect(ctx context.Context) (emitter.Session, error) {
	s, err := o.inner.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return &observedSession{Session: s, name: o.inner.Name(), observer: o.observer, now: o.now}, nil
}

type observedSession struct {
	emitter.Session
	name     string
	observer WriteObserver
	now      func() time.Time
}

func (s *observedSession) HealthCheck(ctx context.Context) error {
	return checkHealth(ctx, s.Session)
}

func (s *observedSession) Write(ctx context.Context, r sensor.Reading) error {
	start := s.now()
	err := s.Session.Write(ctx, r)
	s.observer.ObserveWrite(s.name, s.now().Sub(start), err)
	return err
}
