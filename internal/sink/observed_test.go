package sink

import (
	"context"
	"errors"
	"testing"
	"time"
)

type observation struct {
	sink string
	d    time.Duration
	err  error
}

type recordingObserver struct {
	seen []observation
}

func (o *recordingObserver) ObserveWrite(sink string, d time.Duration, err error) {
	o.seen = append(o.seen, observation{sink, d, err})
}

func TestNewObserved_NilObserver(t *testing.T) {
	inner := &fakeSink{name: "primary"}
	if got := NewObserved(inner, nil); got != Named(inner) {
		t.Error("NewObserved(nil observer) should return the sink unchanged")
	}
}

func TestObserved_ReportsEveryWrite(t *testing.T) {
	inner := &fakeSink{name: "influxdb"}
	obs := &recordingObserver{}

	o := NewObserved(inner, obs).(*Observed)
	tick := testTime
	o.now = func() time.Time {
		tick = tick.Add(5 * time.Millisecond)
		return tick
	}

	session, err := o.Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := session.Write(context.Background(), testReading()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	inner.writeErr = errBoom
	if err := session.Write(context.Background(), testReading()); !errors.Is(err, errBoom) {
		t.Fatalf("Write() error = %v, want %v", err, errBoom)
	}

	if len(obs.seen) != 2 {
		t.Fatalf("observations = %d, want 2", len(obs.seen))
	}
	if obs.seen[0].sink != "influxdb" || obs.seen[0].d != 5*time.Millisecond || obs.seen[0].err != nil {
		t.Errorf("first observation = %+v", obs.seen[0])
	}
	if !errors.Is(obs.seen[1].err, errBoom) {
		t.Errorf("second observation err = %v, want %v", obs.seen[1].err, errBoom)
	}

	if err := session.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if inner.closes() != 1 {
		t.Errorf("inner closed %d times, want 1", inner.closes())
	}
}

func TestObserved_ConnectError(t *testing.T) {
	o := NewObserved(&fakeSink{name: "x", connectErr: errBoom}, &recordingObserver{})
	if _, err := o.Connect(context.Background()); !errors.Is(err, errBoom) {
		t.Errorf("Connect() error = %v, want %v", err, errBoom)
	}
}
