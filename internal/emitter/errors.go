package emitter

import "errors"

// Sentinel errors for emission runs.
//
//	if errors.Is(err, emitter.ErrConnectionFailed) {
//	    // sink unreachable at startup
//	}
var (
	// ErrConnectionFailed indicates the sink session could not be opened.
	// This is fatal for a run.
	ErrConnectionFailed = errors.New("emitter: sink connection failed")

	// ErrWriteFailed indicates the sink rejected or could not accept a reading.
	// Run tolerates it; RunOnce returns it.
	ErrWriteFailed = errors.New("emitter: write failed")

	// ErrSinkPanic indicates a sink write panicked. It is treated as a write failure.
	ErrSinkPanic = errors.New("emitter: sink panicked")
)
