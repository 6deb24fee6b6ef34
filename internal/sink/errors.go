package sink

import "errors"

// Sentinel errors for sink operations.
var (
	// ErrSessionClosed is returned by Write after Close.
	ErrSessionClosed = errors.New("sink: session closed")

	// ErrNotConnected is returned by Fanout.HealthCheck when no session is open.
	ErrNotConnected = errors.New("sink: not connected")

	// ErrMirrorConnect indicates a mirror could not be opened.
	ErrMirrorConnect = errors.New("sink: mirror connection failed")

	// ErrEncode indicates a reading could not be serialised.
	ErrEncode = errors.New("sink: encoding reading failed")
)
