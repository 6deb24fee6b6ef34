package kafka

import "errors"

// Sentinel errors for Kafka operations.
var (
	// ErrNotConnected indicates the client has been closed.
	ErrNotConnected = errors.New("kafka: not connected")

	// ErrConnectionFailed indicates no broker could be reached.
	ErrConnectionFailed = errors.New("kafka: connection failed")

	// ErrPublishFailed indicates the broker did not accept a message.
	ErrPublishFailed = errors.New("kafka: publish failed")
)
