// Sensor Simulator - synthetic environmental telemetry
//
// This is the main entry point for the sensor simulator. It emits one
// temperature, humidity and pressure reading for a single virtual sensor at
// a fixed interval and writes it to a time-series store, optionally
// mirroring each reading to MQTT, Kafka and a local SQLite journal.
//
// Exit codes:
//   - 0: clean shutdown (SIGINT/SIGTERM)
//   - 1: configuration or setup failure
//   - 2: the primary store never became reachable
//   - 3: "once" could not persist its reading
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Process exit codes.
const (
	exitOK          = 0
	exitSetup       = 1
	exitSinkFailed  = 2
	exitWriteFailed = 3
)

func main() {
	// Cancel on Ctrl+C and SIGTERM; the emitter treats cancellation as a
	// clean shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command result to a process exit status.
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return exitOK
	case errors.Is(err, emitter.ErrConnectionFailed):
		return exitSinkFailed
	case errors.Is(err, emitter.ErrWriteFailed):
		return exitWriteFailed
	default:
		return exitSetup
	}
}
