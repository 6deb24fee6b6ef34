package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nerrad567/gray-logic-sensorsim/internal/api"
)

// run emits readings until ctx is cancelled.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - configPath: YAML config file, empty for defaults and environment only
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, configPath string) error {
	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.metrics.RegisterEmission(a.emitter); err != nil {
		return err
	}

	// Status API (optional)
	if a.cfg.API.Enabled {
		checks := map[string]api.HealthChecker{"sink": a.sink}
		if a.db != nil {
			checks["database"] = a.db
		}
		srv, err := api.New(api.Deps{
			Config:  a.cfg.API,
			Logger:  a.log.Component("api"),
			Emitter: a.emitter,
			Journal: a.journal,
			Metrics: a.metrics.Handler(),
			Checks:  checks,
			Sink:    a.sink.Name(),
			RunID:   a.runID,
			Version: version,
		})
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer func() {
			if closeErr := srv.Close(); closeErr != nil {
				a.log.Error("error closing API server", "error", closeErr)
			}
		}()
	}

	if err := a.emitter.Run(ctx, a.sink); err != nil {
		return fmt.Errorf("emitting readings: %w", err)
	}

	a.log.Info("sensor simulator stopped",
		"count", a.emitter.Count(),
		"failures", a.emitter.Failures(),
	)
	return nil
}

// once emits a single reading and writes it to out as JSON.
// A reading the store rejected is reported through ErrWriteFailed.
func once(ctx context.Context, configPath string, out io.Writer) error {
	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	r, err := a.emitter.RunOnce(ctx, a.sink)
	if err != nil {
		return fmt.Errorf("emitting reading: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
