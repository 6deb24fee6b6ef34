package api

import (
	"context"
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
)

// StatusResponse is the body of GET /api/v1/status.
type StatusResponse struct {
	State         string  `json:"state"`
	Sink          string  `json:"sink"`
	RunID         string  `json:"run_id"`
	Count         uint64  `json:"count"`
	Failures      uint64  `json:"failures"`
	LastSuccess   *string `json:"last_success"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	Version       string  `json:"version"`
}

// healthCheckTimeout bounds all dependency checks of one health request.
const healthCheckTimeout = 5 * time.Second

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status  string            `json:"status"`
	State   string            `json:"state"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// handleHealth reports liveness and the health of each dependency.
//
// Only a run that failed fatally returns 503. A failing dependency while the
// emitter keeps retrying reports "degraded" with 200 so a restart is not
// triggered by a transient outage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.emitter.State()
	resp := HealthResponse{
		Status:  "ok",
		State:   state.String(),
		Version: s.version,
	}

	if len(s.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp.Checks = make(map[string]string, len(s.checks))
		for name, c := range s.checks {
			if err := c.HealthCheck(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				continue
			}
			resp.Checks[name] = "ok"
		}
	}

	if state == emitter.StateFatalFailed {
		resp.Status = "failed"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStatus returns the emission counters.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{
		State:         s.emitter.State().String(),
		Sink:          s.sink,
		RunID:         s.runID,
		Count:         s.emitter.Count(),
		Failures:      s.emitter.Failures(),
		UptimeSeconds: int64(s.now().Sub(s.startTime).Seconds()),
		Version:       s.version,
	}
	if last := s.emitter.LastSuccess(); !last.IsZero() {
		ts := last.UTC().Format(time.RFC3339Nano)
		resp.LastSuccess = &ts
	}
	writeJSON(w, http.StatusOK, resp)
}
