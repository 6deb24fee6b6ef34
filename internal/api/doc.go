// Package api implements the read-only HTTP status API of the sensor simulator.
//
// This package provides:
//   - Liveness and emission status endpoints
//   - Runtime and journal metrics
//   - Paginated access to the local readings journal (when enabled)
//   - Middleware stack (request ID, logging, recovery)
//
// # Endpoints
//
//	GET /api/v1/health            liveness; 503 once the run has failed fatally
//	GET /api/v1/status            state, counters, last success, uptime, run id
//	GET /api/v1/metrics           Go runtime statistics plus emission counters
//	GET /api/v1/readings          journal page (limit, offset, since, run_id)
//	GET /api/v1/readings/latest   most recent journalled reading
//	GET /metrics                  Prometheus exposition
//
// The readings routes are only mounted when a journal is supplied, and
// /metrics only when a Prometheus handler is.
//
// The server never affects emission: it reads counters from the emitter and
// entries from the journal, nothing else.
package api
