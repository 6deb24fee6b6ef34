package api

import (
	"net/http"
	"runtime"
	"time"
)

// SystemMetrics represents the complete system metrics response.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	Emission      EmissionMetrics `json:"emission"`
	Journal       *JournalMetrics `json:"journal,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// EmissionMetrics contains emitter counters.
type EmissionMetrics struct {
	State    string `json:"state"`
	Count    uint64 `json:"count"`
	Failures uint64 `json:"failures"`
}

// JournalMetrics contains local journal statistics.
type JournalMetrics struct {
	Entries int `json:"entries"`
}

// handleMetrics returns runtime and emission metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	now := s.now()
	metrics := SystemMetrics{
		Timestamp:     now.UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(now.Sub(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Emission: EmissionMetrics{
			State:    s.emitter.State().String(),
			Count:    s.emitter.Count(),
			Failures: s.emitter.Failures(),
		},
	}

	if s.journal != nil {
		n, err := s.journal.Count(r.Context())
		if err != nil {
			s.logger.Warn("counting journal entries failed", "error", err)
		} else {
			metrics.Journal = &JournalMetrics{Entries: n}
		}
	}

	writeJSON(w, http.StatusOK, metrics)
}
