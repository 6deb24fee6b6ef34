package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nerrad567/gray-logic-sensorsim/internal/journal"
	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
)

// handleListReadings returns a page of journalled readings, newest first.
//
// Query parameters: limit, offset, since (RFC 3339), run_id, sensor_id.
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := journal.Filter{
		SensorID: q.Get("sensor_id"),
		RunID:    q.Get("run_id"),
	}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeBadRequest(w, "limit must be a non-negative integer")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeBadRequest(w, "offset must be a non-negative integer")
		return
	}
	if v := q.Get("since"); v != "" {
		filter.Since, err = time.Parse(time.RFC3339Nano, v)
		if err != nil {
			writeBadRequest(w, "since must be an RFC 3339 timestamp")
			return
		}
	}

	result, err := s.journal.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("listing readings failed", "error", err)
		writeInternalError(w, "failed to list readings")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleLatestReading returns the most recent reading of the sensor.
func (s *Server) handleLatestReading(w http.ResponseWriter, r *http.Request) {
	sensorID := r.URL.Query().Get("sensor_id")
	if sensorID == "" {
		sensorID = sensor.SensorID
	}

	entry, err := s.journal.Latest(r.Context(), sensorID)
	if errors.Is(err, journal.ErrNotFound) {
		writeNotFound(w, "no readings recorded")
		return
	}
	if err != nil {
		s.logger.Error("loading latest reading failed", "error", err)
		writeInternalError(w, "failed to load latest reading")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// intParam parses an optional non-negative integer query value.
func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
