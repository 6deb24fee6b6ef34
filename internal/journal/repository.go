package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
)

// timeLayout is fixed-width so stored timestamps sort and compare lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Page size limits for List.
const (
	defaultLimit = 50
	maxLimit     = 500
)

// Entry is one journalled reading.
type Entry struct {
	ID         int64          `json:"id"`
	RunID      string         `json:"run_id"`
	Reading    sensor.Reading `json:"reading"`
	RecordedAt time.Time      `json:"recorded_at"`
}

// Filter controls which entries List returns.
type Filter struct {
	SensorID string    // optional: only this sensor
	RunID    string    // optional: only this run
	Since    time.Time // optional: emitted at or after this instant
	Limit    int       // default 50, max 500
	Offset   int       // pagination offset
}

// ListResult contains a page of entries, newest first.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Repository defines the journal operations.
type Repository interface {
	Record(ctx context.Context, runID string, r sensor.Reading) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
	Latest(ctx context.Context, sensorID string) (*Entry, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository stores readings in the readings table.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteRepository creates a journal over an open, migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// Record inserts one reading.
func (r *SQLiteRepository) Record(ctx context.Context, runID string, rd sensor.Reading) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO readings (run_id, sensor_id, ubicacion, tipo, temperatura, humedad, presion, emitted_at, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rd.SensorID, rd.Location, rd.Category,
		rd.Temperature, rd.Humidity, rd.Pressure,
		formatTime(rd.Timestamp), formatTime(r.now()),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRecordFailed, err)
	}
	return nil
}

// Count returns the number of journalled readings.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return n, nil
}

// Latest returns the most recent reading for sensorID, or ErrNotFound.
func (r *SQLiteRepository) Latest(ctx context.Context, sensorID string) (*Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM readings WHERE sensor_id = ? ORDER BY id DESC LIMIT 1`,
		sensorID,
	)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns entries matching the filter, newest first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any

	if filter.SensorID != "" {
		conditions = append(conditions, "sensor_id = ?")
		args = append(args, filter.SensorID)
	}
	if filter.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, filter.RunID)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "emitted_at >= ?")
		args = append(args, formatTime(filter.Since))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// WHERE is assembled from fixed conditions with ? placeholders.
	var total int
	countQuery := "SELECT COUNT(*) FROM readings " + where //nolint:gosec // parameterised conditions only
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting readings: %w", err)
	}

	query := "SELECT " + entryColumns + " FROM readings " + where + " ORDER BY id DESC LIMIT ? OFFSET ?" //nolint:gosec // parameterised conditions only
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating readings: %w", err)
	}

	return &ListResult{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

const entryColumns = "id, run_id, sensor_id, ubicacion, tipo, temperatura, humedad, presion, emitted_at, recorded_at"

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var emittedAt, recordedAt string

	if err := s.Scan(&e.ID, &e.RunID,
		&e.Reading.SensorID, &e.Reading.Location, &e.Reading.Category,
		&e.Reading.Temperature, &e.Reading.Humidity, &e.Reading.Pressure,
		&emittedAt, &recordedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning reading: %w", err)
	}

	var err error
	if e.Reading.Timestamp, err = time.Parse(timeLayout, emittedAt); err != nil {
		return nil, fmt.Errorf("parsing emitted_at %q: %w", emittedAt, err)
	}
	if e.RecordedAt, err = time.Parse(timeLayout, recordedAt); err != nil {
		return nil, fmt.Errorf("parsing recorded_at %q: %w", recordedAt, err)
	}

	return &e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
