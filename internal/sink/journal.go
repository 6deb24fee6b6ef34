package sink

import (
	"context"
	"sync/atomic"

	"github.com/nerrad567/gray-logic-sensorsim/internal/emitter"
	"github.com/nerrad567/gray-logic-sensorsim/internal/journal"
	"github.com/nerrad567/gray-logic-sensorsim/internal/sensor"
)

// recorder is the subset of journal.Repository the mirror needs.
type recorder interface {
	Record(ctx context.Context, runID string, r sensor.Reading) error
}

// Journal mirrors readings into the local SQLite journal.
//
// The database is owned by the caller; closing a session does not close it.
type Journal struct {
	repo  recorder
	runID string
}

// NewJournal returns a mirror that records every reading under runID.
func NewJournal(repo journal.Repository, runID string) *Journal {
	return &Journal{repo: repo, runID: runID}
}

// Name identifies the mirror in logs.
func (j *Journal) Name() string { return "journal" }

// Connect returns a session bound to the run.
func (j *Journal) Connect(_ context.Context) (emitter.Session, error) {
	return &journalSession{repo: j.repo, runID: j.runID}, nil
}

type journalSession struct {
	repo   recorder
	runID  string
	closed atomic.Bool
}

func (s *journalSession) Write(ctx context.Context, r sensor.Reading) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return s.repo.Record(ctx, s.runID, r)
}

func (s *journalSession) Close() error {
	s.closed.Store(true)
	return nil
}
