package tui

import (
	"context"
	"sync"

	"github.com/mark3labs/pathway/internal/logger"
	"github.com/mark3labs/pathway/internal/path"
	"github.com/mark3labs/pathway/internal/record"
)

// CommitStartedMsg signals that the path controller accepted a stage
// selection and the field update is being persisted.
type CommitStartedMsg struct{}

// CommitResultMsg carries the outcome of a persisted field update back to
// the program loop.
type CommitResultMsg struct {
	RecordID string
	Field    string
	Value    string
	Err      error
}

// loopSink persists path commits off the program goroutine and reports
// outcomes as messages. The controller's completion callback mutates
// controller state, so it must run on the loop goroutine: SaveField
// parks it and deliver invokes it once the result message arrives.
type loopSink struct {
	store   *record.Store
	results chan CommitResultMsg

	mu   sync.Mutex
	done func(error)
}

// newLoopSink wraps a store for interactive use.
func newLoopSink(store *record.Store) *loopSink {
	return &loopSink{
		store:   store,
		results: make(chan CommitResultMsg, 1),
	}
}

// SaveField implements path.PersistenceSink. The publish happens on its
// own goroutine; the result lands on the results channel where the App's
// waitForCommits command picks it up.
func (s *loopSink) SaveField(recordID, field, value string, done func(error)) {
	s.mu.Lock()
	s.done = done
	s.mu.Unlock()

	go func() {
		err := s.store.FieldUpdate(context.Background(), record.FieldUpdateParams{
			RecordID: recordID,
			Field:    field,
			Value:    value,
		})
		if err != nil {
			logger.Error("Field commit failed: record=%s field=%s: %v", recordID, field, err)
		}
		s.results <- CommitResultMsg{RecordID: recordID, Field: field, Value: value, Err: err}
	}()
}

// deliver runs the parked completion callback on the caller's goroutine.
func (s *loopSink) deliver(err error) {
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()

	if done != nil {
		done(err)
	}
}

var _ path.PersistenceSink = (*loopSink)(nil)
