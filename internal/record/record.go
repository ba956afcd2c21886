// Package record stores records as an append-only event log in
// JetStream and reduces the log into an in-memory set. All operations
// (creation, field updates, notes, descriptions) append events; state
// is only ever derived by replay.
package record

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mark3labs/pathway/internal/logger"
	"github.com/mark3labs/pathway/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

// Event is one entry of the record event log.
type Event struct {
	ID        string          `json:"id"`        // Unique event ID
	Timestamp time.Time       `json:"timestamp"` // When the event occurred
	Record    string          `json:"record"`    // Record ID the event belongs to
	Type      string          `json:"type"`      // Event type: record, field, note, description
	Action    string          `json:"action"`    // Action: created, deleted, updated, added
	Meta      json.RawMessage `json:"meta"`      // Action-specific metadata
	Data      string          `json:"data"`      // Primary content
}

// Store manages record state through JetStream event sourcing.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store over the given JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
	}
}

// PublishEvent appends an event to the log under the subject
// records.{record}.events.{type}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event: %v", err)
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Record, event.Type)

	logger.Debug("Publishing event: record=%s type=%s action=%s", event.Record, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Debug("Event published successfully: seq=%d", ack.Sequence)
	return ack, nil
}

// Record is the reduced state of one record.
type Record struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Object      string            `json:"object"`
	RecordType  string            `json:"record_type,omitempty"`
	Fields      map[string]string `json:"fields"`
	Description string            `json:"description,omitempty"`
	Notes       []*Note           `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Note is a free-form annotation on a record.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Set is the reduced state of the whole event log: every live record
// plus the event history the reduction consumed, oldest first.
type Set struct {
	Records map[string]*Record `json:"records"` // Record ID -> Record
	Events  []Event            `json:"events"`
}

// NewSet returns an empty set ready for Apply.
func NewSet() *Set {
	return &Set{Records: make(map[string]*Record)}
}

// Apply reduces one event into the set. Events of unknown types or for
// unknown records are ignored.
func (st *Set) Apply(event Event) {
	st.Events = append(st.Events, event)

	switch event.Type {
	case nats.EventTypeRecord:
		st.applyRecordEvent(event)
	case nats.EventTypeField:
		st.applyFieldEvent(event)
	case nats.EventTypeNote:
		st.applyNoteEvent(event)
	case nats.EventTypeDescription:
		st.applyDescriptionEvent(event)
	}
}

// applyRecordEvent handles record lifecycle events.
func (st *Set) applyRecordEvent(event Event) {
	switch event.Action {
	case "created":
		var meta struct {
			Object      string `json:"object"`
			RecordType  string `json:"record_type"`
			Description string `json:"description"`
		}
		json.Unmarshal(event.Meta, &meta)

		// The first creation wins; a duplicate id is a publisher bug.
		if _, exists := st.Records[event.Record]; exists {
			return
		}
		st.Records[event.Record] = &Record{
			ID:          event.Record,
			Name:        event.Data,
			Object:      meta.Object,
			RecordType:  meta.RecordType,
			Fields:      make(map[string]string),
			Description: meta.Description,
			CreatedAt:   event.Timestamp,
			UpdatedAt:   event.Timestamp,
		}

	case "deleted":
		delete(st.Records, event.Record)
	}
}

// applyFieldEvent handles field value updates.
func (st *Set) applyFieldEvent(event Event) {
	if event.Action != "updated" {
		return
	}
	var meta struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	json.Unmarshal(event.Meta, &meta)

	if rec, exists := st.Records[event.Record]; exists && meta.Field != "" {
		rec.Fields[meta.Field] = meta.Value
		rec.UpdatedAt = event.Timestamp
	}
}

// applyNoteEvent handles note additions.
func (st *Set) applyNoteEvent(event Event) {
	if event.Action != "added" {
		return
	}
	if rec, exists := st.Records[event.Record]; exists {
		rec.Notes = append(rec.Notes, &Note{
			ID:        event.ID,
			Content:   event.Data,
			CreatedAt: event.Timestamp,
		})
		rec.UpdatedAt = event.Timestamp
	}
}

// applyDescriptionEvent handles description rewrites.
func (st *Set) applyDescriptionEvent(event Event) {
	if event.Action != "updated" {
		return
	}
	if rec, exists := st.Records[event.Record]; exists {
		rec.Description = event.Data
		rec.UpdatedAt = event.Timestamp
	}
}

// List returns the records ordered by creation time, oldest first,
// with the id as tiebreaker.
func (st *Set) List() []*Record {
	records := make([]*Record, 0, len(st.Records))
	for _, rec := range st.Records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records
}

// LoadSet reconstructs the full record set by reading and reducing
// every event in the stream.
func (s *Store) LoadSet(ctx context.Context) (*Set, error) {
	logger.Debug("Loading record set")

	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: nats.SubjectForAll(),
		DeliverPolicy: jetstream.DeliverAllPolicy, // Start from beginning
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		logger.Error("Failed to create consumer: %v", err)
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	set := NewSet()

	// Fetch events in batches and reduce into the set.
	const batchSize = 1000
	malformedCount := 0
	totalEvents := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			// No more messages or error - we've read everything
			logger.Debug("Finished reading events (batch fetch complete)")
			break
		}

		msgCount := 0
		for msg := range msgs.Messages() {
			msgCount++
			totalEvents++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				// Log malformed event and skip (but acknowledge to prevent redelivery)
				malformedCount++
				meta, _ := msg.Metadata()
				logger.Warn("Skipping malformed event (seq=%d): %v", meta.Sequence.Stream, err)
				fmt.Fprintf(os.Stderr, "Warning: Skipping malformed event (seq=%d): %v\n", meta.Sequence.Stream, err)
				msg.Ack()
				continue
			}

			// Fall back to the stream sequence as ID
			if event.ID == "" {
				meta, _ := msg.Metadata()
				event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
			}

			set.Apply(event)
			msg.Ack()
		}

		logger.Debug("Processed batch: %d events", msgCount)

		if msgCount < batchSize {
			break
		}
	}

	if malformedCount > 0 {
		logger.Warn("Skipped %d malformed events while loading record set", malformedCount)
		fmt.Fprintf(os.Stderr, "Warning: Skipped %d malformed events while loading record set\n", malformedCount)
	}

	logger.Debug("Record set loaded: %d total events, %d records", totalEvents, len(set.Records))

	return set, nil
}
