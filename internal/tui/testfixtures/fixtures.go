package testfixtures

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/pathway/internal/nats"
	"github.com/mark3labs/pathway/internal/record"
	"github.com/mark3labs/pathway/internal/schema"
)

// Fixed test values for stable assertions
const (
	FixedObject   = "deal"
	FixedRecordID = "acme-renewal"
)

var FixedTime = time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)

// Catalog returns the built-in demo catalog that fixture records are
// shaped for: a deal object with a six-stage pipeline.
func Catalog() *schema.Catalog {
	return schema.Default()
}

// EmptySet returns a set with no records.
func EmptySet() *record.Set {
	return record.NewSet()
}

// ReduceEvents builds a set by reducing the given events in order.
func ReduceEvents(events ...record.Event) *record.Set {
	set := record.NewSet()
	for _, event := range events {
		set.Apply(event)
	}
	return set
}

// SetWithRecords returns a set with two open deals: acme-renewal in
// negotiation and globex-expansion in qualification.
func SetWithRecords() *record.Set {
	return ReduceEvents(
		CreatedEvent(1, "acme-renewal", "Acme Renewal", "renewal", FixedTime),
		FieldEvent(2, "acme-renewal", "stage", "negotiation", FixedTime.Add(5*time.Minute)),
		CreatedEvent(3, "globex-expansion", "Globex Expansion", "standard", FixedTime.Add(10*time.Minute)),
		FieldEvent(4, "globex-expansion", "stage", "qualification", FixedTime.Add(15*time.Minute)),
	)
}

// ClosedWonSet returns a set whose only record has reached closed_won.
func ClosedWonSet() *record.Set {
	return ReduceEvents(
		CreatedEvent(1, "initech-renewal", "Initech Renewal", "renewal", FixedTime),
		FieldEvent(2, "initech-renewal", "stage", "closed_won", FixedTime.Add(20*time.Minute)),
	)
}

// SetWithEvents returns a set with a richer history for the activity
// feed: creation, stage moves, a note and a description rewrite.
func SetWithEvents() *record.Set {
	return ReduceEvents(
		CreatedEvent(1, "acme-renewal", "Acme Renewal", "renewal", FixedTime),
		FieldEvent(2, "acme-renewal", "stage", "proposal", FixedTime.Add(5*time.Minute)),
		FieldEvent(3, "acme-renewal", "stage", "negotiation", FixedTime.Add(10*time.Minute)),
		NoteEvent(4, "acme-renewal", "Sent the revised quote", FixedTime.Add(15*time.Minute)),
		DescriptionEvent(5, "acme-renewal", "# Acme Renewal\n\nAnnual contract renewal.", FixedTime.Add(20*time.Minute)),
	)
}

// CreatedEvent returns a record creation event shaped the way the store
// publishes them.
func CreatedEvent(seq int, id, name, recordType string, at time.Time) record.Event {
	meta, _ := json.Marshal(map[string]string{
		"object":      FixedObject,
		"record_type": recordType,
	})
	return record.Event{
		ID:        EventID(seq),
		Timestamp: at,
		Record:    id,
		Type:      nats.EventTypeRecord,
		Action:    "created",
		Meta:      meta,
		Data:      name,
	}
}

// FieldEvent returns a field update event.
func FieldEvent(seq int, id, field, value string, at time.Time) record.Event {
	meta, _ := json.Marshal(map[string]string{
		"field": field,
		"value": value,
	})
	return record.Event{
		ID:        EventID(seq),
		Timestamp: at,
		Record:    id,
		Type:      nats.EventTypeField,
		Action:    "updated",
		Meta:      meta,
	}
}

// NoteEvent returns a note event.
func NoteEvent(seq int, id, content string, at time.Time) record.Event {
	return record.Event{
		ID:        EventID(seq),
		Timestamp: at,
		Record:    id,
		Type:      nats.EventTypeNote,
		Action:    "added",
		Data:      content,
	}
}

// DescriptionEvent returns a description rewrite event.
func DescriptionEvent(seq int, id, content string, at time.Time) record.Event {
	return record.Event{
		ID:        EventID(seq),
		Timestamp: at,
		Record:    id,
		Type:      nats.EventTypeDescription,
		Action:    "updated",
		Data:      content,
	}
}

// EventID returns a stable fixture event id.
func EventID(seq int) string {
	return fmt.Sprintf("evt-%03d", seq)
}
