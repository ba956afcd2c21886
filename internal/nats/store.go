package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Subject pattern constants and helpers
const (
	streamName = "PATHWAY"

	// Event types
	EventTypeRecord      = "record"
	EventTypeField       = "field"
	EventTypeNote        = "note"
	EventTypeDescription = "description"
)

// SubjectForRecord returns the wildcard subject pattern for all events on a record.
// Example: "records.acme-renewal.events.>"
func SubjectForRecord(record string) string {
	return fmt.Sprintf("records.%s.events.>", record)
}

// SubjectForEvent returns the specific subject for an event type on a record.
// Example: "records.acme-renewal.events.field"
func SubjectForEvent(record, eventType string) string {
	return fmt.Sprintf("records.%s.events.%s", record, eventType)
}

// SubjectForAll returns the wildcard subject matching every record event.
func SubjectForAll() string {
	return "records.>"
}

// SetupStream creates or updates the JetStream stream for record events.
// The stream captures all events for all records with 30-day retention.
// Subject pattern: records.> matches all records and event types.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"records.>"}, // Match all record events
		Storage:  jetstream.FileStorage,
		MaxAge:   30 * 24 * time.Hour, // 30 day retention
	})
}

// CreateConsumer creates a durable consumer for reading event history.
// The consumer starts from the beginning and requires explicit acknowledgment.
func CreateConsumer(ctx context.Context, stream jetstream.Stream, name string) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       name,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy, // Start from beginning
	})
}
