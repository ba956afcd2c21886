package nats

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
)

func TestSubjectHelpers(t *testing.T) {
	if got := SubjectForRecord("acme-renewal"); got != "records.acme-renewal.events.>" {
		t.Errorf("SubjectForRecord = %q", got)
	}
	if got := SubjectForEvent("acme-renewal", EventTypeField); got != "records.acme-renewal.events.field" {
		t.Errorf("SubjectForEvent = %q", got)
	}
	if got := SubjectForAll(); got != "records.>" {
		t.Errorf("SubjectForAll = %q", got)
	}
}

// setupTestStream starts an embedded server and creates the record stream.
func setupTestStream(t *testing.T) (jetstream.JetStream, jetstream.Stream, func()) {
	t.Helper()

	ns, err := StartEmbeddedNATS(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to start NATS: %v", err)
	}

	nc, err := ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		t.Fatalf("Failed to connect: %v", err)
	}

	js, err := CreateJetStream(nc)
	if err != nil {
		nc.Close()
		ns.Shutdown()
		t.Fatalf("Failed to create JetStream: %v", err)
	}

	stream, err := SetupStream(context.Background(), js)
	if err != nil {
		nc.Close()
		ns.Shutdown()
		t.Fatalf("Failed to set up stream: %v", err)
	}

	cleanup := func() {
		nc.Close()
		ns.Shutdown()
	}
	return js, stream, cleanup
}

func TestCreateConsumer_ReplaysFromBeginning(t *testing.T) {
	ctx := context.Background()

	js, stream, cleanup := setupTestStream(t)
	defer cleanup()

	// Publish before the consumer exists; DeliverAll must replay both
	if _, err := js.Publish(ctx, SubjectForEvent("acme-renewal", EventTypeRecord), []byte(`{}`)); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}
	if _, err := js.Publish(ctx, SubjectForEvent("globex-expansion", EventTypeField), []byte(`{}`)); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	consumer, err := CreateConsumer(ctx, stream, "history")
	if err != nil {
		t.Fatalf("Failed to create consumer: %v", err)
	}

	msgs, err := consumer.FetchNoWait(10)
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	count := 0
	for msg := range msgs.Messages() {
		count++
		msg.Ack()
	}
	if count != 2 {
		t.Errorf("Fetched %d messages, want 2", count)
	}
}

func TestSubjectForRecord_FiltersOneRecord(t *testing.T) {
	ctx := context.Background()

	js, stream, cleanup := setupTestStream(t)
	defer cleanup()

	if _, err := js.Publish(ctx, SubjectForEvent("acme-renewal", EventTypeField), []byte(`{}`)); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}
	if _, err := js.Publish(ctx, SubjectForEvent("globex-expansion", EventTypeField), []byte(`{}`)); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: SubjectForRecord("acme-renewal"),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		t.Fatalf("Failed to create consumer: %v", err)
	}

	msgs, err := consumer.FetchNoWait(10)
	if err != nil {
		t.Fatalf("Failed to fetch: %v", err)
	}
	count := 0
	for msg := range msgs.Messages() {
		count++
		if msg.Subject() != SubjectForEvent("acme-renewal", EventTypeField) {
			t.Errorf("Unexpected subject: %s", msg.Subject())
		}
		msg.Ack()
	}
	if count != 1 {
		t.Errorf("Fetched %d messages, want 1", count)
	}
}
