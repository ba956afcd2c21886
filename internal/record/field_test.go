package record

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/pathway/internal/nats"
	natsclient "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

func TestFieldUpdate(t *testing.T) {
	// Start embedded NATS server
	srv, err := nats.StartEmbeddedNATS(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to start NATS: %v", err)
	}
	defer srv.Shutdown()

	// Connect to NATS in-process
	nc, err := natsclient.Connect("", natsclient.InProcessServer(srv))
	if err != nil {
		t.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	// Create JetStream context
	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("Failed to create JetStream: %v", err)
	}

	// Setup stream
	ctx := context.Background()
	stream, err := nats.SetupStream(ctx, js)
	if err != nil {
		t.Fatalf("Failed to setup stream: %v", err)
	}

	store := NewStore(js, stream)

	if _, err := store.RecordAdd(ctx, RecordAddParams{Name: "Acme Renewal", Object: "deal"}); err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	if err := store.FieldUpdate(ctx, FieldUpdateParams{RecordID: "acme-renewal", Field: "stage", Value: "proposal"}); err != nil {
		t.Fatalf("Failed to update field: %v", err)
	}
	if err := store.FieldUpdate(ctx, FieldUpdateParams{RecordID: "acme-renewal", Field: "stage", Value: "negotiation"}); err != nil {
		t.Fatalf("Failed to update field again: %v", err)
	}

	set, err := store.LoadSet(ctx)
	if err != nil {
		t.Fatalf("Failed to load record set: %v", err)
	}
	rec := set.Records["acme-renewal"]
	if rec.Fields["stage"] != "negotiation" {
		t.Errorf("stage = %q, want negotiation", rec.Fields["stage"])
	}

	// The second update's metadata records the transition
	last := set.Events[len(set.Events)-1]
	var meta struct {
		Field    string `json:"field"`
		Value    string `json:"value"`
		Previous string `json:"previous"`
	}
	if err := json.Unmarshal(last.Meta, &meta); err != nil {
		t.Fatalf("Failed to parse event meta: %v", err)
	}
	if meta.Previous != "proposal" || meta.Value != "negotiation" {
		t.Errorf("Transition = %q -> %q, want proposal -> negotiation", meta.Previous, meta.Value)
	}
}

func TestFieldUpdate_UnknownRecord(t *testing.T) {
	// Start embedded NATS server
	srv, err := nats.StartEmbeddedNATS(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to start NATS: %v", err)
	}
	defer srv.Shutdown()

	// Connect to NATS in-process
	nc, err := natsclient.Connect("", natsclient.InProcessServer(srv))
	if err != nil {
		t.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	// Create JetStream context
	js, err := jetstream.New(nc)
	if err != nil {
		t.Fatalf("Failed to create JetStream: %v", err)
	}

	// Setup stream
	ctx := context.Background()
	stream, err := nats.SetupStream(ctx, js)
	if err != nil {
		t.Fatalf("Failed to setup stream: %v", err)
	}

	store := NewStore(js, stream)

	err = store.FieldUpdate(ctx, FieldUpdateParams{RecordID: "ghost", Field: "stage", Value: "proposal"})
	if err == nil {
		t.Fatal("Expected error updating a missing record")
	}
}
