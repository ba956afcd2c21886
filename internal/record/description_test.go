package record

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/pathway/internal/nats"
	natsclient "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

func TestDescriptionUpdate(t *testing.T) {
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

	if _, err := store.RecordAdd(ctx, RecordAddParams{
		Name:        "Acme Renewal",
		Object:      "deal",
		Description: "First draft.",
	}); err != nil {
		t.Fatalf("Failed to add record: %v", err)
	}

	if err := store.DescriptionUpdate(ctx, DescriptionUpdateParams{
		RecordID:    "acme-renewal",
		Description: "Second draft, scoped to EMEA.",
	}); err != nil {
		t.Fatalf("Failed to update description: %v", err)
	}

	set, err := store.LoadSet(ctx)
	if err != nil {
		t.Fatalf("Failed to load record set: %v", err)
	}
	rec := set.Records["acme-renewal"]
	if rec.Description != "Second draft, scoped to EMEA." {
		t.Errorf("Description = %q", rec.Description)
	}

	// The event keeps the previous text for history diffs
	last := set.Events[len(set.Events)-1]
	var meta struct {
		Previous string `json:"previous"`
	}
	if err := json.Unmarshal(last.Meta, &meta); err != nil {
		t.Fatalf("Failed to parse event meta: %v", err)
	}
	if meta.Previous != "First draft." {
		t.Errorf("Previous = %q, want First draft.", meta.Previous)
	}

	if err := store.DescriptionUpdate(ctx, DescriptionUpdateParams{RecordID: "ghost"}); err == nil {
		t.Error("Expected error updating a missing record")
	}
}
