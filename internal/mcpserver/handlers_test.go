package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/pathway/internal/nats"
	"github.com/mark3labs/pathway/internal/record"
	"github.com/mark3labs/pathway/internal/schema"
)

// setupTestServer creates a server with a test store and the default catalog
func setupTestServer(t *testing.T) (*Server, func()) {
	ctx := context.Background()

	// Create embedded NATS
	ns, err := nats.StartEmbeddedNATS(t.TempDir())
	if err != nil {
		t.Fatalf("failed to start NATS: %v", err)
	}

	// Connect to NATS
	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		t.Fatalf("failed to connect to NATS: %v", err)
	}

	// Create JetStream
	js, err := nats.CreateJetStream(nc)
	if err != nil {
		t.Fatalf("failed to create JetStream: %v", err)
	}

	// Setup stream
	stream, err := nats.SetupStream(ctx, js)
	if err != nil {
		t.Fatalf("failed to setup stream: %v", err)
	}

	// Create store
	store := record.NewStore(js, stream)

	// Create server
	srv := New(store, schema.Default(), "deal")

	cleanup := func() {
		nc.Close()
		ns.Shutdown()
	}

	return srv, cleanup
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

// createRecord is a helper that creates a record through the handler.
func createRecord(t *testing.T, srv *Server, name string) {
	t.Helper()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_create",
			Arguments: map[string]any{
				"name": name,
			},
		},
	}

	result, err := srv.handleRecordCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("handleRecordCreate returned error: %v", err)
	}
	if text := extractText(result); strings.Contains(text, "error:") {
		t.Fatalf("record create failed: %s", text)
	}
}

func TestHandleRecordCreate_Success(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_create",
			Arguments: map[string]any{
				"name":        "Acme Renewal",
				"record_type": "renewal",
				"description": "Renewal for Acme Corp.",
			},
		},
	}

	result, err := srv.handleRecordCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("handleRecordCreate returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "Created record acme-renewal") {
		t.Errorf("unexpected result: %s", text)
	}
}

func TestHandleRecordCreate_MissingName(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "record_create",
			Arguments: map[string]any{},
		},
	}

	result, err := srv.handleRecordCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("handleRecordCreate returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "error: missing or empty 'name' parameter") {
		t.Errorf("unexpected error message: %s", text)
	}
}

func TestHandleRecordCreate_UnknownObject(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_create",
			Arguments: map[string]any{
				"name":   "Ghost",
				"object": "spaceship",
			},
		},
	}

	result, err := srv.handleRecordCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("handleRecordCreate returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "error:") || !strings.Contains(text, "spaceship") {
		t.Errorf("expected unknown object error, got: %s", text)
	}
}

func TestHandleRecordCreate_UnknownRecordType(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_create",
			Arguments: map[string]any{
				"name":        "Acme Renewal",
				"record_type": "imaginary",
			},
		},
	}

	result, err := srv.handleRecordCreate(context.Background(), req)
	if err != nil {
		t.Fatalf("handleRecordCreate returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "error:") || !strings.Contains(text, "imaginary") {
		t.Errorf("expected unknown record type error, got: %s", text)
	}
}

func TestHandleRecordList_Empty(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_list",
		},
	}

	result, err := srv.handleRecordList(context.Background(), req)
	if err != nil {
		t.Fatalf("handleRecordList returned error: %v", err)
	}

	text := extractText(result)
	if text != "No records" {
		t.Errorf("expected 'No records', got: %s", text)
	}
}

func TestHandleRecordList_WithRecords(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()

	createRecord(t, srv, "Acme Renewal")
	createRecord(t, srv, "Globex Expansion")

	// Set a stage so the summary carries it
	setReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "stage_set",
			Arguments: map[string]any{
				"id":    "acme-renewal",
				"value": "proposal",
			},
		},
	}
	if _, err := srv.handleStageSet(ctx, setReq); err != nil {
		t.Fatalf("failed to set stage: %v", err)
	}

	listReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_list",
		},
	}

	result, err := srv.handleRecordList(ctx, listReq)
	if err != nil {
		t.Fatalf("handleRecordList returned error: %v", err)
	}

	text := extractText(result)

	// Should return a JSON array
	var summaries []map[string]any
	if err := json.Unmarshal([]byte(text), &summaries); err != nil {
		t.Fatalf("expected JSON output, got: %s", text)
	}

	if len(summaries) != 2 {
		t.Fatalf("expected 2 records, got %d", len(summaries))
	}

	if summaries[0]["id"] != "acme-renewal" {
		t.Errorf("expected acme-renewal first, got: %v", summaries[0]["id"])
	}
	if summaries[0]["stage"] != "proposal" {
		t.Errorf("expected stage proposal, got: %v", summaries[0]["stage"])
	}
	if summaries[1]["id"] != "globex-expansion" {
		t.Errorf("expected globex-expansion second, got: %v", summaries[1]["id"])
	}
}

func TestHandleRecordList_FiltersByObject(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()

	createRecord(t, srv, "Acme Renewal")

	// Seed a record under another object directly through the store;
	// record_create would reject objects outside the catalog
	if _, err := srv.store.RecordAdd(ctx, record.RecordAddParams{
		Name:   "Login Bug",
		Object: "ticket",
	}); err != nil {
		t.Fatalf("failed to seed ticket record: %v", err)
	}

	// Default listing is scoped to the configured object
	listReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_list",
		},
	}
	result, err := srv.handleRecordList(ctx, listReq)
	if err != nil {
		t.Fatalf("handleRecordList returned error: %v", err)
	}

	var summaries []map[string]any
	if err := json.Unmarshal([]byte(extractText(result)), &summaries); err != nil {
		t.Fatalf("expected JSON output, got: %s", extractText(result))
	}
	if len(summaries) != 1 || summaries[0]["object"] != "deal" {
		t.Errorf("expected only the deal record, got: %v", summaries)
	}

	// Explicit filter picks the other object
	listReq = mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_list",
			Arguments: map[string]any{
				"object": "ticket",
			},
		},
	}
	result, err = srv.handleRecordList(ctx, listReq)
	if err != nil {
		t.Fatalf("handleRecordList returned error: %v", err)
	}

	if err := json.Unmarshal([]byte(extractText(result)), &summaries); err != nil {
		t.Fatalf("expected JSON output, got: %s", extractText(result))
	}
	if len(summaries) != 1 || summaries[0]["id"] != "login-bug" {
		t.Errorf("expected only the ticket record, got: %v", summaries)
	}
}

func TestHandleRecordGet_Success(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()

	createRecord(t, srv, "Acme Renewal")

	noteReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "note_add",
			Arguments: map[string]any{
				"id":      "acme-renewal",
				"content": "Waiting on legal review.",
			},
		},
	}
	if _, err := srv.handleNoteAdd(ctx, noteReq); err != nil {
		t.Fatalf("failed to add note: %v", err)
	}

	getReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_get",
			Arguments: map[string]any{
				"id": "acme-renewal",
			},
		},
	}

	result, err := srv.handleRecordGet(ctx, getReq)
	if err != nil {
		t.Fatalf("handleRecordGet returned error: %v", err)
	}

	text := extractText(result)

	var rec map[string]any
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		t.Fatalf("expected JSON output, got: %s", text)
	}

	if rec["id"] != "acme-renewal" {
		t.Errorf("expected id acme-renewal, got: %v", rec["id"])
	}
	if rec["name"] != "Acme Renewal" {
		t.Errorf("expected name 'Acme Renewal', got: %v", rec["name"])
	}

	notes, ok := rec["notes"].([]any)
	if !ok || len(notes) != 1 {
		t.Fatalf("expected 1 note, got: %v", rec["notes"])
	}
}

func TestHandleRecordGet_NotFound(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_get",
			Arguments: map[string]any{
				"id": "ghost",
			},
		},
	}

	result, err := srv.handleRecordGet(context.Background(), req)
	if err != nil {
		t.Fatalf("handleRecordGet returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "error:") || !strings.Contains(text, "not found") {
		t.Errorf("expected not found error, got: %s", text)
	}
}

func TestHandleStageSet_Success(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()

	createRecord(t, srv, "Acme Renewal")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "stage_set",
			Arguments: map[string]any{
				"id":    "acme-renewal",
				"value": "negotiation",
			},
		},
	}

	result, err := srv.handleStageSet(ctx, req)
	if err != nil {
		t.Fatalf("handleStageSet returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "Updated stage=negotiation on record acme-renewal") {
		t.Errorf("unexpected result: %s", text)
	}

	// Verify the field landed in the store
	set, err := srv.store.LoadSet(ctx)
	if err != nil {
		t.Fatalf("failed to load set: %v", err)
	}
	rec, ok := set.Records["acme-renewal"]
	if !ok {
		t.Fatal("record not found after stage set")
	}
	if rec.Fields["stage"] != "negotiation" {
		t.Errorf("expected stage negotiation, got %q", rec.Fields["stage"])
	}
}

func TestHandleStageSet_InvalidValue(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()

	createRecord(t, srv, "Acme Renewal")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "stage_set",
			Arguments: map[string]any{
				"id":    "acme-renewal",
				"value": "warp_speed",
			},
		},
	}

	result, err := srv.handleStageSet(ctx, req)
	if err != nil {
		t.Fatalf("handleStageSet returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "error:") || !strings.Contains(text, "warp_speed") {
		t.Errorf("expected invalid value error, got: %s", text)
	}
	if !strings.Contains(text, "valid:") {
		t.Errorf("expected valid values in message, got: %s", text)
	}
}

func TestHandleStageSet_SubsetRestriction(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()

	// Renewal deals use a narrowed stage picklist without qualification
	createReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "record_create",
			Arguments: map[string]any{
				"name":        "Acme Renewal",
				"record_type": "renewal",
			},
		},
	}
	if _, err := srv.handleRecordCreate(ctx, createReq); err != nil {
		t.Fatalf("failed to create record: %v", err)
	}

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "stage_set",
			Arguments: map[string]any{
				"id":    "acme-renewal",
				"value": "qualification",
			},
		},
	}

	result, err := srv.handleStageSet(ctx, req)
	if err != nil {
		t.Fatalf("handleStageSet returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "error:") {
		t.Errorf("expected subset restriction error, got: %s", text)
	}
}

func TestHandleStageSet_UnknownRecord(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "stage_set",
			Arguments: map[string]any{
				"id":    "ghost",
				"value": "proposal",
			},
		},
	}

	result, err := srv.handleStageSet(context.Background(), req)
	if err != nil {
		t.Fatalf("handleStageSet returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "error:") || !strings.Contains(text, "not found") {
		t.Errorf("expected not found error, got: %s", text)
	}
}

func TestHandleNoteAdd_Success(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()

	createRecord(t, srv, "Acme Renewal")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "note_add",
			Arguments: map[string]any{
				"id":      "acme-renewal",
				"content": "Budget approved by the CFO.",
			},
		},
	}

	result, err := srv.handleNoteAdd(ctx, req)
	if err != nil {
		t.Fatalf("handleNoteAdd returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "Added note") || !strings.Contains(text, "acme-renewal") {
		t.Errorf("unexpected result: %s", text)
	}
}

func TestHandleNoteAdd_MissingContent(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "note_add",
			Arguments: map[string]any{
				"id": "acme-renewal",
			},
		},
	}

	result, err := srv.handleNoteAdd(context.Background(), req)
	if err != nil {
		t.Fatalf("handleNoteAdd returned error: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "error: missing or empty 'content' parameter") {
		t.Errorf("unexpected error message: %s", text)
	}
}

func TestServerStartStop(t *testing.T) {
	srv, cleanup := setupTestServer(t)
	defer cleanup()

	ctx := context.Background()

	port, err := srv.Start(ctx, 0)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if port <= 0 || port > 65535 {
		t.Errorf("Invalid port number: %d", port)
	}

	// Double start should fail
	if _, err := srv.Start(ctx, 0); err == nil {
		t.Error("Second Start() should have returned an error")
	}

	if err := srv.Stop(); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}

	// Stop is idempotent
	if err := srv.Stop(); err != nil {
		t.Errorf("Second Stop() failed: %v", err)
	}
}
