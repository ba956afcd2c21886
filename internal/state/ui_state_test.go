package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultUIState(t *testing.T) {
	state := DefaultUIState()

	if state == nil {
		t.Fatal("DefaultUIState returned nil")
	}

	if state.ActiveView != "path" {
		t.Errorf("Expected default active view to be 'path', got %q", state.ActiveView)
	}

	if state.LastRecords == nil {
		t.Error("Expected last records map to be initialized")
	}
}

func TestLoadNonExistent(t *testing.T) {
	// Load from non-existent directory
	state := Load("/tmp/nonexistent-test-dir-xyz123")

	if state == nil {
		t.Fatal("Load returned nil for non-existent file")
	}

	// Should return defaults
	if state.ActiveView != "path" {
		t.Errorf("Expected default active view 'path', got %q", state.ActiveView)
	}
}

func TestSaveAndLoad(t *testing.T) {
	// Create temporary directory
	tmpDir := t.TempDir()

	// Create and save state
	state := &UIState{
		ActiveView: "records",
		LastRecords: map[string]string{
			"deal": "acme-renewal",
		},
	}

	err := Save(tmpDir, state)
	if err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	// Verify file exists
	path := filepath.Join(tmpDir, "ui-state.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("State file was not created")
	}

	// Load state back
	loaded := Load(tmpDir)

	if loaded == nil {
		t.Fatal("Load returned nil")
	}

	if loaded.ActiveView != "records" {
		t.Errorf("Loaded active view %q does not match saved state", loaded.ActiveView)
	}

	if loaded.LastRecord("deal") != "acme-renewal" {
		t.Errorf("Loaded last record %q does not match saved state", loaded.LastRecord("deal"))
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	// Create temporary directory
	tmpDir := t.TempDir()

	// Use subdirectory that doesn't exist
	dataDir := filepath.Join(tmpDir, "subdir", "data")

	state := DefaultUIState()
	err := Save(dataDir, state)
	if err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	// Verify directory was created
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Error("Data directory was not created")
	}

	// Verify file exists
	path := filepath.Join(dataDir, "ui-state.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("State file was not created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	// Create temporary directory
	tmpDir := t.TempDir()

	// Write invalid JSON
	path := filepath.Join(tmpDir, "ui-state.json")
	err := os.WriteFile(path, []byte("invalid json {{{"), 0644)
	if err != nil {
		t.Fatalf("Failed to write invalid JSON: %v", err)
	}

	// Load should return defaults without crashing
	state := Load(tmpDir)

	if state == nil {
		t.Fatal("Load returned nil for invalid JSON")
	}

	// Should return defaults
	if state.ActiveView != "path" {
		t.Error("Expected default active view when JSON is invalid")
	}
}

func TestSetLastRecord(t *testing.T) {
	state := &UIState{ActiveView: "path"}

	// Map is nil until the first write
	state.SetLastRecord("deal", "acme-renewal")
	state.SetLastRecord("ticket", "login-bug")
	state.SetLastRecord("deal", "globex-expansion")

	if got := state.LastRecord("deal"); got != "globex-expansion" {
		t.Errorf("LastRecord(deal) = %q, want globex-expansion", got)
	}

	if got := state.LastRecord("ticket"); got != "login-bug" {
		t.Errorf("LastRecord(ticket) = %q, want login-bug", got)
	}

	if got := state.LastRecord("unknown"); got != "" {
		t.Errorf("LastRecord(unknown) = %q, want empty", got)
	}
}
