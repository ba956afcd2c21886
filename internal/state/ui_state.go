package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/pathway/internal/logger"
)

// UIState holds persistent UI preferences that carry across runs.
type UIState struct {
	ActiveView  string            `json:"active_view"`            // path, records, activity
	LastRecords map[string]string `json:"last_records,omitempty"` // object -> last opened record id
}

// DefaultUIState returns the default UI state with sensible defaults.
func DefaultUIState() *UIState {
	return &UIState{
		ActiveView:  "path",
		LastRecords: make(map[string]string),
	}
}

// LastRecord returns the last opened record of an object, empty when
// none was saved.
func (s *UIState) LastRecord(object string) string {
	return s.LastRecords[object]
}

// SetLastRecord remembers the last opened record of an object.
func (s *UIState) SetLastRecord(object, recordID string) {
	if s.LastRecords == nil {
		s.LastRecords = make(map[string]string)
	}
	s.LastRecords[object] = recordID
}

// Load reads the UI state from ui-state.json in the data directory.
// Returns default state if the file doesn't exist or on error.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, "ui-state.json")

	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultUIState()
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read UI state file: %v", err)
		return DefaultUIState()
	}

	// Parse JSON
	var state UIState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}

	if state.ActiveView == "" {
		state.ActiveView = "path"
	}
	return &state
}

// Save writes the UI state to ui-state.json in the data directory.
// Creates the data directory if it doesn't exist.
func Save(dataDir string, state *UIState) error {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, "ui-state.json")

	// Marshal to JSON with indentation for readability
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
