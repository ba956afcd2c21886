package tui

import (
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestStatusBar_SpinnerAnimation(t *testing.T) {
	tests := []struct {
		name          string
		busy          bool
		label         string
		expectSpinner bool
	}{
		{
			name:          "shows spinner while committing",
			busy:          true,
			label:         "committing",
			expectSpinner: true,
		},
		{
			name:          "shows spinner while loading",
			busy:          true,
			label:         "loading",
			expectSpinner: true,
		},
		{
			name:          "no spinner when idle",
			busy:          false,
			expectSpinner: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := NewStatusBar()
			sb.SetLayoutMode(LayoutDesktop)
			sb.SetConnectionStatus(true)
			sb.SetBusy(tt.busy, tt.label)

			// Update spinner once to get it started
			cmd := sb.Update(nil)

			// Verify Update returns tick command when working
			if tt.expectSpinner {
				if cmd == nil {
					t.Error("Expected Update to return tick command when busy, got nil")
				}
			} else {
				if cmd != nil {
					t.Errorf("Expected Update to return nil when idle, got %T", cmd)
				}
			}

			// Render the status bar
			canvas := uv.NewScreenBuffer(100, 1)
			area := uv.Rect(0, 0, 100, 1)
			sb.Draw(canvas, area)
			content := canvas.Render()

			if !strings.Contains(content, "connected") {
				t.Errorf("Expected connection status, got: %s", content)
			}
			if tt.expectSpinner && !strings.Contains(content, tt.label) {
				t.Errorf("Expected busy label %q, got: %s", tt.label, content)
			}
			if !tt.expectSpinner && strings.Contains(content, "committing") {
				t.Errorf("Idle bar should not show a busy label, got: %s", content)
			}
		})
	}
}

func TestStatusBar_SpinnerTicking(t *testing.T) {
	sb := NewStatusBar()
	sb.SetLayoutMode(LayoutDesktop)
	sb.SetBusy(true, "committing")

	// First Update should return tick command
	cmd1 := sb.Update(nil)
	if cmd1 == nil {
		t.Fatal("Expected first Update to return tick command")
	}

	// Execute the tick command to get a spinner message
	msg := cmd1()

	// Update with spinner message should return another tick
	cmd2 := sb.Update(msg)
	if cmd2 == nil {
		t.Error("Expected Update with spinner message to return next tick")
	}

	// Verify spinner continues ticking
	msg2 := cmd2()
	cmd3 := sb.Update(msg2)
	if cmd3 == nil {
		t.Error("Expected spinner to continue ticking")
	}
}

func TestStatusBar_SpinnerStopsWhenIdle(t *testing.T) {
	sb := NewStatusBar()
	sb.SetLayoutMode(LayoutDesktop)
	sb.SetBusy(true, "loading")

	// Update should return tick
	cmd := sb.Update(nil)
	if cmd == nil {
		t.Fatal("Expected Update to return tick when busy")
	}

	// Work finishes
	sb.SetBusy(false, "")

	// Update should now return nil
	cmd = sb.Update(nil)
	if cmd != nil {
		t.Error("Expected Update to return nil when no longer busy")
	}

	// A new work period restarts the tick chain
	sb.SetBusy(true, "committing")
	cmd = sb.Update(nil)
	if cmd == nil {
		t.Error("Expected Update to restart the tick chain on new work")
	}
}

func TestStatusBar_DrawHints(t *testing.T) {
	sb := NewStatusBar()
	sb.SetLayoutMode(LayoutDesktop)
	sb.SetConnectionStatus(true)
	sb.SetHints("enter confirm . esc clear")

	canvas := uv.NewScreenBuffer(100, 1)
	area := uv.Rect(0, 0, 100, 1)
	sb.Draw(canvas, area)
	content := canvas.Render()

	if !strings.Contains(content, "enter confirm") {
		t.Errorf("Expected hint text on the left, got: %s", content)
	}
	if !strings.Contains(content, "● connected") {
		t.Errorf("Expected connection indicator on the right, got: %s", content)
	}
}

func TestStatusBar_DrawDisconnected(t *testing.T) {
	sb := NewStatusBar()
	sb.SetLayoutMode(LayoutDesktop)
	sb.SetConnectionStatus(false)

	canvas := uv.NewScreenBuffer(100, 1)
	area := uv.Rect(0, 0, 100, 1)
	sb.Draw(canvas, area)
	content := canvas.Render()

	if !strings.Contains(content, "○ disconnected") {
		t.Errorf("Expected disconnected indicator, got: %s", content)
	}
}

func TestStatusBar_CompactModeHidesText(t *testing.T) {
	sb := NewStatusBar()
	sb.SetLayoutMode(LayoutCompact)
	sb.SetConnectionStatus(true)
	sb.SetBusy(true, "committing")

	canvas := uv.NewScreenBuffer(60, 1)
	area := uv.Rect(0, 0, 60, 1)
	sb.Draw(canvas, area)
	content := canvas.Render()

	if !strings.Contains(content, "●") {
		t.Errorf("Expected connection dot in compact mode, got: %s", content)
	}
	if strings.Contains(content, "connected") {
		t.Errorf("Compact mode should drop the connection text, got: %s", content)
	}
	if strings.Contains(content, "committing") {
		t.Errorf("Compact mode should drop the busy label, got: %s", content)
	}
}
