package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// StatusBar displays contextual key hints (left) and commit activity plus
// connection status (right).
type StatusBar struct {
	width      int
	height     int
	hints      string
	busy       bool
	busyLabel  string
	connected  bool
	ticking    bool // Whether the spinner tick chain has been started
	layoutMode LayoutMode
	spinner    Spinner
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		connected: false,
		spinner:   NewDefaultSpinner(),
	}
}

// Draw renders the status bar to the screen.
// Format: ←/→ select stage . enter confirm     [spinner] committing ● connected
func (s *StatusBar) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return nil
	}

	left := s.hints
	right := s.buildRight()

	// Calculate spacing to fill width
	totalWidth := area.Dx() - 2 // Account for padding
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	padding := totalWidth - leftWidth - rightWidth
	if padding < 1 {
		padding = 1
	}

	spacer := ""
	for i := 0; i < padding; i++ {
		spacer += " "
	}

	content := left + spacer + right

	// Render with style
	DrawStyled(scr, area, styleStatusBar, content)

	return nil
}

// buildRight builds the right side of the status bar.
func (s *StatusBar) buildRight() string {
	var right string

	// Add spinner only while a load or commit is in flight
	if s.busy {
		right += s.spinner.View() + " "
		if s.busyLabel != "" && s.layoutMode != LayoutCompact {
			right += styleStatusBusy.Render(s.busyLabel) + " "
		}
	}

	// Add connection status
	right += s.getConnectionStatus()

	return right
}

// SetSize updates the component dimensions.
func (s *StatusBar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetHints replaces the contextual hint bar on the left side.
func (s *StatusBar) SetHints(hints string) {
	s.hints = hints
}

// SetBusy toggles the activity spinner. The label describes what is in
// flight, e.g. "loading" or "committing".
func (s *StatusBar) SetBusy(busy bool, label string) {
	s.busy = busy
	s.busyLabel = label

	// Reset tick chain flag when work stops so it restarts on next work period
	if !busy {
		s.ticking = false
	}
}

// SetConnectionStatus updates the connection status.
func (s *StatusBar) SetConnectionStatus(connected bool) {
	s.connected = connected
}

// SetLayoutMode updates the layout mode (desktop/compact).
func (s *StatusBar) SetLayoutMode(mode LayoutMode) {
	s.layoutMode = mode
}

// Update handles messages and spinner animation.
func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if !s.busy {
		return nil
	}

	// Forward to spinner - it returns a cmd only for its own tick messages
	cmd := s.spinner.Update(msg)
	if cmd != nil {
		return cmd // Spinner handled its tick, returns next tick (self-sustaining chain)
	}

	// Start the tick chain once when busy becomes true
	if !s.ticking {
		s.ticking = true
		return s.spinner.Tick()
	}

	return nil
}

// getConnectionStatus returns the connection status indicator.
// ● = connected, ○ = disconnected
func (s *StatusBar) getConnectionStatus() string {
	if s.layoutMode == LayoutCompact {
		// Compact mode: just show the dot
		if s.connected {
			return styleStatusConnected.Render("●")
		}
		return styleStatusDisconnected.Render("○")
	}

	// Desktop mode: show full text
	if s.connected {
		return styleStatusConnected.Render("●") + " connected"
	}
	return styleStatusDisconnected.Render("○") + " disconnected"
}

// truncateString truncates a string to fit within maxWidth, adding "..." if truncated.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}

	width := lipgloss.Width(s)
	if width <= maxWidth {
		return s
	}

	// Simple truncation - count runes to handle multi-byte chars
	runes := []rune(s)
	targetLen := maxWidth - 3 // Reserve space for "..."

	if targetLen < 0 {
		targetLen = 0
	}

	if targetLen >= len(runes) {
		return s
	}

	return string(runes[:targetLen]) + "..."
}

// Compile-time interface checks
var _ FullComponent = (*StatusBar)(nil)
