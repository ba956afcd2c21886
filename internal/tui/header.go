package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// Header renders the top header bar with the app name, the object being
// worked and the currently bound record.
type Header struct {
	width       int
	objectLabel string
	recordName  string
	mcpURL      string
	layoutMode  LayoutMode
}

// NewHeader creates a new Header component.
func NewHeader() *Header {
	return &Header{}
}

// Draw renders the header to the screen at the given area.
// Returns nil cursor since header is non-interactive.
func (h *Header) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dy() < 1 {
		return nil
	}

	// Build content based on layout mode
	var left, right string
	if h.layoutMode == LayoutCompact {
		left = h.buildCompactLeft()
		right = ""
	} else {
		left = h.buildDesktopLeft()
		right = h.buildDesktopRight()
	}

	content := h.buildHeader(left, right, area.Dx())
	DrawText(scr, area, content)

	return nil
}

// buildHeader combines left and right content with spacing.
func (h *Header) buildHeader(left, right string, totalWidth int) string {
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	// Calculate padding needed
	padding := totalWidth - leftWidth - rightWidth - 2 // -2 for side padding
	if padding < 1 {
		padding = 1
	}

	var spacer string
	for i := 0; i < padding; i++ {
		spacer += " "
	}

	return left + spacer + right
}

// buildDesktopLeft builds the full left side for desktop mode.
func (h *Header) buildDesktopLeft() string {
	title := styleHeaderApp.Render("pathway")
	sep := styleHeaderSeparator.Render(" | ")

	left := title + sep + styleHeaderObject.Render(h.objectLabel)

	if h.recordName != "" {
		left += sep + styleHeaderRecord.Render(h.recordName)
	}

	return left
}

// buildDesktopRight builds the full right side for desktop mode.
func (h *Header) buildDesktopRight() string {
	if h.mcpURL == "" {
		return ""
	}
	return styleHeaderInfo.Render("mcp " + h.mcpURL)
}

// buildCompactLeft builds the condensed left side for compact mode.
func (h *Header) buildCompactLeft() string {
	title := styleHeaderApp.Render("pathway")
	sep := styleHeaderSeparator.Render(" | ")

	// Shorten record name if too long
	name := h.recordName
	if len(name) > 20 {
		name = name[:17] + "..."
	}

	left := title + sep + styleHeaderObject.Render(h.objectLabel)
	if name != "" {
		left += sep + styleHeaderRecord.Render(name)
	}

	return left
}

// SetSize updates the header width.
func (h *Header) SetSize(width, height int) {
	h.width = width
}

// SetBinding updates the object label and record name shown in the header.
// An empty record name means no record is bound.
func (h *Header) SetBinding(objectLabel, recordName string) {
	h.objectLabel = objectLabel
	h.recordName = recordName
}

// SetMCPURL sets the MCP endpoint shown on the right side in desktop mode.
func (h *Header) SetMCPURL(url string) {
	h.mcpURL = url
}

// SetLayoutMode updates the layout mode (desktop/compact).
func (h *Header) SetLayoutMode(mode LayoutMode) {
	h.layoutMode = mode
}

// Update handles messages. Header is static, so this is a no-op.
func (h *Header) Update(msg tea.Msg) tea.Cmd {
	return nil
}

// Compile-time interface checks
var _ FullComponent = (*Header)(nil)
