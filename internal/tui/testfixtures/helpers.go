package testfixtures

import (
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
)

// Initialize test environment
func init() {
	// Set Ascii profile to disable color output for consistent assertions across CI/platforms
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// RenderComponent draws into a fresh screen buffer and returns the
// rendered text, for content assertions against component output.
func RenderComponent(width, height int, draw func(scr uv.Screen, area uv.Rectangle)) string {
	canvas := uv.NewScreenBuffer(width, height)
	draw(canvas, uv.Rect(0, 0, width, height))
	return canvas.Render()
}
