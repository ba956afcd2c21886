package theme

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI. Colors are stored as hex
// strings so they can feed lipgloss styles and chroma style transforms alike.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color accepts hex strings directly
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgCrust    string
	BgMantle   string
	BgBase     string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Accent colors for badges and feed entries
	Peach string
	Teal  string
	Pink  string

	// Diff colors
	DiffInsertBg  string
	DiffDeleteBg  string
	DiffEqualBg   string
	DiffMissingBg string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),
		HintKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Tertiary)),
		HintDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)),
		HintSeparator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgOverlay)),
	}
}

var current = NewCatppuccinMocha()

// Current returns the active theme.
func Current() *Theme {
	return current
}

// HexToColor converts a theme hex string into a color value usable by
// lipgloss layers and the terminal renderer.
func HexToColor(hex string) color.Color {
	return lipgloss.Color(hex)
}
