package theme

import "charm.land/lipgloss/v2"

// Styles contains the pre-built lipgloss styles shared across TUI components.
// Component-specific styles live with their components; these cover the
// chrome elements every view composes: the header title and hint bars.
type Styles struct {
	HeaderTitle   lipgloss.Style
	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style
}
