package tui

import (
	"github.com/mark3labs/pathway/internal/tui/theme"
)

// Standard key representations for consistent hints across the app.
// Use arrow symbols (↑↓ ←→) as primary, with j/k mentioned as backup where applicable.
const (
	KeyUpDown    = "↑/↓"   // Vertical navigation
	KeyUpDownJK  = "↑↓/jk" // Arrows with vim backup
	KeyLeftRight = "←/→"   // Horizontal navigation
	KeyEnter     = "enter"
	KeyEsc       = "esc"
	KeyTab       = "tab"
	KeyCtrlC     = "ctrl+c"
	KeyPgUpDown  = "pgup/pgdn"
	KeySlash     = "/"
	KeyD         = "d"
	KeyE         = "e"
	KeyN         = "n"
	KeyQ         = "q"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Pairs are separated by " . " (bullet point separator).
// Example: RenderHintBar("up/down", "scroll", "enter", "select", "esc", "back")
// Returns: "up/down scroll . enter select . esc back"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var result string

	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i]
		desc := pairs[i+1]

		if i > 0 {
			result += " " + s.HintSeparator.Render(".") + " "
		}

		result += s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
	}

	return result
}

// Common hint bar presets for consistency.

// HintPath returns hints for the path view.
// "←/→ select stage . enter confirm . d details . esc clear"
func HintPath() string {
	return RenderHintBar(KeyLeftRight, "select stage", KeyEnter, "confirm", KeyD, "details", KeyEsc, "clear")
}

// HintPathUnbound returns hints for the path view with no record bound.
// "2 records . n new record"
func HintPathUnbound() string {
	return RenderHintBar("2", "records", KeyN, "new record")
}

// HintRecords returns hints for the record list.
// "↑↓/jk move . enter open . n new . / filter"
func HintRecords() string {
	return RenderHintBar(KeyUpDownJK, "move", KeyEnter, "open", KeyN, "new", KeySlash, "filter")
}

// HintFilter returns hints while the record filter input is focused.
// "enter apply . esc clear"
func HintFilter() string {
	return RenderHintBar(KeyEnter, "apply", KeyEsc, "clear")
}

// HintActivity returns hints for the activity feed.
// "↑↓/jk select . pgup/pgdn page"
func HintActivity() string {
	return RenderHintBar(KeyUpDownJK, "select", KeyPgUpDown, "page")
}

// HintChooser returns hints for the closed-outcome chooser.
// "↑/↓ choose . enter confirm . esc cancel"
func HintChooser() string {
	return RenderHintBar(KeyUpDown, "choose", KeyEnter, "confirm", KeyEsc, "cancel")
}

// HintDetails returns hints for the record details modal.
// "↑/↓ scroll . e edit description . esc close"
func HintDetails() string {
	return RenderHintBar(KeyUpDown, "scroll", KeyE, "edit description", KeyEsc, "close")
}

// HintModal returns standard input-modal hints.
// "tab cycle . enter submit . esc close"
func HintModal() string {
	return RenderHintBar(KeyTab, "cycle", KeyEnter, "submit", KeyEsc, "close")
}
