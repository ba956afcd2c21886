package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/pathway/internal/record"
	"github.com/mark3labs/pathway/internal/tui/theme"
)

// SwitchRecordMsg asks the App to bind a different record.
type SwitchRecordMsg struct {
	ID string
}

// OpenNewRecordMsg asks the App to open the new-record modal.
type OpenNewRecordMsg struct{}

// StageBadge is the resolved display form of a record's stage.
type StageBadge struct {
	Label string
	Won   bool
	Lost  bool
}

// RecordsView lists the records of the working object. It supports filtering
// by name, switching the bound record and creating new records.
type RecordsView struct {
	records  []*record.Record
	filtered []*record.Record
	cursor   int
	offset   int
	boundID  string

	filter    textinput.Model
	filtering bool

	// stageBadge resolves a record's stage value into its display badge.
	stageBadge func(*record.Record) StageBadge

	width   int
	height  int
	focused bool
}

// NewRecordsView creates the records list view.
func NewRecordsView() *RecordsView {
	t := theme.Current()

	input := textinput.New()
	input.Placeholder = "Type to filter records..."
	input.Prompt = "/ "

	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Prompt:      styleFilterPrompt,
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
	input.SetStyles(styles)
	input.SetWidth(40)

	return &RecordsView{
		filter:     input,
		stageBadge: func(*record.Record) StageBadge { return StageBadge{} },
	}
}

// SetRecords replaces the record list, keeping the cursor stable where
// possible.
func (v *RecordsView) SetRecords(records []*record.Record) {
	var cursorID string
	if v.cursor >= 0 && v.cursor < len(v.filtered) {
		cursorID = v.filtered[v.cursor].ID
	}

	v.records = records
	v.applyFilter()

	// Restore cursor onto the same record after the update
	if cursorID != "" {
		for i, rec := range v.filtered {
			if rec.ID == cursorID {
				v.cursor = i
				break
			}
		}
	}
	v.clampCursor()
}

// SetBound marks which record is currently bound to the path view.
func (v *RecordsView) SetBound(recordID string) {
	v.boundID = recordID
}

// SetStageBadge installs the resolver that maps a record to its stage badge.
func (v *RecordsView) SetStageBadge(fn func(*record.Record) StageBadge) {
	if fn != nil {
		v.stageBadge = fn
	}
}

// SetSize updates the component dimensions.
func (v *RecordsView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.filter.SetWidth(width - 4)
}

// SetFocus updates the focus state.
func (v *RecordsView) SetFocus(focused bool) {
	v.focused = focused
	if !focused {
		v.filtering = false
		v.filter.Blur()
	}
}

// IsFocused returns the focus state.
func (v *RecordsView) IsFocused() bool {
	return v.focused
}

// IsFiltering reports whether keystrokes go to the filter input.
func (v *RecordsView) IsFiltering() bool {
	return v.filtering
}

// applyFilter rebuilds the filtered list from the current query.
func (v *RecordsView) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(v.filter.Value()))

	if query == "" {
		v.filtered = v.records
	} else {
		v.filtered = make([]*record.Record, 0)
		for _, rec := range v.records {
			if strings.Contains(strings.ToLower(rec.Name), query) ||
				strings.Contains(strings.ToLower(rec.ID), query) {
				v.filtered = append(v.filtered, rec)
			}
		}
	}

	v.clampCursor()
}

// clampCursor keeps the cursor and scroll offset inside the list.
func (v *RecordsView) clampCursor() {
	if v.cursor >= len(v.filtered) {
		v.cursor = len(v.filtered) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	if v.offset > v.cursor {
		v.offset = v.cursor
	}
}

// Update handles keyboard and paste input.
func (v *RecordsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.PasteMsg:
		if v.filtering {
			content := collapseNewlines(SanitizePaste(msg.Content))
			var cmd tea.Cmd
			v.filter, cmd = v.filter.Update(tea.PasteMsg{Content: content})
			v.applyFilter()
			return cmd
		}
		return nil

	case tea.KeyPressMsg:
		if v.filtering {
			return v.handleFilterKey(msg)
		}
		return v.handleListKey(msg)
	}

	// Forward blink ticks and the like to the filter input while focused
	if v.filtering {
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		return cmd
	}
	return nil
}

// handleFilterKey processes input while the filter field is focused.
func (v *RecordsView) handleFilterKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "escape":
		v.filtering = false
		v.filter.Blur()
		v.filter.SetValue("")
		v.applyFilter()
		return nil

	case "enter":
		v.filtering = false
		v.filter.Blur()
		return nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.applyFilter()
	return cmd
}

// handleListKey processes navigation keys for the record list.
func (v *RecordsView) handleListKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		return nil

	case "down", "j":
		if v.cursor < len(v.filtered)-1 {
			v.cursor++
		}
		return nil

	case "g", "home":
		v.cursor = 0
		return nil

	case "G", "end":
		v.cursor = len(v.filtered) - 1
		if v.cursor < 0 {
			v.cursor = 0
		}
		return nil

	case "/":
		v.filtering = true
		return v.filter.Focus()

	case "enter":
		if v.cursor >= 0 && v.cursor < len(v.filtered) {
			id := v.filtered[v.cursor].ID
			return func() tea.Msg { return SwitchRecordMsg{ID: id} }
		}
		return nil

	case "n":
		return func() tea.Msg { return OpenNewRecordMsg{} }
	}
	return nil
}

// ScrollBy moves the cursor by the given number of rows.
// Positive values scroll down, negative values scroll up.
func (v *RecordsView) ScrollBy(lines int) {
	v.cursor += lines
	v.clampCursor()
}

// Draw renders the records panel.
func (v *RecordsView) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	title := "Records"
	if len(v.records) > 0 {
		title = fmt.Sprintf("Records (%d)", len(v.records))
	}
	inner := DrawPanel(scr, area, title, v.focused)
	if inner.Dy() < 1 {
		return nil
	}

	y := inner.Min.Y

	// Filter row when active or non-empty
	if v.filtering || v.filter.Value() != "" {
		v.drawRow(scr, inner, y, v.filter.View())
		y++
	}

	if len(v.filtered) == 0 {
		empty := "No records yet. Press n to create one."
		if v.filter.Value() != "" {
			empty = "No records match the filter."
		}
		v.drawRow(scr, inner, y+1, styleEmptyState.Render(empty))
		return nil
	}

	// Keep the cursor visible within the remaining rows
	visible := inner.Max.Y - y
	if visible < 1 {
		return nil
	}
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}

	for i := v.offset; i < len(v.filtered) && y < inner.Max.Y; i++ {
		v.drawRow(scr, inner, y, v.renderRecordRow(v.filtered[i], i == v.cursor, inner.Dx()))
		y++
	}

	// Scroll indicator when the list overflows
	if len(v.filtered) > visible {
		percent := float64(v.cursor+1) / float64(len(v.filtered))
		DrawScrollIndicator(scr, inner, percent)
	}

	return nil
}

// renderRecordRow renders one list row: cursor, bound marker, name, stage
// badge and relative update time.
func (v *RecordsView) renderRecordRow(rec *record.Record, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = styleRecordCursor.Render("▸ ")
	}

	bound := "  "
	if rec.ID == v.boundID {
		bound = styleRecordBound.Render("● ")
	}

	nameStyle := styleRecordName
	if selected {
		nameStyle = styleRecordNameSelected
	}
	name := nameStyle.Render(truncateString(rec.Name, width/2))

	badge := v.stageBadge(rec)
	var stage string
	switch {
	case badge.Label == "":
	case badge.Won:
		stage = "  " + styleRecordStageWon.Render(badge.Label)
	case badge.Lost:
		stage = "  " + styleRecordStageLost.Render(badge.Label)
	default:
		stage = "  " + styleRecordStage.Render(badge.Label)
	}

	updated := "  " + styleDim.Render(formatRelativeTime(rec.UpdatedAt))

	return cursor + bound + name + stage + updated
}

// drawRow draws a single line inside the panel.
func (v *RecordsView) drawRow(scr uv.Screen, inner uv.Rectangle, y int, content string) {
	if y < inner.Min.Y || y >= inner.Max.Y {
		return
	}
	row := uv.Rectangle{
		Min: uv.Position{X: inner.Min.X, Y: y},
		Max: uv.Position{X: inner.Max.X, Y: y + 1},
	}
	uv.NewStyledString(content).Draw(scr, row)
}

// formatRelativeTime formats a time.Time as a human-readable relative time string.
func formatRelativeTime(t time.Time) string {
	now := time.Now()
	duration := now.Sub(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}

// Compile-time interface checks
var _ FullComponent = (*RecordsView)(nil)
var _ Focusable = (*RecordsView)(nil)
