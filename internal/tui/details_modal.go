package tui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/editor"

	"github.com/mark3labs/pathway/internal/record"
)

// DescriptionEditedMsg is sent when the external editor returns with new
// description content for a record.
type DescriptionEditedMsg struct {
	RecordID string
	Content  string
}

// DetailsModal shows the bound record's summary, its rendered description
// and its notes in a centered overlay. The description can be edited in the
// user's $EDITOR.
type DetailsModal struct {
	rec     *record.Record
	visible bool
	width   int // Modal width
	height  int // Modal height
	tmpFile string

	viewport viewport.Model
}

// NewDetailsModal creates a new DetailsModal component.
func NewDetailsModal() *DetailsModal {
	vp := viewport.New(
		viewport.WithWidth(56),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &DetailsModal{
		width:    64,
		height:   24,
		viewport: vp,
	}
}

// Show opens the modal for the given record.
func (m *DetailsModal) Show(rec *record.Record) {
	m.rec = rec
	m.visible = true
	m.refreshContent()
	m.viewport.GotoTop()
}

// SetRecord refreshes the displayed record, keeping scroll position. Used
// when events change the record while the modal is open.
func (m *DetailsModal) SetRecord(rec *record.Record) {
	if !m.visible || rec == nil {
		return
	}
	m.rec = rec
	m.refreshContent()
}

// Close hides the modal.
func (m *DetailsModal) Close() {
	m.visible = false
	m.rec = nil
	if m.tmpFile != "" {
		_ = os.Remove(m.tmpFile)
		m.tmpFile = ""
	}
}

// IsVisible returns whether the modal is currently visible.
func (m *DetailsModal) IsVisible() bool {
	return m.visible
}

// Record returns the currently displayed record.
func (m *DetailsModal) Record() *record.Record {
	return m.rec
}

// refreshContent rebuilds the viewport content from the record's
// description and notes.
func (m *DetailsModal) refreshContent() {
	if m.rec == nil {
		return
	}

	contentWidth := m.viewport.Width()

	var sections []string
	if strings.TrimSpace(m.rec.Description) != "" {
		sections = append(sections, renderMarkdown(m.rec.Description, contentWidth))
	} else {
		sections = append(sections, styleEmptyState.Render("No description. Press e to write one."))
	}

	if len(m.rec.Notes) > 0 {
		sections = append(sections, "", styleModalLabel.Render("Notes"))
		for _, note := range m.rec.Notes {
			stamp := styleEventTime.Render(note.CreatedAt.Format("2006-01-02 15:04"))
			sections = append(sections, stamp+" "+wrapText(note.Content, contentWidth-17))
		}
	}

	m.viewport.SetContent(strings.Join(sections, "\n"))
}

// Update handles keyboard input and editor results.
func (m *DetailsModal) Update(msg tea.Msg) tea.Cmd {
	if !m.visible || m.rec == nil {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		// Forward non-key messages to the viewport (mouse wheel, etc.)
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	switch keyMsg.String() {
	case "esc", "escape", "q":
		m.Close()
		return nil

	case "e":
		// Open external editor if $EDITOR is set
		if os.Getenv("EDITOR") != "" {
			return m.openEditor()
		}
		return func() tea.Msg {
			return ShowToastMsg{Text: "Set $EDITOR to edit the description"}
		}
	}

	// Forward remaining keys to the viewport for scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// openEditor launches the user's $EDITOR with the record description.
func (m *DetailsModal) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "pathway_description_*.md")
	if err != nil {
		return nil // Silently fail - editor not available
	}

	if _, err := tmpfile.WriteString(m.rec.Description); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()

	// Store temp file path for cleanup
	m.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("pathway", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		return nil
	}

	recordID := m.rec.ID
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return nil
		}

		content, err := os.ReadFile(tmpfile.Name())
		if err != nil {
			return nil
		}

		return DescriptionEditedMsg{
			RecordID: recordID,
			Content:  string(content),
		}
	})
}

// HandleEdited applies editor output locally and cleans up the temp file.
// The App persists the change; this keeps the modal content current until
// the store event arrives.
func (m *DetailsModal) HandleEdited(msg DescriptionEditedMsg) {
	if m.tmpFile != "" {
		_ = os.Remove(m.tmpFile)
		m.tmpFile = ""
	}
	if m.visible && m.rec != nil && m.rec.ID == msg.RecordID {
		m.rec.Description = msg.Content
		m.refreshContent()
	}
}

// ScrollBy scrolls the modal content by the given number of lines.
// Positive values scroll down, negative values scroll up.
func (m *DetailsModal) ScrollBy(lines int) {
	if !m.visible {
		return
	}
	m.viewport.SetYOffset(m.viewport.YOffset() + lines)
}

// Draw renders the modal centered on the screen buffer.
func (m *DetailsModal) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if !m.visible || m.rec == nil {
		return nil
	}

	// Clamp modal dimensions to the screen with margins
	modalWidth := m.width
	modalHeight := m.height
	if modalWidth > area.Dx()-4 {
		modalWidth = area.Dx() - 4
	}
	if modalHeight > area.Dy()-4 {
		modalHeight = area.Dy() - 4
	}
	if modalWidth < 30 {
		modalWidth = 30
	}
	if modalHeight < 10 {
		modalHeight = 10
	}

	// Size the viewport to the modal interior
	m.viewport.SetWidth(modalWidth - 6)
	viewportHeight := modalHeight - 12
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	m.viewport.SetHeight(viewportHeight)

	content := m.buildContent(modalWidth - 4)

	modalContent := styleModalContainer.
		Width(modalWidth).
		Render(content)

	// Calculate center position
	renderedWidth := lipgloss.Width(modalContent)
	renderedHeight := lipgloss.Height(modalContent)
	x := (area.Dx() - renderedWidth) / 2
	y := (area.Dy() - renderedHeight) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	modalArea := uv.Rectangle{
		Min: uv.Position{X: area.Min.X + x, Y: area.Min.Y + y},
		Max: uv.Position{X: area.Min.X + x + renderedWidth, Y: area.Min.Y + y + renderedHeight},
	}
	uv.NewStyledString(modalContent).Draw(scr, modalArea)
	return nil
}

// buildContent builds the modal content string with record details.
func (m *DetailsModal) buildContent(width int) string {
	var sections []string

	sections = append(sections, styleModalTitle.Render(m.rec.Name))
	sections = append(sections, "")

	idLine := styleModalLabel.Render("ID:       ") + styleModalValue.Render(m.rec.ID)
	sections = append(sections, idLine)

	if m.rec.RecordType != "" {
		typeLine := styleModalLabel.Render("Type:     ") + styleModalValue.Render(m.rec.RecordType)
		sections = append(sections, typeLine)
	}

	fields := make([]string, 0, len(m.rec.Fields))
	for field := range m.rec.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fieldLine := styleModalLabel.Render(fmt.Sprintf("%-9s ", field+":")) + styleModalValue.Render(m.rec.Fields[field])
		sections = append(sections, fieldLine)
	}

	createdLine := styleModalLabel.Render("Created:  ") + styleModalValue.Render(m.formatTime(m.rec.CreatedAt))
	updatedLine := styleModalLabel.Render("Updated:  ") + styleModalValue.Render(m.formatTime(m.rec.UpdatedAt))
	sections = append(sections, createdLine, updatedLine)

	sections = append(sections, styleModalSeparator.Render(strings.Repeat("─", width-2)))
	sections = append(sections, m.viewport.View())
	sections = append(sections, styleModalSeparator.Render(strings.Repeat("─", width-2)))

	hintBar := lipgloss.NewStyle().Width(width - 2).Align(lipgloss.Center).Render(HintDetails())
	sections = append(sections, hintBar)

	return strings.Join(sections, "\n")
}

// formatTime formats a timestamp for display.
func (m *DetailsModal) formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
