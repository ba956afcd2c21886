package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/pathway/internal/tui/theme"
)

// charLimitRecordDescription caps the description textarea.
const charLimitRecordDescription = 2000

// CreateRecordMsg asks the App to create a new record for the working object.
type CreateRecordMsg struct {
	Name        string
	Description string
}

// recordModalFocus tracks which element of the new-record modal has keyboard
// focus.
type recordModalFocus int

const (
	recordModalFocusName recordModalFocus = iota
	recordModalFocusDescription
	recordModalFocusButton
)

// RecordInputModal is the interactive modal for creating new records. It holds
// a single-line name input and an optional multi-line description.
type RecordInputModal struct {
	visible bool
	name    textinput.Model
	desc    textarea.Model
	focus   recordModalFocus
	width   int
	height  int
}

// NewRecordInputModal creates the new-record modal.
func NewRecordInputModal() *RecordInputModal {
	t := theme.Current()

	name := textinput.New()
	name.Placeholder = "Record name..."
	name.Prompt = ""
	name.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	name.SetWidth(50)

	desc := textarea.New()
	desc.Placeholder = "Description (optional)..."
	desc.CharLimit = charLimitRecordDescription
	desc.ShowLineNumbers = false
	desc.Prompt = ""
	desc.SetWidth(50)
	desc.SetHeight(5)

	// Override textarea KeyMap to remove ctrl+t from LineNext
	desc.KeyMap.LineNext = key.NewBinding(key.WithKeys("down"))

	taStyles := textarea.DefaultDarkStyles()
	taStyles.Cursor.Color = lipgloss.Color(t.Primary)
	taStyles.Cursor.Shape = tea.CursorBlock
	taStyles.Cursor.Blink = true
	desc.SetStyles(taStyles)

	return &RecordInputModal{
		name:   name,
		desc:   desc,
		focus:  recordModalFocusName,
		width:  60,
		height: 16,
	}
}

// IsVisible returns whether the modal is currently visible.
func (m *RecordInputModal) IsVisible() bool {
	return m.visible
}

// Show makes the modal visible and focuses the name input.
func (m *RecordInputModal) Show() tea.Cmd {
	m.visible = true
	m.focus = recordModalFocusName
	return m.name.Focus()
}

// Close hides the modal and resets its state so the next open starts clean.
func (m *RecordInputModal) Close() {
	m.visible = false
	m.name.SetValue("")
	m.name.Blur()
	m.desc.SetValue("")
	m.desc.Blur()
	m.focus = recordModalFocusName
}

// SetSize updates the modal's available screen area.
func (m *RecordInputModal) SetSize(width, height int) {
	if width < m.width+4 {
		m.name.SetWidth(width - 10)
		m.desc.SetWidth(width - 10)
	}
	_ = height
}

// cycleFocusForward moves focus name → description → button → name.
func (m *RecordInputModal) cycleFocusForward() tea.Cmd {
	old := m.focus
	switch m.focus {
	case recordModalFocusName:
		m.focus = recordModalFocusDescription
	case recordModalFocusDescription:
		m.focus = recordModalFocusButton
	case recordModalFocusButton:
		m.focus = recordModalFocusName
	}
	return m.updateInputFocus(old)
}

// cycleFocusBackward moves focus name → button → description → name.
func (m *RecordInputModal) cycleFocusBackward() tea.Cmd {
	old := m.focus
	switch m.focus {
	case recordModalFocusName:
		m.focus = recordModalFocusButton
	case recordModalFocusDescription:
		m.focus = recordModalFocusName
	case recordModalFocusButton:
		m.focus = recordModalFocusDescription
	}
	return m.updateInputFocus(old)
}

// updateInputFocus syncs Focus/Blur on the two inputs after a zone change.
func (m *RecordInputModal) updateInputFocus(old recordModalFocus) tea.Cmd {
	if old == m.focus {
		return nil
	}

	switch old {
	case recordModalFocusName:
		m.name.Blur()
	case recordModalFocusDescription:
		m.desc.Blur()
	}

	switch m.focus {
	case recordModalFocusName:
		return m.name.Focus()
	case recordModalFocusDescription:
		return m.desc.Focus()
	}
	return nil
}

// Update handles keyboard and paste input for the modal.
func (m *RecordInputModal) Update(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}

	switch msg := msg.(type) {
	case tea.PasteMsg:
		return m.handlePaste(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "escape":
			m.Close()
			return nil

		case "tab":
			return m.cycleFocusForward()

		case "shift+tab":
			return m.cycleFocusBackward()

		case "ctrl+enter":
			return m.submit()

		case "enter":
			switch m.focus {
			case recordModalFocusName:
				// Enter in the name field advances to the description
				return m.cycleFocusForward()
			case recordModalFocusButton:
				return m.submit()
			}

		case " ":
			if m.focus == recordModalFocusButton {
				return m.submit()
			}
		}
	}

	// Forward remaining input to whichever field is focused
	switch m.focus {
	case recordModalFocusName:
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return cmd
	case recordModalFocusDescription:
		var cmd tea.Cmd
		m.desc, cmd = m.desc.Update(msg)
		return cmd
	}
	return nil
}

// handlePaste routes pasted content to the focused field, enforcing the
// description char limit.
func (m *RecordInputModal) handlePaste(msg tea.PasteMsg) tea.Cmd {
	content := SanitizePaste(msg.Content)

	switch m.focus {
	case recordModalFocusName:
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(tea.PasteMsg{Content: collapseNewlines(content)})
		return cmd

	case recordModalFocusDescription:
		currentLen := len([]rune(m.desc.Value()))
		pasteLen := len([]rune(content))
		remainingSpace := charLimitRecordDescription - currentLen

		if remainingSpace <= 0 {
			return func() tea.Msg {
				return ShowToastMsg{Text: fmt.Sprintf("%d chars truncated", pasteLen)}
			}
		}

		if pasteLen > remainingSpace {
			truncated := string([]rune(content)[:remainingSpace])
			count := pasteLen - remainingSpace
			var cmd tea.Cmd
			m.desc, cmd = m.desc.Update(tea.PasteMsg{Content: truncated})
			return tea.Batch(cmd, func() tea.Msg {
				return ShowToastMsg{Text: fmt.Sprintf("%d chars truncated", count)}
			})
		}

		var cmd tea.Cmd
		m.desc, cmd = m.desc.Update(tea.PasteMsg{Content: content})
		return cmd
	}
	return nil
}

// submit validates the form and emits CreateRecordMsg. An empty name is
// ignored rather than reported.
func (m *RecordInputModal) submit() tea.Cmd {
	name := strings.TrimSpace(m.name.Value())
	if name == "" {
		return nil
	}

	description := strings.TrimSpace(m.desc.Value())
	m.Close()

	return func() tea.Msg {
		return CreateRecordMsg{Name: name, Description: description}
	}
}

// View renders the modal content.
func (m *RecordInputModal) View() string {
	if !m.visible {
		return ""
	}

	var sections []string

	sections = append(sections, styleModalTitle.Render("New Record"))
	sections = append(sections, "")

	nameLabel := styleInputLabel
	if m.focus == recordModalFocusName {
		nameLabel = styleInputLabelFocused
	}
	sections = append(sections, nameLabel.Render("Name"))
	sections = append(sections, m.name.View())
	sections = append(sections, "")

	descLabel := styleInputLabel
	if m.focus == recordModalFocusDescription {
		descLabel = styleInputLabelFocused
	}
	sections = append(sections, descLabel.Render("Description"))
	sections = append(sections, m.desc.View())
	sections = append(sections, "")

	button := m.renderButton()
	buttonLine := lipgloss.NewStyle().Width(m.width - 6).Align(lipgloss.Right).Render(button)
	sections = append(sections, buttonLine)
	sections = append(sections, "")
	sections = append(sections, styleDim.Render(HintModal()))

	return strings.Join(sections, "\n")
}

// renderButton renders the create button: disabled when the name is empty,
// highlighted when focused, muted otherwise.
func (m *RecordInputModal) renderButton() string {
	if strings.TrimSpace(m.name.Value()) == "" {
		return styleModalButtonDisabled.Render("  Create  ")
	}
	if m.focus == recordModalFocusButton {
		return styleModalButton.Render("  Create  ")
	}
	return styleModalButtonIdle.Render("  Create  ")
}

// Draw renders the modal centered on the screen buffer.
func (m *RecordInputModal) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if !m.visible {
		return nil
	}

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

	content := styleModalContainer.Width(modalWidth).Render(m.View())

	renderedWidth := lipgloss.Width(content)
	renderedHeight := lipgloss.Height(content)
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
	uv.NewStyledString(content).Draw(scr, modalArea)
	return nil
}

var _ Component = (*RecordInputModal)(nil)
