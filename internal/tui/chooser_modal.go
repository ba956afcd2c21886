package tui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// ChooserOption is one closed outcome the user can pick.
type ChooserOption struct {
	Value string
	Label string
	Won   bool
}

// ChooserConfirmMsg is sent when the user confirms a closed outcome.
type ChooserConfirmMsg struct {
	Value string
}

// ChooserCancelMsg is sent when the chooser is dismissed without a pick.
type ChooserCancelMsg struct{}

// ChooserModal lets the user pick between the won and lost outcome when
// closing a record, or change the outcome of an already closed one.
type ChooserModal struct {
	visible bool
	header  string
	options []ChooserOption
	cursor  int
	width   int
	height  int
}

// NewChooserModal creates the chooser modal.
func NewChooserModal() *ChooserModal {
	return &ChooserModal{}
}

// Show opens the chooser with the scenario's header and outcome options.
func (m *ChooserModal) Show(header string, options []ChooserOption) {
	m.header = header
	m.options = options
	m.cursor = 0
	m.visible = true
}

// Close hides the chooser.
func (m *ChooserModal) Close() {
	m.visible = false
}

// IsVisible returns whether the chooser is open.
func (m *ChooserModal) IsVisible() bool {
	return m.visible
}

// SetSize updates the modal's knowledge of screen size.
func (m *ChooserModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles chooser input.
func (m *ChooserModal) Update(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil

	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
		return nil

	case "enter":
		if m.cursor >= 0 && m.cursor < len(m.options) {
			value := m.options[m.cursor].Value
			return func() tea.Msg { return ChooserConfirmMsg{Value: value} }
		}
		return nil

	case "esc", "escape":
		return func() tea.Msg { return ChooserCancelMsg{} }
	}

	return nil
}

// Draw renders the chooser centered on screen.
func (m *ChooserModal) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if !m.visible {
		return nil
	}

	var lines []string
	lines = append(lines, styleModalTitle.Render(m.header), "")

	for i, opt := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = styleChooserCursor.Render("▸ ")
		}

		label := opt.Label
		if opt.Won {
			label = styleChooserWon.Render(label)
		} else {
			label = styleChooserLost.Render(label)
		}
		lines = append(lines, cursor+label)
	}

	lines = append(lines, "", HintChooser())

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	modal := styleModalContainer.Render(content)

	// Center on screen
	modalWidth := lipgloss.Width(modal)
	modalHeight := lipgloss.Height(modal)
	x := (area.Dx() - modalWidth) / 2
	y := (area.Dy() - modalHeight) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	modalArea := uv.Rectangle{
		Min: uv.Position{X: area.Min.X + x, Y: area.Min.Y + y},
		Max: uv.Position{X: area.Min.X + x + modalWidth, Y: area.Min.Y + y + modalHeight},
	}

	uv.NewStyledString(modal).Draw(scr, modalArea)
	return nil
}

// Compile-time interface check
var _ Component = (*ChooserModal)(nil)
