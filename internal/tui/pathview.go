package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/pathway/internal/path"
	"github.com/mark3labs/pathway/internal/record"
	"github.com/mark3labs/pathway/internal/tui/theme"
)

// OpenChooserMsg asks the App to open the closed-outcome chooser for the
// bound record's resolved scenario.
type OpenChooserMsg struct{}

// OpenDetailsMsg asks the App to open the record details modal.
type OpenDetailsMsg struct{}

// PathView renders the stage bar for the bound record and drives the
// scenario controller from keyboard input.
type PathView struct {
	controller *path.Controller
	record     *record.Record

	width   int
	height  int
	focused bool

	spinner GradientSpinner
	ticking bool
}

// NewPathView creates the path view.
func NewPathView() *PathView {
	t := theme.Current()
	return &PathView{
		spinner: NewGradientSpinner(t.Primary, t.Secondary, "Loading path"),
	}
}

// SetController swaps in the controller for the bound record.
// Pass nil when no record is bound.
func (v *PathView) SetController(c *path.Controller) {
	v.controller = c
}

// SetRecord updates the record shown alongside the stage bar.
func (v *PathView) SetRecord(rec *record.Record) {
	v.record = rec
}

// SetSize updates the component dimensions.
func (v *PathView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetFocus updates the focus state.
func (v *PathView) SetFocus(focused bool) {
	v.focused = focused
}

// IsFocused returns the focus state.
func (v *PathView) IsFocused() bool {
	return v.focused
}

// EnsureSpinner starts the loading spinner tick chain when the controller
// is loading. Returns nil when no animation is needed.
func (v *PathView) EnsureSpinner() tea.Cmd {
	if v.controller == nil || v.controller.Phase() != path.PhaseLoading {
		return nil
	}
	if v.ticking {
		return nil
	}
	v.ticking = true
	return v.spinner.Tick()
}

// Update handles keyboard input and spinner animation.
func (v *PathView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case GradientSpinnerMsg:
		if v.controller != nil && v.controller.Phase() == path.PhaseLoading {
			return v.spinner.Update(msg)
		}
		// Phase moved on, let the tick chain die
		v.ticking = false
		return nil

	case tea.KeyPressMsg:
		return v.handleKey(msg)
	}
	return nil
}

// handleKey processes navigation and confirmation keys.
func (v *PathView) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	c := v.controller
	if c == nil {
		return nil
	}

	switch msg.String() {
	case "left", "h":
		v.moveSelection(-1)
		return nil

	case "right", "l":
		v.moveSelection(1)
		return nil

	case "esc", "escape":
		if c.SelectedStep() != "" {
			c.SelectStep("")
		}
		return nil

	case "enter":
		switch c.ConfirmPrimaryAction() {
		case path.ActionOpenChooser:
			return func() tea.Msg { return OpenChooserMsg{} }
		case path.ActionCommitStarted:
			return func() tea.Msg { return CommitStartedMsg{} }
		}
		return nil

	case "d":
		if v.record != nil {
			return func() tea.Msg { return OpenDetailsMsg{} }
		}
		return nil
	}
	return nil
}

// moveSelection shifts the stage selection left or right, anchored on the
// current selection or the active stage.
func (v *PathView) moveSelection(delta int) {
	c := v.controller
	if c == nil || c.Phase() != path.PhaseReady {
		return
	}

	rendered := c.RenderedSteps()
	if len(rendered) == 0 {
		return
	}

	idx := v.anchorIndex(rendered) + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rendered) {
		idx = len(rendered) - 1
	}

	c.SelectStep(rendered[idx].Step.Value)
}

// anchorIndex finds the stage the selection should move relative to: the
// selected stage if any, otherwise the current one.
func (v *PathView) anchorIndex(rendered []path.RenderedStep) int {
	selected := v.controller.SelectedStep()
	if selected != "" {
		for i, rs := range rendered {
			if rs.Step.Value == selected {
				return i
			}
		}
	}
	for i, rs := range rendered {
		switch rs.State {
		case path.StateCurrent, path.StateWon, path.StateLost:
			return i
		}
	}
	return 0
}

// Draw renders the path panel.
func (v *PathView) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	inner := DrawPanel(scr, area, "Path", v.focused)
	if inner.Dy() < 1 {
		return nil
	}

	if v.controller == nil || v.record == nil {
		v.drawEmptyState(scr, inner)
		return nil
	}

	c := v.controller

	if c.Phase() == path.PhaseLoading && c.Err() == nil {
		v.drawCentered(scr, inner, v.spinner.View())
		return nil
	}

	y := inner.Min.Y + 1

	// Record line: name plus record type when it differs from the default
	meta := v.record.Name
	if v.record.RecordType != "" {
		meta += "  " + styleDim.Render("("+v.record.RecordType+")")
	}
	v.drawRow(scr, inner, y, stylePathMeta.Render(meta))
	y += 2

	// Stage bar
	v.drawRow(scr, inner, y, v.renderStageBar(inner.Dx()))
	y += 2

	// Field line: "Stage: Negotiation"
	v.drawRow(scr, inner, y, v.renderFieldLine())
	y += 2

	// Action button or commit progress
	switch {
	case c.Phase() == path.PhaseCommitting:
		v.drawRow(scr, inner, y, styleDim.Render("saving..."))
		y += 2
	default:
		if _, ok := c.Scenario(); ok && !c.Config().HideButton {
			v.drawRow(scr, inner, y, styleActionButton.Render(c.ButtonText()))
			y += 2
		}
	}

	// Surfaced controller error
	if err := c.Err(); err != nil {
		v.drawRow(scr, inner, y, styleErrorTitle.Render("Path error"))
		y++
		for _, line := range strings.Split(wrapText(err.Error(), inner.Dx()), "\n") {
			v.drawRow(scr, inner, y, styleErrorBody.Render(line))
			y++
		}
	}

	return nil
}

// renderStageBar renders the chevron-joined stage segments, falling back to
// a marker-only form when the labels do not fit.
func (v *PathView) renderStageBar(width int) string {
	rendered := v.controller.RenderedSteps()
	chevron := styleStageChevron.Render(" ❯ ")

	parts := make([]string, 0, len(rendered))
	for _, rs := range rendered {
		parts = append(parts, v.renderStage(rs))
	}
	bar := strings.Join(parts, chevron)

	if lipgloss.Width(bar) > width {
		bar = v.renderCompactBar(rendered)
	}
	return bar
}

// renderCompactBar shows markers for every stage but only labels the anchor.
func (v *PathView) renderCompactBar(rendered []path.RenderedStep) string {
	anchor := v.anchorIndex(rendered)

	parts := make([]string, 0, len(rendered))
	for i, rs := range rendered {
		if i == anchor {
			parts = append(parts, v.renderStage(rs))
			continue
		}
		parts = append(parts, v.renderMarker(rs))
	}
	return strings.Join(parts, " ")
}

// renderStage renders one labeled stage segment.
func (v *PathView) renderStage(rs path.RenderedStep) string {
	label := rs.Step.Label

	switch rs.State {
	case path.StateWon:
		return styleStageWon.Render(" ✓ " + label + " ")
	case path.StateLost:
		return styleStageLost.Render(" ✗ " + label + " ")
	case path.StateSelected:
		return styleStageSelected.Render(" " + label + " ")
	case path.StateCurrent:
		if rs.Active {
			return styleStageActive.Render(" " + label + " ")
		}
		return styleStageCurrent.Render("● " + label)
	case path.StateComplete:
		return styleStageComplete.Render("✓ " + label)
	default:
		if rs.Step.Value == path.PlaceholderValue {
			return styleStageIncomplete.Render("⊘ " + label)
		}
		return styleStageIncomplete.Render("○ " + label)
	}
}

// renderMarker renders the one-character form of a stage for compact bars.
func (v *PathView) renderMarker(rs path.RenderedStep) string {
	switch rs.State {
	case path.StateWon:
		return styleStageWon.Render("✓")
	case path.StateLost:
		return styleStageLost.Render("✗")
	case path.StateSelected:
		return styleStageSelected.Render("◆")
	case path.StateCurrent:
		return styleStageCurrent.Render("●")
	case path.StateComplete:
		return styleStageComplete.Render("✓")
	default:
		if rs.Step.Value == path.PlaceholderValue {
			return styleStageIncomplete.Render("⊘")
		}
		return styleStageIncomplete.Render("○")
	}
}

// renderFieldLine renders "Stage: <label>", preferring the closed outcome
// and then the current stage.
func (v *PathView) renderFieldLine() string {
	c := v.controller

	label := c.CurrentStep().Label
	if label == "" {
		label = "-"
	}

	return stylePathField.Render(c.FieldLabel()+":") + " " + stylePathValue.Render(label)
}

// drawRow draws a single line inside the panel, clipped to the inner area.
func (v *PathView) drawRow(scr uv.Screen, inner uv.Rectangle, y int, content string) {
	if y < inner.Min.Y || y >= inner.Max.Y {
		return
	}
	row := uv.Rectangle{
		Min: uv.Position{X: inner.Min.X, Y: y},
		Max: uv.Position{X: inner.Max.X, Y: y + 1},
	}
	uv.NewStyledString(content).Draw(scr, row)
}

// drawCentered draws content roughly centered in the panel.
func (v *PathView) drawCentered(scr uv.Screen, inner uv.Rectangle, content string) {
	v.drawRowCentered(scr, inner, inner.Min.Y+inner.Dy()/2, content)
}

// drawEmptyState renders the no-record placeholder.
func (v *PathView) drawEmptyState(scr uv.Screen, inner uv.Rectangle) {
	y := inner.Min.Y + inner.Dy()/2
	v.drawRowCentered(scr, inner, y, styleEmptyState.Render("No record selected"))
	v.drawRowCentered(scr, inner, y+1, HintPathUnbound())
}

func (v *PathView) drawRowCentered(scr uv.Screen, inner uv.Rectangle, y int, content string) {
	if y < inner.Min.Y || y >= inner.Max.Y {
		return
	}
	row := uv.Rectangle{
		Min: uv.Position{X: inner.Min.X, Y: y},
		Max: uv.Position{X: inner.Max.X, Y: y + 1},
	}
	centered := lipgloss.NewStyle().Width(inner.Dx()).Align(lipgloss.Center).Render(content)
	uv.NewStyledString(centered).Draw(scr, row)
}

// Compile-time interface checks
var _ FullComponent = (*PathView)(nil)
var _ Focusable = (*PathView)(nil)
