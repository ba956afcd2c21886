package path

// RenderState classifies how a step should be drawn.
type RenderState int

const (
	// StateIncomplete is a step not yet reached.
	StateIncomplete RenderState = iota
	// StateComplete is a step before the current one on a record that
	// is not closed-lost.
	StateComplete
	// StateCurrent is the record's live step.
	StateCurrent
	// StateSelected is the step the user manually selected.
	StateSelected
	// StateWon is the reached successful terminal step.
	StateWon
	// StateLost is the reached unsuccessful terminal step.
	StateLost
)

func (s RenderState) String() string {
	switch s {
	case StateIncomplete:
		return "incomplete"
	case StateComplete:
		return "complete"
	case StateCurrent:
		return "current"
	case StateSelected:
		return "selected"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// RenderedStep is a step tagged with its derived render state. Active
// marks the current step when nothing is manually selected.
type RenderedStep struct {
	Step
	State  RenderState
	Active bool
}

// RenderedSteps derives the drawable step sequence fresh on every
// call: the open steps in picklist order, then one synthetic trailing
// entry standing for the terminal outcome. On a closed record the
// trailing entry is the reached terminal step (won or lost); on an
// open record it is the chooser placeholder.
func (c *Controller) RenderedSteps() []RenderedStep {
	out := make([]RenderedStep, 0, len(c.steps))
	for _, s := range c.steps {
		if s.Equals(c.cfg.ClosedOk) || s.Equals(c.cfg.ClosedKo) {
			continue
		}
		out = append(out, c.renderStep(s))
	}
	out = append(out, c.renderStep(c.terminalStep()))
	return out
}

// terminalStep is the synthetic trailing entry of the rendered
// sequence.
func (c *Controller) terminalStep() Step {
	if c.IsClosedOk() || c.IsClosedKo() {
		return c.CurrentStep()
	}
	return Step{Value: PlaceholderValue, Label: c.cfg.Placeholder, Index: len(c.steps)}
}

// renderStep derives the state of one step. The checks run in priority
// order: won/lost, selected, current, complete, incomplete.
func (c *Controller) renderStep(s Step) RenderedStep {
	rs := RenderedStep{Step: s, State: StateIncomplete}
	cur := c.CurrentStep()
	switch {
	case s.Equals(c.cfg.ClosedOk) && c.IsClosedOk():
		rs.State = StateWon
	case s.Equals(c.cfg.ClosedKo) && c.IsClosedKo():
		rs.State = StateLost
	case c.selectedStep != "" && s.Equals(c.selectedStep):
		rs.State = StateSelected
	case cur.HasValue() && s.Equals(cur):
		rs.State = StateCurrent
		rs.Active = c.selectedStep == ""
	case s.IsBefore(cur) && !c.IsClosedKo():
		rs.State = StateComplete
	}
	return rs
}
