package path

// ScenarioKind identifies one of the four path actions.
type ScenarioKind int

const (
	// MarkAsComplete advances an open record to its next step.
	MarkAsComplete ScenarioKind = iota
	// MarkAsCurrent moves the record to a manually selected step.
	MarkAsCurrent
	// SelectClosed picks a terminal outcome for an open record.
	SelectClosed
	// ChangeClosed revisits the terminal outcome of a closed record.
	ChangeClosed
)

func (k ScenarioKind) String() string {
	switch k {
	case MarkAsComplete:
		return "mark_as_complete"
	case MarkAsCurrent:
		return "mark_as_current"
	case SelectClosed:
		return "select_closed"
	case ChangeClosed:
		return "change_closed"
	default:
		return "unknown"
	}
}

// PlaceholderValue is the synthetic stage value of the trailing chooser
// step on an open record. It never appears among real picklist values.
const PlaceholderValue = "__closed__"

// DefaultToken is the substitution token of the default layouts.
const DefaultToken = "{field}"

// ScenarioState is the input of scenario resolution: a snapshot of the
// fields a predicate may inspect. Selected empty means no manual
// selection. The snapshot is rebuilt for every resolution pass and
// never stored.
type ScenarioState struct {
	IsClosed    bool   // current value is one of the two terminal values
	Selected    string // manually selected stage value, if any
	Current     string // record's live stage value
	Placeholder string // chooser sentinel value
}

// Scenario pairs a predicate with the layout shown when it applies.
// The four values built by DefaultScenarios are shared and never
// mutated.
type Scenario struct {
	Kind    ScenarioKind
	Applies func(ScenarioState) bool
	Layout  ScenarioLayout
}

// DefaultScenarios returns the fixed scenario list in resolution
// priority order. MarkAsComplete and MarkAsCurrent are not mutually
// exclusive by predicate alone; the order decides.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Kind: MarkAsComplete,
			// Open record, nothing selected past the current step.
			Applies: func(st ScenarioState) bool {
				return !st.IsClosed && (st.Selected == "" || st.Selected == st.Current)
			},
			Layout: ScenarioLayout{
				ButtonTextTemplate: "Mark Step as Complete",
				Token:              DefaultToken,
			},
		},
		{
			Kind: MarkAsCurrent,
			// A selection differing from the current step, as long as
			// an open record did not select the chooser sentinel. The
			// selected == current check runs before the open/closed
			// branch.
			Applies: func(st ScenarioState) bool {
				if st.Selected == st.Current {
					return false
				}
				if st.IsClosed {
					return st.Selected != ""
				}
				return st.Selected != "" && st.Selected != st.Placeholder
			},
			Layout: ScenarioLayout{
				ButtonTextTemplate: "Mark as Current {field}",
				Token:              DefaultToken,
			},
		},
		{
			Kind: SelectClosed,
			// Open record with the trailing placeholder selected.
			Applies: func(st ScenarioState) bool {
				return !st.IsClosed && st.Selected == st.Placeholder
			},
			Layout: ScenarioLayout{
				ModalHeaderTemplate: "Select Closed {field}",
				ButtonTextTemplate:  "Select Closed {field}",
				Token:               DefaultToken,
			},
		},
		{
			Kind: ChangeClosed,
			// Closed record, nothing selected past the reached outcome.
			Applies: func(st ScenarioState) bool {
				return st.IsClosed && (st.Selected == "" || st.Selected == st.Current)
			},
			Layout: ScenarioLayout{
				ModalHeaderTemplate: "Change Closed {field}",
				ButtonTextTemplate:  "Change Closed {field}",
				Token:               DefaultToken,
			},
		},
	}
}
