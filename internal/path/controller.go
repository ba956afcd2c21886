package path

import (
	"context"
	"fmt"

	"github.com/mark3labs/pathway/internal/logger"
)

// Phase is the coarse lifecycle state of a Controller.
type Phase int

const (
	// PhaseLoading means metadata is incomplete; no scenario resolves.
	PhaseLoading Phase = iota
	// PhaseReady means steps are loaded and user actions are accepted.
	PhaseReady
	// PhaseCommitting means a field update is in flight.
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// Action reports what a confirm call set in motion, so the caller can
// drive its chooser UI.
type Action int

const (
	// ActionNone means the call was a no-op.
	ActionNone Action = iota
	// ActionCommitStarted means a field update was handed to the sink.
	ActionCommitStarted
	// ActionOpenChooser asks the caller to open the terminal-outcome
	// chooser. Nothing was committed.
	ActionOpenChooser
	// ActionCloseChooser asks the caller to close the chooser; the
	// picked outcome was handed to the sink.
	ActionCloseChooser
)

// Controller owns the path state of a single record: the step list,
// the resolved scenario, the user's transient selections, and the
// commit lifecycle. It is event-loop-bound and not safe for concurrent
// use. One controller per record; a record switch means a fresh
// controller.
type Controller struct {
	cfg      Config
	metadata MetadataProvider
	record   RecordProvider
	sink     PersistenceSink
	resolver *Resolver

	phase          Phase
	steps          []Step
	fieldValue     string
	fieldLabel     string
	scenario       *Scenario
	selectedStep   string
	selectedClosed string
	lastErr        error
}

// NewController builds a controller in the Loading phase. Call Load to
// populate it.
func NewController(cfg Config, metadata MetadataProvider, record RecordProvider, sink PersistenceSink) *Controller {
	return &Controller{
		cfg:      cfg,
		metadata: metadata,
		record:   record,
		sink:     sink,
		resolver: NewResolver(),
	}
}

// Load fetches the record's field value and the field's picklist
// metadata, builds the step list, and resolves the initial scenario.
// A record without its own record type falls back to the object's
// master record type. Validation failures leave the controller in
// Loading with the error recorded; every check runs and the last
// failure's message wins.
func (c *Controller) Load(ctx context.Context) error {
	c.phase = PhaseLoading
	c.scenario = nil
	c.lastErr = nil

	value, recordType, err := c.record.FieldValue(ctx, c.cfg.RecordID, c.cfg.Field)
	if err != nil {
		c.lastErr = fmt.Errorf("%w: %v", ErrMetadataLoad, err)
		logger.Error("Failed to load record %s: %v", c.cfg.RecordID, err)
		return c.lastErr
	}
	c.fieldValue = value

	if recordType == "" {
		recordType, err = c.metadata.MasterRecordType(ctx, c.cfg.Object)
		if err != nil {
			c.lastErr = fmt.Errorf("%w: %v", ErrMetadataLoad, err)
			logger.Error("Failed to resolve master record type for %s: %v", c.cfg.Object, err)
			return c.lastErr
		}
	}

	pick, err := c.metadata.Picklist(ctx, c.cfg.Object, recordType, c.cfg.Field)
	if err != nil {
		c.lastErr = fmt.Errorf("%w: %v", ErrMetadataLoad, err)
		logger.Error("Failed to load picklist %s.%s: %v", c.cfg.Object, c.cfg.Field, err)
		return c.lastErr
	}
	c.fieldLabel = pick.FieldLabel
	c.steps = buildSteps(pick.Entries)

	if err := c.validateSteps(); err != nil {
		c.lastErr = err
		logger.Warn("Path validation failed for %s.%s: %v", c.cfg.Object, c.cfg.Field, err)
		return err
	}

	c.phase = PhaseReady
	c.resolveScenario()
	logger.Debug("Path loaded: record=%s field=%s steps=%d value=%q",
		c.cfg.RecordID, c.cfg.Field, len(c.steps), c.fieldValue)
	return nil
}

// buildSteps turns picklist entries into the ordered step list,
// dropping empty values and duplicates. Index is the position among
// kept entries, so rebuilding from the same payload is index-stable.
func buildSteps(entries []PicklistEntry) []Step {
	steps := make([]Step, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Value == "" || seen[e.Value] {
			continue
		}
		seen[e.Value] = true
		steps = append(steps, Step{Value: e.Value, Label: e.Label, Index: len(steps)})
	}
	return steps
}

// validateSteps checks that both closed values are present and that at
// least one open step remains. Every check runs; the last failure is
// the one returned.
func (c *Controller) validateSteps() error {
	var failed error
	if !c.hasStep(c.cfg.ClosedOk) {
		failed = fmt.Errorf("%w: %q is not a picklist value", ErrMissingValue, c.cfg.ClosedOk)
	}
	if !c.hasStep(c.cfg.ClosedKo) {
		failed = fmt.Errorf("%w: %q is not a picklist value", ErrMissingValue, c.cfg.ClosedKo)
	}
	if len(c.steps) < 3 {
		failed = fmt.Errorf("%w: need both closed values plus one open step, got %d", ErrInsufficientSteps, len(c.steps))
	}
	return failed
}

func (c *Controller) hasStep(value string) bool {
	for _, s := range c.steps {
		if s.Value == value {
			return true
		}
	}
	return false
}

// resolveScenario rebuilds the state snapshot and picks the scenario.
func (c *Controller) resolveScenario() {
	state := ScenarioState{
		IsClosed:    c.IsClosedOk() || c.IsClosedKo(),
		Selected:    c.selectedStep,
		Current:     c.CurrentStep().Value,
		Placeholder: PlaceholderValue,
	}
	if sc, ok := c.resolver.Resolve(state); ok {
		c.scenario = sc
	} else {
		c.scenario = nil
	}
}

// SelectStep records a manual step selection (empty clears it) and
// re-resolves the scenario. Ignored outside Ready.
func (c *Controller) SelectStep(value string) {
	if c.phase != PhaseReady {
		return
	}
	c.selectedStep = value
	c.resolveScenario()
}

// SelectClosedOutcome records the terminal-outcome pick made in the
// chooser. It does not re-resolve the scenario; it only gates
// ConfirmClosedOutcome.
func (c *Controller) SelectClosedOutcome(value string) {
	c.selectedClosed = value
}

// ConfirmPrimaryAction performs the resolved scenario's action. Under
// MarkAsComplete a next step equal to either terminal value is never
// committed directly; the chooser opens instead. No-op without a
// scenario or outside Ready.
func (c *Controller) ConfirmPrimaryAction() Action {
	if c.phase != PhaseReady || c.scenario == nil {
		return ActionNone
	}
	switch c.scenario.Kind {
	case MarkAsComplete:
		next, ok := c.NextStep()
		if !ok {
			return ActionNone
		}
		if next.Equals(c.cfg.ClosedOk) || next.Equals(c.cfg.ClosedKo) {
			return ActionOpenChooser
		}
		c.commit(next.Value)
		return ActionCommitStarted
	case MarkAsCurrent:
		c.commit(c.selectedStep)
		return ActionCommitStarted
	case SelectClosed, ChangeClosed:
		return ActionOpenChooser
	default:
		return ActionNone
	}
}

// ConfirmClosedOutcome commits the picked terminal outcome. No-op when
// nothing was picked or outside Ready.
func (c *Controller) ConfirmClosedOutcome() Action {
	if c.phase != PhaseReady || c.selectedClosed == "" {
		return ActionNone
	}
	c.commit(c.selectedClosed)
	return ActionCloseChooser
}

// commit hands the value to the persistence sink. At most one commit
// is in flight; the phase gate makes a second confirm a no-op.
func (c *Controller) commit(value string) {
	if c.phase != PhaseReady {
		return
	}
	c.phase = PhaseCommitting
	logger.Debug("Committing %s=%q on record %s", c.cfg.Field, value, c.cfg.RecordID)
	c.sink.SaveField(c.cfg.RecordID, c.cfg.Field, value, c.finishCommit)
}

// finishCommit unwinds a commit in both outcomes: transient state
// clears and the controller returns to Loading so the caller refetches
// metadata. A failure additionally surfaces the error.
func (c *Controller) finishCommit(err error) {
	c.fieldValue = ""
	c.selectedStep = ""
	c.selectedClosed = ""
	c.scenario = nil
	c.phase = PhaseLoading
	if err != nil {
		c.lastErr = fmt.Errorf("%w: %v", ErrPersistence, err)
		logger.Error("Field update failed on record %s: %v", c.cfg.RecordID, err)
	}
}

// CurrentStep returns the step matching the record's live field value,
// or the sentinel empty Step when the value is absent or unrecognized.
func (c *Controller) CurrentStep() Step {
	for _, s := range c.steps {
		if s.Value == c.fieldValue {
			return s
		}
	}
	return Step{}
}

// NextStep returns the step immediately after the current one. False
// when the current step is the sentinel or the last step.
func (c *Controller) NextStep() (Step, bool) {
	cur := c.CurrentStep()
	if !cur.HasValue() {
		return Step{}, false
	}
	i := cur.Index + 1
	if i >= len(c.steps) {
		return Step{}, false
	}
	return c.steps[i], true
}

// IsClosedOk reports whether the record sits on the successful
// terminal value.
func (c *Controller) IsClosedOk() bool {
	return c.CurrentStep().Equals(c.cfg.ClosedOk)
}

// IsClosedKo reports whether the record sits on the unsuccessful
// terminal value.
func (c *Controller) IsClosedKo() bool {
	return c.CurrentStep().Equals(c.cfg.ClosedKo)
}

// ButtonText returns the action button label of the resolved scenario,
// rendered with the field label. Empty without a scenario.
func (c *Controller) ButtonText() string {
	if c.scenario == nil {
		return ""
	}
	_, button := c.scenario.Layout.Render(c.fieldLabel)
	return button
}

// ModalHeader returns the chooser header of the resolved scenario,
// rendered with the field label. Empty without a scenario.
func (c *Controller) ModalHeader() string {
	if c.scenario == nil {
		return ""
	}
	header, _ := c.scenario.Layout.Render(c.fieldLabel)
	return header
}

// Phase returns the controller's lifecycle phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Err returns the most recently surfaced error, nil when none.
func (c *Controller) Err() error {
	return c.lastErr
}

// Config returns the binding the controller was built with.
func (c *Controller) Config() Config {
	return c.cfg
}

// Steps returns the loaded step list in picklist order.
func (c *Controller) Steps() []Step {
	return c.steps
}

// FieldLabel returns the display label of the tracked field.
func (c *Controller) FieldLabel() string {
	return c.fieldLabel
}

// FieldValue returns the record's live value of the tracked field.
func (c *Controller) FieldValue() string {
	return c.fieldValue
}

// SelectedStep returns the manually selected stage value, empty when
// none.
func (c *Controller) SelectedStep() string {
	return c.selectedStep
}

// SelectedClosed returns the picked terminal outcome, empty when none.
func (c *Controller) SelectedClosed() string {
	return c.selectedClosed
}

// Scenario returns the resolved scenario, false when none applies.
func (c *Controller) Scenario() (*Scenario, bool) {
	return c.scenario, c.scenario != nil
}
