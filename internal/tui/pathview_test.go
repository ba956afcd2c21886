package tui

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/pathway/internal/path"
	"github.com/mark3labs/pathway/internal/record"
	"github.com/mark3labs/pathway/internal/tui/testfixtures"
)

type sinkCall struct {
	recordID string
	field    string
	value    string
}

// testSink records commits and completes them synchronously.
type testSink struct {
	calls []sinkCall
	err   error
}

func (s *testSink) SaveField(recordID, field, value string, done func(error)) {
	s.calls = append(s.calls, sinkCall{recordID, field, value})
	done(s.err)
}

// newTestController loads a controller for recordID over the fixture
// catalog and set.
func newTestController(t *testing.T, set *record.Set, recordID string) (*path.Controller, *testSink) {
	t.Helper()
	catalog := testfixtures.Catalog()
	cfg, err := catalog.PathConfig(testfixtures.FixedObject, recordID)
	if err != nil {
		t.Fatalf("PathConfig failed: %v", err)
	}
	sink := &testSink{}
	c := path.NewController(cfg, catalog, record.NewProvider(set), sink)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c, sink
}

// newBoundPathView builds a path view bound to recordID.
func newBoundPathView(t *testing.T, set *record.Set, recordID string) (*PathView, *path.Controller, *testSink) {
	t.Helper()
	c, sink := newTestController(t, set, recordID)
	v := NewPathView()
	v.SetController(c)
	v.SetRecord(set.Records[recordID])
	return v, c, sink
}

// collectMsg runs a command and returns the message it produces.
func collectMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected a command, got nil")
	}
	return cmd()
}

func TestPathViewMoveSelection(t *testing.T) {
	// acme-renewal is a renewal sitting on negotiation; its rendered
	// sequence is proposal, negotiation, then the chooser placeholder.
	v, c, _ := newBoundPathView(t, testfixtures.SetWithRecords(), "acme-renewal")

	v.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if c.SelectedStep() != path.PlaceholderValue {
		t.Errorf("SelectedStep = %q, want the placeholder after moving right from current", c.SelectedStep())
	}

	// Selection clamps at the right edge
	v.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if c.SelectedStep() != path.PlaceholderValue {
		t.Errorf("SelectedStep = %q, want placeholder to hold at the edge", c.SelectedStep())
	}

	v.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if c.SelectedStep() != "negotiation" {
		t.Errorf("SelectedStep = %q, want negotiation", c.SelectedStep())
	}

	v.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if c.SelectedStep() != "proposal" {
		t.Errorf("SelectedStep = %q, want proposal", c.SelectedStep())
	}

	sc, ok := c.Scenario()
	if !ok || sc.Kind != path.MarkAsCurrent {
		t.Errorf("Scenario after selecting an earlier stage = %v, want MarkAsCurrent", sc)
	}
}

func TestPathViewVimKeys(t *testing.T) {
	v, c, _ := newBoundPathView(t, testfixtures.SetWithRecords(), "acme-renewal")

	v.Update(tea.KeyPressMsg{Text: "l"})
	if c.SelectedStep() != path.PlaceholderValue {
		t.Errorf("SelectedStep after l = %q, want placeholder", c.SelectedStep())
	}
	v.Update(tea.KeyPressMsg{Text: "h"})
	if c.SelectedStep() != "negotiation" {
		t.Errorf("SelectedStep after h = %q, want negotiation", c.SelectedStep())
	}
}

func TestPathViewEscClearsSelection(t *testing.T) {
	v, c, _ := newBoundPathView(t, testfixtures.SetWithRecords(), "acme-renewal")

	v.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if c.SelectedStep() == "" {
		t.Fatal("Expected a selection before esc")
	}

	v.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if c.SelectedStep() != "" {
		t.Errorf("SelectedStep = %q, want empty after esc", c.SelectedStep())
	}

	sc, ok := c.Scenario()
	if !ok || sc.Kind != path.MarkAsComplete {
		t.Errorf("Scenario after esc = %v, want MarkAsComplete", sc)
	}
}

func TestPathViewEnterOpensChooserAtTerminal(t *testing.T) {
	// negotiation is the last open stage of a renewal, so completing it
	// must go through the closed-outcome chooser, never a direct commit.
	v, _, sink := newBoundPathView(t, testfixtures.SetWithRecords(), "acme-renewal")

	cmd := v.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg := collectMsg(t, cmd)
	if _, ok := msg.(OpenChooserMsg); !ok {
		t.Fatalf("Enter produced %T, want OpenChooserMsg", msg)
	}
	if len(sink.calls) != 0 {
		t.Errorf("Sink received %d commits, want none before an outcome is picked", len(sink.calls))
	}
}

func TestPathViewEnterCommitsNextStage(t *testing.T) {
	// globex-expansion uses the master record type and sits on
	// qualification, so enter advances it to needs_analysis directly.
	v, _, sink := newBoundPathView(t, testfixtures.SetWithRecords(), "globex-expansion")

	cmd := v.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg := collectMsg(t, cmd)
	if _, ok := msg.(CommitStartedMsg); !ok {
		t.Fatalf("Enter produced %T, want CommitStartedMsg", msg)
	}

	if len(sink.calls) != 1 {
		t.Fatalf("Sink received %d commits, want 1", len(sink.calls))
	}
	got := sink.calls[0]
	if got.recordID != "globex-expansion" || got.field != "stage" || got.value != "needs_analysis" {
		t.Errorf("Committed %+v, want globex-expansion stage=needs_analysis", got)
	}
}

func TestPathViewDetailsKey(t *testing.T) {
	v, _, _ := newBoundPathView(t, testfixtures.SetWithRecords(), "acme-renewal")

	cmd := v.Update(tea.KeyPressMsg{Text: "d"})
	msg := collectMsg(t, cmd)
	if _, ok := msg.(OpenDetailsMsg); !ok {
		t.Fatalf("d produced %T, want OpenDetailsMsg", msg)
	}

	// Without a bound record there is nothing to show
	v.SetRecord(nil)
	if cmd := v.Update(tea.KeyPressMsg{Text: "d"}); cmd != nil {
		t.Error("d should be a no-op without a record")
	}
}

func TestPathViewKeysIgnoredWithoutController(t *testing.T) {
	v := NewPathView()
	if cmd := v.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("Enter should be a no-op without a controller")
	}
	if cmd := v.Update(tea.KeyPressMsg{Code: tea.KeyRight}); cmd != nil {
		t.Error("Right should be a no-op without a controller")
	}
}

func TestPathViewSpinnerLifecycle(t *testing.T) {
	catalog := testfixtures.Catalog()
	cfg, err := catalog.PathConfig(testfixtures.FixedObject, "acme-renewal")
	if err != nil {
		t.Fatalf("PathConfig failed: %v", err)
	}

	// Unloaded controller sits in the loading phase
	c := path.NewController(cfg, catalog, record.NewProvider(testfixtures.SetWithRecords()), &testSink{})
	v := NewPathView()
	v.SetController(c)

	if cmd := v.EnsureSpinner(); cmd == nil {
		t.Fatal("EnsureSpinner should start the tick chain while loading")
	}
	if cmd := v.EnsureSpinner(); cmd != nil {
		t.Error("EnsureSpinner should not start a second chain")
	}

	// Once loaded, the tick chain dies on the next tick
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cmd := v.Update(GradientSpinnerMsg{}); cmd != nil {
		t.Error("Spinner tick should stop once the controller is ready")
	}

	if cmd := v.EnsureSpinner(); cmd != nil {
		t.Error("EnsureSpinner should be a no-op while ready")
	}
}

func TestPathViewDrawEmptyState(t *testing.T) {
	v := NewPathView()
	out := testfixtures.RenderComponent(80, 20, func(scr uv.Screen, area uv.Rectangle) {
		v.Draw(scr, area)
	})

	if !strings.Contains(out, "No record selected") {
		t.Error("Empty path view should show the unbound placeholder")
	}
}

func TestPathViewDrawReady(t *testing.T) {
	v, _, _ := newBoundPathView(t, testfixtures.SetWithRecords(), "acme-renewal")
	out := testfixtures.RenderComponent(80, 20, func(scr uv.Screen, area uv.Rectangle) {
		v.Draw(scr, area)
	})

	for _, want := range []string{
		"Acme Renewal",
		"Proposal",
		"Negotiation",
		"Closed",
		"Stage:",
		"Mark Step as Complete",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered path view missing %q", want)
		}
	}
}

func TestPathViewDrawClosedWon(t *testing.T) {
	v, c, _ := newBoundPathView(t, testfixtures.ClosedWonSet(), "initech-renewal")

	if !c.IsClosedOk() {
		t.Fatal("Fixture record should sit on closed_won")
	}

	out := testfixtures.RenderComponent(80, 20, func(scr uv.Screen, area uv.Rectangle) {
		v.Draw(scr, area)
	})

	if !strings.Contains(out, "Closed Won") {
		t.Error("Closed record should render the reached outcome as its terminal stage")
	}
	if !strings.Contains(out, "Change Closed Stage") {
		t.Error("Closed record should offer the change-closed action")
	}
}
