package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/pathway/internal/record"
	"github.com/mark3labs/pathway/internal/state"
	"github.com/mark3labs/pathway/internal/tui/testfixtures"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	return newTestAppWithConfig(t, AppConfig{
		Catalog: testfixtures.Catalog(),
		Object:  testfixtures.FixedObject,
		DataDir: t.TempDir(),
		MCPURL:  "http://localhost:8790/mcp",
	})
}

func newTestAppWithConfig(t *testing.T, cfg AppConfig) *App {
	t.Helper()
	app := NewApp(context.Background(), cfg)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

// loadRecords feeds the app the state snapshot Init would normally fetch.
// Returned commands stay unexecuted; they re-arm background waits.
func loadRecords(app *App, set *record.Set) {
	app.Update(StateUpdateMsg{Set: set})
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)

	if app.header == nil || app.footer == nil || app.status == nil {
		t.Fatal("Chrome components should be initialized")
	}
	if app.pathView == nil || app.recordsView == nil || app.activity == nil {
		t.Fatal("View components should be initialized")
	}
	if app.chooser == nil || app.details == nil || app.newRecord == nil || app.dialog == nil {
		t.Fatal("Modal components should be initialized")
	}
	if app.activeView != ViewPath {
		t.Errorf("Default view: got %v, want %v", app.activeView, ViewPath)
	}
	if app.boundID != "" {
		t.Errorf("No record should be bound before the first state load, got %q", app.boundID)
	}
	if app.controller != nil {
		t.Error("Controller should be nil before the first state load")
	}
}

func TestApp_WindowSize(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	app = model.(*App)

	if app.width != 100 || app.height != 30 {
		t.Errorf("Size: got %dx%d, want 100x30", app.width, app.height)
	}
	if app.layoutDirty {
		t.Error("Layout should be clean after a size message")
	}
	if app.layout.Main.Dx() <= 0 || app.layout.Main.Dy() <= 0 {
		t.Errorf("Main area should be positive, got %v", app.layout.Main)
	}
}

func TestApp_StateUpdateBindsFirstRecord(t *testing.T) {
	app := newTestApp(t)

	loadRecords(app, testfixtures.SetWithRecords())

	if app.boundID != testfixtures.FixedRecordID {
		t.Fatalf("Bound record: got %q, want %q", app.boundID, testfixtures.FixedRecordID)
	}
	if app.controller == nil {
		t.Fatal("Controller should be bound after the state load")
	}
	if got := len(app.recordsView.records); got != 2 {
		t.Errorf("Records view rows: got %d, want 2", got)
	}
}

func TestApp_StateUpdateHonorsConfiguredRecord(t *testing.T) {
	app := newTestAppWithConfig(t, AppConfig{
		Catalog:  testfixtures.Catalog(),
		Object:   testfixtures.FixedObject,
		RecordID: "globex-expansion",
		DataDir:  t.TempDir(),
	})

	loadRecords(app, testfixtures.SetWithRecords())

	if app.boundID != "globex-expansion" {
		t.Errorf("Bound record: got %q, want globex-expansion", app.boundID)
	}
	if got := app.uiState.LastRecord(testfixtures.FixedObject); got != "globex-expansion" {
		t.Errorf("Last record: got %q, want globex-expansion", got)
	}
}

func TestApp_StateUpdateRestoresLastSession(t *testing.T) {
	dataDir := t.TempDir()
	saved := &state.UIState{
		ActiveView:  "records",
		LastRecords: map[string]string{testfixtures.FixedObject: "globex-expansion"},
	}
	if err := state.Save(dataDir, saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	app := newTestAppWithConfig(t, AppConfig{
		Catalog: testfixtures.Catalog(),
		Object:  testfixtures.FixedObject,
		DataDir: dataDir,
	})

	if app.activeView != ViewRecords {
		t.Errorf("Restored view: got %v, want %v", app.activeView, ViewRecords)
	}

	loadRecords(app, testfixtures.SetWithRecords())

	if app.boundID != "globex-expansion" {
		t.Errorf("Restored binding: got %q, want globex-expansion", app.boundID)
	}
}

func TestApp_StateUpdateError(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(StateUpdateMsg{Err: errors.New("stream offline")})

	if cmd == nil {
		t.Fatal("Error update should return a toast command")
	}
	if !app.toast.IsVisible() {
		t.Fatal("Toast should be visible after a failed load")
	}
	if got := app.toast.GetMessage(); got != "Failed to load records" {
		t.Errorf("Toast message: got %q", got)
	}
	if app.boundID != "" {
		t.Errorf("Failed load must not bind a record, got %q", app.boundID)
	}
}

func TestApp_ViewSwitchKeys(t *testing.T) {
	dataDir := t.TempDir()
	app := newTestAppWithConfig(t, AppConfig{
		Catalog: testfixtures.Catalog(),
		Object:  testfixtures.FixedObject,
		DataDir: dataDir,
	})
	loadRecords(app, testfixtures.SetWithRecords())

	app.handleKeyPress(tea.KeyPressMsg{Text: "2"})
	if app.activeView != ViewRecords {
		t.Fatalf("After 2: got %v, want %v", app.activeView, ViewRecords)
	}
	if !app.recordsView.focused {
		t.Error("Records view should take focus")
	}
	if app.pathView.IsFocused() {
		t.Error("Path view should lose focus")
	}

	app.handleKeyPress(tea.KeyPressMsg{Text: "3"})
	if app.activeView != ViewActivity {
		t.Fatalf("After 3: got %v, want %v", app.activeView, ViewActivity)
	}
	if !app.activity.focused {
		t.Error("Activity view should take focus")
	}

	app.handleKeyPress(tea.KeyPressMsg{Text: "1"})
	if app.activeView != ViewPath {
		t.Fatalf("After 1: got %v, want %v", app.activeView, ViewPath)
	}

	// The switch persists for the next session
	if got := state.Load(dataDir).ActiveView; got != "path" {
		t.Errorf("Persisted view: got %q, want path", got)
	}
}

func TestApp_NumberKeysBypassedWhileFiltering(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.handleKeyPress(tea.KeyPressMsg{Text: "2"})
	app.handleKeyPress(tea.KeyPressMsg{Text: "/"})
	if !app.recordsView.IsFiltering() {
		t.Fatal("Filter should be active after /")
	}

	app.handleKeyPress(tea.KeyPressMsg{Text: "1"})
	if app.activeView != ViewRecords {
		t.Errorf("Number keys must feed the filter, view switched to %v", app.activeView)
	}

	app.handleKeyPress(tea.KeyPressMsg{Code: tea.KeyEscape})
	if app.recordsView.IsFiltering() {
		t.Fatal("Escape should leave filter mode")
	}

	app.handleKeyPress(tea.KeyPressMsg{Text: "1"})
	if app.activeView != ViewPath {
		t.Errorf("After filter exit, 1 should switch views, got %v", app.activeView)
	}
}

func TestApp_EventAddsRecord(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	evt := testfixtures.CreatedEvent(90, "new-deal", "New Deal", "standard", testfixtures.FixedTime.Add(time.Hour))
	app.Update(EventMsg{Event: evt})

	if _, ok := app.provider.Record("new-deal"); !ok {
		t.Fatal("Provider should hold the new record")
	}
	if got := len(app.recordsView.records); got != 3 {
		t.Errorf("Records view rows: got %d, want 3", got)
	}
	// The binding stays with the original record
	if app.boundID != testfixtures.FixedRecordID {
		t.Errorf("Bound record: got %q, want %q", app.boundID, testfixtures.FixedRecordID)
	}
}

func TestApp_EventReloadsBoundPath(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	if app.controller.IsClosedOk() {
		t.Fatal("Record should start open")
	}

	evt := testfixtures.FieldEvent(91, testfixtures.FixedRecordID, "stage", "closed_won", testfixtures.FixedTime.Add(time.Hour))
	app.Update(EventMsg{Event: evt})

	if !app.controller.IsClosedOk() {
		t.Error("Path should reload and land on the won stage")
	}
}

func TestApp_PendingBindFlow(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())
	app.handleKeyPress(tea.KeyPressMsg{Text: "2"})

	app.Update(RecordCreatedMsg{Record: &record.Record{ID: "fresh-deal"}})
	if app.pendingBind != "fresh-deal" {
		t.Fatalf("Pending bind: got %q, want fresh-deal", app.pendingBind)
	}
	if !app.toast.IsVisible() || app.toast.GetMessage() != "Record created" {
		t.Errorf("Toast after create: visible=%v message=%q", app.toast.IsVisible(), app.toast.GetMessage())
	}
	// Still bound to the old record until the creation event round-trips
	if app.boundID != testfixtures.FixedRecordID {
		t.Fatalf("Bound record: got %q, want %q", app.boundID, testfixtures.FixedRecordID)
	}

	evt := testfixtures.CreatedEvent(92, "fresh-deal", "Fresh Deal", "standard", testfixtures.FixedTime.Add(time.Hour))
	app.Update(EventMsg{Event: evt})

	if app.boundID != "fresh-deal" {
		t.Errorf("Bound record: got %q, want fresh-deal", app.boundID)
	}
	if app.pendingBind != "" {
		t.Errorf("Pending bind should clear, got %q", app.pendingBind)
	}
	if app.activeView != ViewPath {
		t.Errorf("Binding should jump to the path view, got %v", app.activeView)
	}
}

func TestApp_RecordCreatedError(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.Update(RecordCreatedMsg{Err: errors.New("duplicate name")})

	if app.pendingBind != "" {
		t.Errorf("Failed create must not park a bind, got %q", app.pendingBind)
	}
	if got := app.toast.GetMessage(); !strings.Contains(got, "duplicate name") {
		t.Errorf("Toast message: got %q, want the create error", got)
	}
}

func TestApp_CommitLifecycle(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.Update(CommitStartedMsg{})
	if !app.status.busy {
		t.Fatal("Status should be busy while a commit is in flight")
	}
	if app.status.busyLabel != "saving" {
		t.Errorf("Busy label: got %q, want saving", app.status.busyLabel)
	}

	app.Update(CommitResultMsg{RecordID: testfixtures.FixedRecordID, Field: "stage", Value: "closed_won"})
	if app.status.busy {
		t.Error("Status should go idle once the commit lands")
	}
	if app.toast.IsVisible() {
		t.Error("Successful commit should not raise a toast")
	}
}

func TestApp_CommitResultError(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.Update(CommitStartedMsg{})
	app.Update(CommitResultMsg{Err: errors.New("publish timeout")})

	if app.status.busy {
		t.Error("Status should go idle even when the commit fails")
	}
	if !app.toast.IsVisible() {
		t.Fatal("Failed commit should raise a toast")
	}
	if got := app.toast.GetMessage(); got != "Failed to save stage" {
		t.Errorf("Toast message: got %q", got)
	}
}

func TestApp_OpenChooser(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.Update(OpenChooserMsg{})

	if !app.chooser.IsVisible() {
		t.Fatal("Chooser should open for a bound path")
	}
	opts := app.chooser.options
	if len(opts) != 2 {
		t.Fatalf("Chooser options: got %d, want 2", len(opts))
	}
	if !opts[0].Won || opts[0].Value != "closed_won" {
		t.Errorf("First option should be the won stage, got %+v", opts[0])
	}
	if opts[1].Won || opts[1].Value != "closed_lost" {
		t.Errorf("Second option should be the lost stage, got %+v", opts[1])
	}

	app.Update(ChooserCancelMsg{})
	if app.chooser.IsVisible() {
		t.Error("Cancel should close the chooser")
	}
}

func TestApp_ChooserConfirmWithoutController(t *testing.T) {
	app := newTestApp(t)

	// No records loaded, so nothing is bound
	_, cmd := app.Update(ChooserConfirmMsg{Value: "closed_won"})

	if cmd != nil {
		t.Error("Confirm without a bound path should be inert")
	}
	if app.chooser.IsVisible() {
		t.Error("Chooser should still close")
	}
}

func TestApp_OpenChooserWithoutController(t *testing.T) {
	app := newTestApp(t)

	app.Update(OpenChooserMsg{})

	if app.chooser.IsVisible() {
		t.Error("Chooser should not open with nothing bound")
	}
}

func TestApp_DetailsTakeKeyPriority(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.Update(OpenDetailsMsg{})
	if !app.details.IsVisible() {
		t.Fatal("Details should open for the bound record")
	}
	if got := app.details.rec.ID; got != testfixtures.FixedRecordID {
		t.Errorf("Details record: got %q, want %q", got, testfixtures.FixedRecordID)
	}

	// q closes the modal instead of opening the quit dialog
	app.handleKeyPress(tea.KeyPressMsg{Text: "q"})
	if app.details.IsVisible() {
		t.Fatal("q should close the details modal")
	}
	if app.dialog.IsVisible() {
		t.Fatal("Quit dialog must not open while a modal eats the key")
	}

	app.handleKeyPress(tea.KeyPressMsg{Text: "q"})
	if !app.dialog.IsVisible() {
		t.Error("With no modal open, q should raise the quit dialog")
	}
}

func TestApp_QuitDialog(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.handleKeyPress(tea.KeyPressMsg{Text: "q"})
	if !app.dialog.IsVisible() {
		t.Fatal("q should open the quit dialog")
	}

	// Escape dismisses without quitting
	app.handleKeyPress(tea.KeyPressMsg{Code: tea.KeyEscape})
	if app.dialog.IsVisible() {
		t.Fatal("Escape should dismiss the dialog")
	}
	if app.quitting {
		t.Fatal("Dismissing the dialog must not quit")
	}

	// Confirming quits
	app.handleKeyPress(tea.KeyPressMsg{Text: "q"})
	_, cmd := app.handleKeyPress(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !app.quitting {
		t.Fatal("Confirming the dialog should quit")
	}
	if cmd == nil {
		t.Fatal("Confirm should return the quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Expected tea.QuitMsg, got %T", cmd())
	}
}

func TestApp_HelpDialog(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.handleKeyPress(tea.KeyPressMsg{Text: "?"})
	if !app.dialog.IsVisible() {
		t.Fatal("? should open the help dialog")
	}

	_, cmd := app.handleKeyPress(tea.KeyPressMsg{Code: tea.KeyEnter})
	if app.dialog.IsVisible() {
		t.Error("Enter should close the help dialog")
	}
	if app.quitting {
		t.Error("Closing help must not quit")
	}
	if cmd != nil {
		t.Error("Help dialog has no close action")
	}
}

func TestApp_CtrlCQuitsThroughModals(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.Update(OpenNewRecordMsg{})
	if !app.newRecord.IsVisible() {
		t.Fatal("New record modal should be open")
	}

	_, cmd := app.handleKeyPress(tea.KeyPressMsg{Text: "ctrl+c"})
	if !app.quitting {
		t.Fatal("ctrl+c should quit even with a modal open")
	}
	if cmd == nil {
		t.Fatal("ctrl+c should return the quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Expected tea.QuitMsg, got %T", cmd())
	}
}

func TestApp_SwitchRecordRebinds(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())
	app.handleKeyPress(tea.KeyPressMsg{Text: "2"})

	app.Update(SwitchRecordMsg{ID: "globex-expansion"})

	if app.boundID != "globex-expansion" {
		t.Errorf("Bound record: got %q, want globex-expansion", app.boundID)
	}
	if app.activeView != ViewPath {
		t.Errorf("Switching should jump to the path view, got %v", app.activeView)
	}
	if got := app.uiState.LastRecord(testfixtures.FixedObject); got != "globex-expansion" {
		t.Errorf("Last record: got %q, want globex-expansion", got)
	}
	if app.controller == nil {
		t.Fatal("Controller should rebind to the new record")
	}
}

func TestApp_DescriptionSaved(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.Update(DescriptionSavedMsg{})
	if got := app.toast.GetMessage(); got != "Description saved" {
		t.Errorf("Toast message: got %q", got)
	}

	app.Update(DescriptionSavedMsg{Err: errors.New("disk full")})
	if got := app.toast.GetMessage(); got != "Failed to save description" {
		t.Errorf("Toast message: got %q", got)
	}
}

func TestApp_ShowToast(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(ShowToastMsg{Text: "Copied"})
	if cmd == nil {
		t.Fatal("Toast should schedule its dismissal")
	}
	if got := app.toast.GetMessage(); got != "Copied" {
		t.Errorf("Toast message: got %q", got)
	}
}

func TestApp_ConnectionStatus(t *testing.T) {
	app := newTestApp(t)

	app.Update(ConnectionStatusMsg{Connected: true})
	if !app.status.connected {
		t.Error("Status bar should show connected")
	}

	app.Update(ConnectionStatusMsg{Connected: false})
	if app.status.connected {
		t.Error("Status bar should show disconnected")
	}
}

func TestApp_PasteRoutesToNewRecordModal(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	app.Update(OpenNewRecordMsg{})
	app.Update(tea.PasteMsg{Content: "Pasted Deal"})

	if got := app.newRecord.name.Value(); got != "Pasted Deal" {
		t.Errorf("Name after paste: got %q, want %q", got, "Pasted Deal")
	}
}

func TestApp_DrawFullScreen(t *testing.T) {
	app := newTestApp(t)
	loadRecords(app, testfixtures.SetWithRecords())

	canvas := uv.NewScreenBuffer(120, 40)
	app.Draw(canvas, uv.Rect(0, 0, 120, 40))
	output := canvas.Render()

	if !strings.Contains(output, "pathway") {
		t.Error("Header brand missing")
	}
	if !strings.Contains(output, "Acme Renewal") {
		t.Error("Bound record name missing")
	}
	if !strings.Contains(output, "[1]") {
		t.Error("Footer shortcuts missing")
	}
	if !strings.Contains(output, "disconnected") {
		t.Error("Status bar should show the initial connection state")
	}
}
