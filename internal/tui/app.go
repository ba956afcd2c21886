package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	natsgo "github.com/nats-io/nats.go"

	"github.com/mark3labs/pathway/internal/logger"
	"github.com/mark3labs/pathway/internal/nats"
	"github.com/mark3labs/pathway/internal/path"
	"github.com/mark3labs/pathway/internal/record"
	"github.com/mark3labs/pathway/internal/schema"
	"github.com/mark3labs/pathway/internal/state"
	"github.com/mark3labs/pathway/internal/tui/theme"
)

// ViewType identifies which main view fills the content area.
type ViewType int

const (
	// ViewPath shows the progress path for the bound record.
	ViewPath ViewType = iota
	// ViewRecords lists all records of the bound object.
	ViewRecords
	// ViewActivity shows the event feed.
	ViewActivity
)

// String returns the name used when persisting the active view.
func (v ViewType) String() string {
	switch v {
	case ViewRecords:
		return "records"
	case ViewActivity:
		return "activity"
	default:
		return "path"
	}
}

// viewTypeFromString maps a persisted view name back to a ViewType.
// Unknown names fall back to the path view.
func viewTypeFromString(s string) ViewType {
	switch s {
	case "records":
		return ViewRecords
	case "activity":
		return ViewActivity
	default:
		return ViewPath
	}
}

// AppConfig carries the dependencies the TUI receives from the orchestrator.
type AppConfig struct {
	Catalog  *schema.Catalog
	Store    *record.Store
	Object   string
	RecordID string
	DataDir  string
	NC       *natsgo.Conn
	MCPURL   string
}

// App is the main TUI application model.
type App struct {
	// Components
	header      *Header
	footer      *Footer
	status      *StatusBar
	pathView    *PathView
	recordsView *RecordsView
	activity    *ActivityView
	chooser     *ChooserModal
	details     *DetailsModal
	newRecord   *RecordInputModal
	dialog      *Dialog
	toast       *Toast

	// Layout
	layout      Layout
	layoutDirty bool

	// Domain state
	activeView  ViewType
	catalog     *schema.Catalog
	object      *schema.Object
	objectName  string
	provider    *record.Provider
	controller  *path.Controller
	sink        *loopSink
	boundID     string
	pendingBind string // record waiting to be bound once its creation event lands
	uiState     *state.UIState

	// Infrastructure
	store     *record.Store
	dataDir   string
	nc        *natsgo.Conn
	mcpURL    string
	ctx       context.Context
	width     int
	height    int
	quitting  bool
	eventChan chan record.Event
}

// NewApp creates the main application model. Records load asynchronously
// from Init; until then the path view shows its loading state.
func NewApp(ctx context.Context, cfg AppConfig) *App {
	uiState := state.Load(cfg.DataDir)
	obj, _ := cfg.Catalog.Object(cfg.Object)

	a := &App{
		header:      NewHeader(),
		footer:      NewFooter(),
		status:      NewStatusBar(),
		pathView:    NewPathView(),
		recordsView: NewRecordsView(),
		activity:    NewActivityView(),
		chooser:     NewChooserModal(),
		details:     NewDetailsModal(),
		newRecord:   NewRecordInputModal(),
		dialog:      NewDialog(),
		toast:       NewToast(),
		layoutDirty: true,
		activeView:  viewTypeFromString(uiState.ActiveView),
		catalog:     cfg.Catalog,
		object:      obj,
		objectName:  cfg.Object,
		provider:    record.NewProvider(nil),
		sink:        newLoopSink(cfg.Store),
		boundID:     cfg.RecordID,
		uiState:     uiState,
		store:       cfg.Store,
		dataDir:     cfg.DataDir,
		nc:          cfg.NC,
		mcpURL:      cfg.MCPURL,
		ctx:         ctx,
		eventChan:   make(chan record.Event, 1000),
	}

	a.header.SetBinding(a.objectLabel(), "")
	a.header.SetMCPURL(cfg.MCPURL)
	a.footer.SetActiveView(a.activeView)
	a.recordsView.SetStageBadge(a.stageBadge)
	a.setFocus()
	a.updateHints()

	return a
}

// Init starts background event processing and the initial state load.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.subscribeToEvents(),
		a.waitForEvents(),
		a.waitForCommits(),
		a.loadInitialState(),
		a.checkConnectionHealth(),
	)
}

// Update handles all incoming messages and routes them to components.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return a.handleKeyPress(msg)

	case tea.PasteMsg:
		return a.handlePaste(msg)

	case tea.MouseClickMsg:
		return a.handleMouse(msg)

	case tea.MouseWheelMsg:
		return a.handleMouseWheel(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = CalculateLayout(msg.Width, msg.Height)
		a.propagateSizes()
		a.layoutDirty = false
		return a, nil

	case StateUpdateMsg:
		if msg.Err != nil {
			logger.Warn("failed to load records: %v", msg.Err)
			return a, a.toast.ShowError("Failed to load records")
		}
		a.provider.Replace(msg.Set)
		a.refreshComponents()
		return a, a.pathView.EnsureSpinner()

	case EventMsg:
		a.provider.Apply(msg.Event)

		// A record created from the TUI binds once its event round-trips
		if a.pendingBind != "" && msg.Event.Record == a.pendingBind {
			if _, ok := a.provider.Record(a.pendingBind); ok {
				a.bindRecord(a.pendingBind)
				a.pendingBind = ""
				a.setActiveView(ViewPath)
			}
		}

		// Reload the path when the bound record changes under it, unless a
		// commit is in flight; the commit result triggers its own reload.
		if msg.Event.Record == a.boundID && a.controller != nil && a.controller.Phase() != path.PhaseCommitting {
			if err := a.controller.Load(a.ctx); err != nil {
				logger.Warn("failed to reload path: %v", err)
			}
		}

		a.refreshComponents()
		return a, tea.Batch(a.waitForEvents(), a.pathView.EnsureSpinner())

	case CommitStartedMsg:
		a.status.SetBusy(true, "saving")
		a.updateHints()
		return a, a.status.Update(msg)

	case CommitResultMsg:
		a.sink.deliver(msg.Err)
		a.status.SetBusy(false, "")
		a.refreshComponents()
		cmds := []tea.Cmd{a.loadInitialState(), a.waitForCommits(), a.pathView.EnsureSpinner()}
		if msg.Err != nil {
			cmds = append(cmds, a.toast.ShowError("Failed to save stage"))
		}
		return a, tea.Batch(cmds...)

	case ConnectionStatusMsg:
		a.status.SetConnectionStatus(msg.Connected)
		return a, a.checkConnectionHealth()

	case OpenChooserMsg:
		if a.controller != nil {
			a.chooser.Show(a.controller.ModalHeader(), a.chooserOptions())
			a.updateHints()
		}
		return a, nil

	case ChooserConfirmMsg:
		a.chooser.Close()
		var cmd tea.Cmd
		if a.controller != nil {
			a.controller.SelectClosedOutcome(msg.Value)
			if a.controller.ConfirmClosedOutcome() == path.ActionCloseChooser {
				cmd = func() tea.Msg { return CommitStartedMsg{} }
			}
		}
		a.updateHints()
		return a, cmd

	case ChooserCancelMsg:
		a.chooser.Close()
		a.updateHints()
		return a, nil

	case OpenDetailsMsg:
		if rec, ok := a.provider.Record(a.boundID); ok {
			a.details.Show(rec)
			a.updateHints()
		}
		return a, nil

	case DescriptionEditedMsg:
		a.details.HandleEdited(msg)
		return a, a.saveDescription(msg.RecordID, msg.Content)

	case DescriptionSavedMsg:
		if msg.Err != nil {
			logger.Warn("failed to save description: %v", msg.Err)
			return a, a.toast.ShowError("Failed to save description")
		}
		return a, a.toast.Show("Description saved")

	case SwitchRecordMsg:
		if msg.ID != a.boundID {
			a.bindRecord(msg.ID)
			a.refreshComponents()
		}
		a.setActiveView(ViewPath)
		return a, a.pathView.EnsureSpinner()

	case OpenNewRecordMsg:
		a.newRecord.Show()
		a.updateHints()
		return a, nil

	case CreateRecordMsg:
		return a, a.createRecord(msg)

	case RecordCreatedMsg:
		if msg.Err != nil {
			logger.Warn("failed to create record: %v", msg.Err)
			return a, a.toast.ShowError(fmt.Sprintf("Create failed: %v", msg.Err))
		}
		a.pendingBind = msg.Record.ID
		return a, a.toast.Show("Record created")

	case ShowToastMsg:
		if msg.Error {
			return a, a.toast.ShowError(msg.Text)
		}
		return a, a.toast.Show(msg.Text)
	}

	// Everything else (spinner ticks, cursor blink, toast dismiss) goes to
	// the components that animate.
	return a, tea.Batch(
		a.status.Update(msg),
		a.pathView.Update(msg),
		a.recordsView.Update(msg),
		a.newRecord.Update(msg),
		a.details.Update(msg),
		a.toast.Update(msg),
	)
}

// handleKeyPress processes keyboard input with hierarchical priority.
// Priority: Global Keys (ctrl+c) -> Dialog -> Chooser -> Details -> New Record -> View keys
func (a *App) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	// 1. Global keys always work
	if cmd := a.handleGlobalKeys(msg); cmd != nil {
		return a, cmd
	}

	// 2. Dialog consumes all keys when visible
	if a.dialog.IsVisible() {
		cmd := a.dialog.Update(msg)
		a.updateHints()
		return a, cmd
	}

	// 3. Chooser modal
	if a.chooser.IsVisible() {
		return a, a.chooser.Update(msg)
	}

	// 4. Details modal
	if a.details.IsVisible() {
		cmd := a.details.Update(msg)
		if !a.details.IsVisible() {
			a.updateHints()
		}
		return a, cmd
	}

	// 5. New record modal
	if a.newRecord.IsVisible() {
		cmd := a.newRecord.Update(msg)
		if !a.newRecord.IsVisible() {
			a.updateHints()
		}
		return a, cmd
	}

	// 6. App-level keys, unless the record filter is capturing input
	if !(a.activeView == ViewRecords && a.recordsView.IsFiltering()) {
		switch msg.String() {
		case "1":
			a.setActiveView(ViewPath)
			return a, nil
		case "2":
			a.setActiveView(ViewRecords)
			return a, nil
		case "3":
			a.setActiveView(ViewActivity)
			return a, nil
		case "q":
			a.dialog.Show("Quit", "Leave pathway? The MCP server stops with it.", func() tea.Cmd {
				a.quitting = true
				return tea.Quit
			})
			a.updateHints()
			return a, nil
		case "?":
			a.dialog.Show("Help", helpText(), nil)
			a.updateHints()
			return a, nil
		}
	}

	// 7. Forward to the active view
	var cmd tea.Cmd
	switch a.activeView {
	case ViewRecords:
		cmd = a.recordsView.Update(msg)
	case ViewActivity:
		cmd = a.activity.Update(msg)
	default:
		cmd = a.pathView.Update(msg)
	}
	a.updateHints()
	return a, cmd
}

// handleGlobalKeys handles keys that work regardless of modal state.
func (a *App) handleGlobalKeys(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		a.quitting = true
		return tea.Quit
	}
	return nil
}

// handlePaste routes bracketed paste to whichever input is active.
func (a *App) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	if a.dialog.IsVisible() || a.chooser.IsVisible() || a.details.IsVisible() {
		return a, nil
	}
	if a.newRecord.IsVisible() {
		return a, a.newRecord.Update(msg)
	}
	if a.activeView == ViewRecords {
		return a, a.recordsView.Update(msg)
	}
	return a, nil
}

// handleMouse processes mouse click events.
func (a *App) handleMouse(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()

	// Only handle left clicks
	if mouse.Button != tea.MouseLeft {
		return a, nil
	}

	// Dialog gets clicks first
	if a.dialog.IsVisible() {
		cmd := a.dialog.HandleClick(mouse.X, mouse.Y)
		a.updateHints()
		return a, cmd
	}

	// Any click dismisses an open modal
	if a.chooser.IsVisible() {
		a.chooser.Close()
		a.updateHints()
		return a, nil
	}
	if a.details.IsVisible() {
		a.details.Close()
		a.updateHints()
		return a, nil
	}
	if a.newRecord.IsVisible() {
		a.newRecord.Close()
		a.updateHints()
		return a, nil
	}

	// Footer buttons
	switch a.footer.ActionAtPosition(mouse.X, mouse.Y) {
	case FooterActionPath:
		a.setActiveView(ViewPath)
	case FooterActionRecords:
		a.setActiveView(ViewRecords)
	case FooterActionActivity:
		a.setActiveView(ViewActivity)
	case FooterActionHelp:
		a.dialog.Show("Help", helpText(), nil)
		a.updateHints()
	case FooterActionQuit:
		a.dialog.Show("Quit", "Leave pathway? The MCP server stops with it.", func() tea.Cmd {
			a.quitting = true
			return tea.Quit
		})
		a.updateHints()
	}

	return a, nil
}

// handleMouseWheel processes scroll wheel events.
func (a *App) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	const scrollLines = 3

	var lines int
	switch msg.Button {
	case tea.MouseWheelUp:
		lines = -scrollLines
	case tea.MouseWheelDown:
		lines = scrollLines
	default:
		return a, nil
	}

	if a.details.IsVisible() {
		a.details.ScrollBy(lines)
		return a, nil
	}

	switch a.activeView {
	case ViewRecords:
		a.recordsView.ScrollBy(lines)
	case ViewActivity:
		a.activity.ScrollBy(lines)
	}
	return a, nil
}

// setActiveView switches the main view and persists the choice.
func (a *App) setActiveView(view ViewType) {
	a.activeView = view
	a.footer.SetActiveView(view)
	a.setFocus()
	a.updateHints()
	a.uiState.ActiveView = view.String()
	a.saveUIState()
}

// setFocus keeps exactly the active view focused.
func (a *App) setFocus() {
	a.pathView.SetFocus(a.activeView == ViewPath)
	a.recordsView.SetFocus(a.activeView == ViewRecords)
	a.activity.SetFocus(a.activeView == ViewActivity)
}

// updateHints refreshes the status bar hints for whatever currently has
// keyboard focus.
func (a *App) updateHints() {
	switch {
	case a.dialog.IsVisible():
		a.status.SetHints("")
	case a.chooser.IsVisible():
		a.status.SetHints(HintChooser())
	case a.details.IsVisible():
		a.status.SetHints(HintDetails())
	case a.newRecord.IsVisible():
		a.status.SetHints(HintModal())
	case a.activeView == ViewRecords:
		if a.recordsView.IsFiltering() {
			a.status.SetHints(HintFilter())
		} else {
			a.status.SetHints(HintRecords())
		}
	case a.activeView == ViewActivity:
		a.status.SetHints(HintActivity())
	default:
		if a.boundID == "" {
			a.status.SetHints(HintPathUnbound())
		} else {
			a.status.SetHints(HintPath())
		}
	}
}

// refreshComponents pushes the latest provider state into every component.
func (a *App) refreshComponents() {
	a.resolveBinding()

	// A finished or failed commit leaves the controller back in its loading
	// phase; reload immediately since all inputs are already in memory.
	if a.controller != nil && a.controller.Phase() == path.PhaseLoading {
		if err := a.controller.Load(a.ctx); err != nil {
			logger.Warn("failed to reload path: %v", err)
		}
	}

	a.recordsView.SetRecords(a.objectRecords())
	a.recordsView.SetBound(a.boundID)
	a.activity.SetEvents(a.provider.Events())

	var name string
	if rec, ok := a.provider.Record(a.boundID); ok {
		name = rec.Name
		a.pathView.SetRecord(rec)
		if a.details.IsVisible() && a.details.Record() != nil && a.details.Record().ID == rec.ID {
			a.details.SetRecord(rec)
		}
	} else {
		a.pathView.SetRecord(nil)
	}
	a.header.SetBinding(a.objectLabel(), name)
	a.updateHints()
}

// resolveBinding ensures the bound record still exists, falling back to the
// last used record of the object and then to the first one.
func (a *App) resolveBinding() {
	if a.boundID != "" {
		if _, ok := a.provider.Record(a.boundID); ok {
			if a.controller == nil {
				a.bindRecord(a.boundID)
			}
			return
		}
		logger.Warn("record %q is gone, rebinding", a.boundID)
		a.boundID = ""
		a.controller = nil
		a.pathView.SetController(nil)
	}

	records := a.objectRecords()
	if len(records) == 0 {
		return
	}

	if last := a.uiState.LastRecord(a.objectName); last != "" {
		for _, rec := range records {
			if rec.ID == last {
				a.bindRecord(last)
				return
			}
		}
	}
	a.bindRecord(records[0].ID)
}

// bindRecord points the path controller at the given record.
func (a *App) bindRecord(recordID string) {
	a.boundID = recordID

	cfg, err := a.catalog.PathConfig(a.objectName, recordID)
	if err != nil {
		logger.Error("no path config for %s: %v", a.objectName, err)
		a.controller = nil
		a.pathView.SetController(nil)
		return
	}

	c := path.NewController(cfg, a.catalog, a.provider, a.sink)
	if err := c.Load(a.ctx); err != nil {
		logger.Warn("failed to load path: %v", err)
	}
	a.controller = c
	a.pathView.SetController(c)

	a.uiState.SetLastRecord(a.objectName, recordID)
	a.saveUIState()
}

// createRecord persists a new record through the store.
func (a *App) createRecord(msg CreateRecordMsg) tea.Cmd {
	return func() tea.Msg {
		rec, err := a.store.RecordAdd(a.ctx, record.RecordAddParams{
			Name:        msg.Name,
			Object:      a.objectName,
			Description: msg.Description,
		})
		return RecordCreatedMsg{Record: rec, Err: err}
	}
}

// saveDescription persists an edited description through the store.
func (a *App) saveDescription(recordID, content string) tea.Cmd {
	return func() tea.Msg {
		err := a.store.DescriptionUpdate(a.ctx, record.DescriptionUpdateParams{
			RecordID:    recordID,
			Description: content,
		})
		return DescriptionSavedMsg{Err: err}
	}
}

// chooserOptions builds the closed-outcome choices in path order.
func (a *App) chooserOptions() []ChooserOption {
	cfg := a.controller.Config()
	var opts []ChooserOption
	for _, step := range a.controller.Steps() {
		switch step.Value {
		case cfg.ClosedOk:
			opts = append(opts, ChooserOption{Value: step.Value, Label: step.Label, Won: true})
		case cfg.ClosedKo:
			opts = append(opts, ChooserOption{Value: step.Value, Label: step.Label})
		}
	}
	return opts
}

// objectRecords filters the provider's records down to the bound object.
func (a *App) objectRecords() []*record.Record {
	var out []*record.Record
	for _, rec := range a.provider.Records() {
		if rec.Object == a.objectName {
			out = append(out, rec)
		}
	}
	return out
}

// objectLabel returns the display label for the bound object.
func (a *App) objectLabel() string {
	if a.object != nil && a.object.Label != "" {
		return a.object.Label
	}
	return a.objectName
}

// stageBadge derives the record list badge from the record's path field.
func (a *App) stageBadge(rec *record.Record) StageBadge {
	if a.object == nil || a.object.Path.Field == "" {
		return StageBadge{}
	}
	value := rec.Fields[a.object.Path.Field]
	if value == "" {
		return StageBadge{}
	}

	badge := StageBadge{Label: value}
	if f, ok := a.object.Field(a.object.Path.Field); ok {
		for _, pv := range f.Values {
			if pv.Value == value {
				badge.Label = pv.Label
				break
			}
		}
	}
	badge.Won = value == a.object.Path.ClosedOk
	badge.Lost = value == a.object.Path.ClosedKo
	return badge
}

// helpText lists the keyboard shortcuts shown in the help dialog.
func helpText() string {
	return strings.Join([]string{
		"1/2/3    switch view",
		"←/→      select stage",
		"enter    confirm stage",
		"esc      clear selection, close modal",
		"d        record details",
		"e        edit description in $EDITOR",
		"n        new record",
		"/        filter records",
		"q        quit",
	}, "\n")
}

// saveUIState persists the current UI state to disk.
func (a *App) saveUIState() {
	if err := state.Save(a.dataDir, a.uiState); err != nil {
		logger.Warn("failed to save UI state: %v", err)
	}
}

// View renders the current view. In Bubbletea v2, this returns tea.View
// with display options like AltScreen and MouseMode.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true                    // Full-screen mode
	view.MouseMode = tea.MouseModeCellMotion // Enable mouse events
	view.ReportFocus = true                  // Enable focus events
	view.KeyboardEnhancements = tea.KeyboardEnhancements{
		ReportEventTypes: true, // Required for ctrl+enter and other enhanced key events
	}

	if a.quitting {
		// Return minimal view when quitting - exit alt screen for proper terminal restoration
		view.AltScreen = false
		view.MouseMode = 0
		view.ReportFocus = false
		view.Content = lipgloss.NewLayer("")
		return view
	}

	// Recalculate layout if needed
	if a.layoutDirty {
		a.layout = CalculateLayout(a.width, a.height)
		a.propagateSizes()
		a.layoutDirty = false
	}

	// Create screen buffer for drawing
	canvas := uv.NewScreenBuffer(a.width, a.height)

	// Draw all components to canvas
	view.Cursor = a.Draw(canvas, canvas.Bounds())

	// Render canvas to string
	content := canvas.Render()

	view.Content = lipgloss.NewLayer(content)

	// Set global background color for the entire terminal
	view.BackgroundColor = theme.HexToColor(theme.Current().BgCrust)

	return view
}

// Draw renders all components to the screen buffer.
func (a *App) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	a.header.Draw(scr, a.layout.Header)

	var cursor *tea.Cursor
	switch a.activeView {
	case ViewRecords:
		cursor = a.recordsView.Draw(scr, a.layout.Main)
	case ViewActivity:
		cursor = a.activity.Draw(scr, a.layout.Main)
	default:
		cursor = a.pathView.Draw(scr, a.layout.Main)
	}

	a.status.Draw(scr, a.layout.Status)
	a.footer.Draw(scr, a.layout.Footer)

	// Draw overlays
	if a.chooser.IsVisible() {
		a.chooser.Draw(scr, area)
	}
	if a.details.IsVisible() {
		a.details.Draw(scr, area)
	}
	if a.newRecord.IsVisible() {
		a.newRecord.Draw(scr, area)
	}
	if a.dialog.IsVisible() {
		a.dialog.Draw(scr, area)
	}

	// Draw toast last so it appears on top of everything
	if a.toast.IsVisible() {
		toastContent := a.toast.View(area.Dx(), area.Dy())
		if toastContent != "" {
			// Calculate position at bottom-right with 1 cell padding from edges
			// Position above the status bar (area.Max.Y - 1 - contentHeight)
			contentWidth := lipgloss.Width(toastContent)
			contentHeight := lipgloss.Height(toastContent)
			toastX := area.Max.X - contentWidth - 1
			toastY := area.Max.Y - 1 - contentHeight
			if toastX < area.Min.X {
				toastX = area.Min.X
			}
			if toastY < area.Min.Y {
				toastY = area.Min.Y
			}
			toastArea := uv.Rectangle{
				Min: uv.Position{X: toastX, Y: toastY},
				Max: uv.Position{X: toastX + contentWidth, Y: toastY + contentHeight},
			}
			uv.NewStyledString(toastContent).Draw(scr, toastArea)
		}
	}

	return cursor
}

// propagateSizes pushes the current layout dimensions into every component.
func (a *App) propagateSizes() {
	a.header.SetSize(a.layout.Header.Dx(), a.layout.Header.Dy())
	a.header.SetLayoutMode(a.layout.Mode)

	a.pathView.SetSize(a.layout.Main.Dx(), a.layout.Main.Dy())
	a.recordsView.SetSize(a.layout.Main.Dx(), a.layout.Main.Dy())
	a.activity.SetSize(a.layout.Main.Dx(), a.layout.Main.Dy())

	a.status.SetSize(a.layout.Status.Dx(), a.layout.Status.Dy())
	a.status.SetLayoutMode(a.layout.Mode)

	a.footer.SetSize(a.layout.Footer.Dx(), a.layout.Footer.Dy())
	a.footer.SetLayoutMode(a.layout.Mode)

	a.chooser.SetSize(a.width, a.height)
	a.newRecord.SetSize(a.width, a.height)
	a.dialog.SetSize(a.width, a.height)
}

// waitForEvents listens on the event channel and converts events to messages.
// This command recursively calls itself to continuously receive events.
func (a *App) waitForEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-a.eventChan
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}

// waitForCommits relays commit results from the persistence sink.
func (a *App) waitForCommits() tea.Cmd {
	return func() tea.Msg {
		return <-a.sink.results
	}
}

// subscribeToEvents subscribes to the NATS event stream and forwards
// incoming events to the app's event channel.
func (a *App) subscribeToEvents() tea.Cmd {
	return func() tea.Msg {
		if a.nc == nil {
			return nil
		}

		sub, err := a.nc.Subscribe(nats.SubjectForAll(), func(m *natsgo.Msg) {
			var event record.Event
			if err := json.Unmarshal(m.Data, &event); err != nil {
				return // Skip malformed events
			}

			// Non-blocking send so a stalled UI never blocks the callback
			select {
			case a.eventChan <- event:
			default:
				// Channel full, drop event
			}
		})

		if err != nil {
			return fmt.Errorf("failed to subscribe to events: %w", err)
		}

		// Clean up when context is cancelled
		<-a.ctx.Done()
		_ = sub.Unsubscribe()
		close(a.eventChan)

		return nil
	}
}

// loadInitialState loads the record set from the event log.
func (a *App) loadInitialState() tea.Cmd {
	return func() tea.Msg {
		set, err := a.store.LoadSet(a.ctx)
		return StateUpdateMsg{Set: set, Err: err}
	}
}

// checkConnectionHealth monitors NATS connection status and sends updates.
// It checks the connection every 2 seconds and sends a ConnectionStatusMsg
// when the status changes.
func (a *App) checkConnectionHealth() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		connected := a.nc != nil && a.nc.IsConnected()
		return ConnectionStatusMsg{Connected: connected}
	})
}

// StateUpdateMsg delivers a freshly loaded record set.
type StateUpdateMsg struct {
	Set *record.Set
	Err error
}

// EventMsg wraps a live event from the NATS stream.
type EventMsg struct {
	Event record.Event
}

// ConnectionStatusMsg is sent when NATS connection status changes.
type ConnectionStatusMsg struct {
	Connected bool
}

// RecordCreatedMsg reports the result of creating a record from the TUI.
type RecordCreatedMsg struct {
	Record *record.Record
	Err    error
}

// DescriptionSavedMsg reports the result of persisting an edited description.
type DescriptionSavedMsg struct {
	Err error
}
