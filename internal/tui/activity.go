package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/aymanbagabas/go-udiff"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/pathway/internal/nats"
	"github.com/mark3labs/pathway/internal/record"
)

// metaPanelHeight is the fixed height of the detail panel under the feed.
const metaPanelHeight = 8

// eventRow is one entry of the activity feed with its replay-derived
// context: the record name and, for field and description events, the
// value that was replaced.
type eventRow struct {
	event    record.Event
	name     string
	field    string
	oldValue string
	newValue string
	oldDesc  string
}

// ActivityView shows the event log newest first, with a detail panel for
// the selected event. Field rows carry the old to new transition and
// description rows diff against the previous text.
type ActivityView struct {
	rows   []eventRow
	cursor int
	offset int

	width   int
	height  int
	focused bool
}

// NewActivityView creates the activity feed view.
func NewActivityView() *ActivityView {
	return &ActivityView{}
}

// SetEvents rebuilds the feed from the event history (oldest first). The
// replay tracks field values and descriptions per record so each row
// knows what it replaced.
func (v *ActivityView) SetEvents(events []record.Event) {
	names := make(map[string]string)
	fields := make(map[string]map[string]string)
	descs := make(map[string]string)

	rows := make([]eventRow, 0, len(events))
	for _, event := range events {
		row := eventRow{event: event, name: names[event.Record]}

		switch event.Type {
		case nats.EventTypeRecord:
			if event.Action == "created" {
				names[event.Record] = event.Data
				row.name = event.Data
			}

		case nats.EventTypeField:
			var meta struct {
				Field string `json:"field"`
				Value string `json:"value"`
			}
			json.Unmarshal(event.Meta, &meta)
			row.field = meta.Field
			row.newValue = meta.Value
			if fields[event.Record] == nil {
				fields[event.Record] = make(map[string]string)
			}
			row.oldValue = fields[event.Record][meta.Field]
			fields[event.Record][meta.Field] = meta.Value

		case nats.EventTypeDescription:
			row.oldDesc = descs[event.Record]
			descs[event.Record] = event.Data
		}

		rows = append(rows, row)
	}

	// Newest first
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	v.rows = rows
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// SetSize updates the component dimensions.
func (v *ActivityView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetFocus updates the focus state.
func (v *ActivityView) SetFocus(focused bool) {
	v.focused = focused
}

// IsFocused returns the focus state.
func (v *ActivityView) IsFocused() bool {
	return v.focused
}

// Update handles navigation keys for the feed.
func (v *ActivityView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	pageSize := v.listHeight()
	if pageSize < 1 {
		pageSize = 1
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case "pgup":
		v.cursor -= pageSize
		if v.cursor < 0 {
			v.cursor = 0
		}
	case "pgdown":
		v.cursor += pageSize
		if v.cursor > len(v.rows)-1 {
			v.cursor = len(v.rows) - 1
		}
		if v.cursor < 0 {
			v.cursor = 0
		}
	case "g", "home":
		v.cursor = 0
	case "G", "end":
		v.cursor = len(v.rows) - 1
		if v.cursor < 0 {
			v.cursor = 0
		}
	}
	return nil
}

// ScrollBy moves the cursor by the given number of rows.
// Positive values scroll down, negative values scroll up.
func (v *ActivityView) ScrollBy(lines int) {
	v.cursor += lines
	if v.cursor > len(v.rows)-1 {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// listHeight is the feed row count once chrome and the detail panel are
// taken out.
func (v *ActivityView) listHeight() int {
	// Panel border takes 2 rows, divider 1, detail panel the rest
	h := v.height - 2 - 1 - metaPanelHeight
	if h < 1 {
		h = v.height - 2
	}
	return h
}

// Draw renders the activity panel: feed on top, detail panel below.
func (v *ActivityView) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	title := "Activity"
	if len(v.rows) > 0 {
		title = fmt.Sprintf("Activity (%d)", len(v.rows))
	}
	inner := DrawPanel(scr, area, title, v.focused)
	if inner.Dy() < 1 {
		return nil
	}

	if len(v.rows) == 0 {
		empty := styleEmptyState.Render("No activity yet.")
		row := uv.Rectangle{
			Min: uv.Position{X: inner.Min.X, Y: inner.Min.Y + 1},
			Max: uv.Position{X: inner.Max.X, Y: inner.Min.Y + 2},
		}
		uv.NewStyledString(empty).Draw(scr, row)
		return nil
	}

	listArea := inner
	var metaArea uv.Rectangle
	withMeta := inner.Dy() > metaPanelHeight+3
	if withMeta {
		listArea, metaArea = uv.SplitVertical(inner, uv.Fixed(inner.Dy()-metaPanelHeight-1))
		dividerArea, detailArea := uv.SplitVertical(metaArea, uv.Fixed(1))
		DrawHorizontalDivider(scr, dividerArea, styleDivider)
		metaArea = detailArea
	}

	v.drawFeed(scr, listArea)
	if withMeta {
		v.drawDetail(scr, metaArea)
	}
	return nil
}

// drawFeed renders the scrolling event list.
func (v *ActivityView) drawFeed(scr uv.Screen, area uv.Rectangle) {
	visible := area.Dy()
	if visible < 1 {
		return
	}

	// Keep the cursor in view
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}

	y := area.Min.Y
	for i := v.offset; i < len(v.rows) && y < area.Max.Y; i++ {
		line := v.renderFeedRow(v.rows[i], i == v.cursor)
		row := uv.Rectangle{
			Min: uv.Position{X: area.Min.X, Y: y},
			Max: uv.Position{X: area.Max.X, Y: y + 1},
		}
		uv.NewStyledString(truncateString(line, area.Dx())).Draw(scr, row)
		y++
	}

	if len(v.rows) > visible {
		percent := float64(v.cursor+1) / float64(len(v.rows))
		DrawScrollIndicator(scr, area, percent)
	}
}

// renderFeedRow renders one feed line: timestamp, type badge, record name
// and a type-specific summary.
func (v *ActivityView) renderFeedRow(row eventRow, selected bool) string {
	ts := styleEventTime.Render(row.event.Timestamp.Format("15:04:05"))

	name := row.name
	if name == "" {
		name = row.event.Record
	}

	var badge, detail string
	switch row.event.Type {
	case nats.EventTypeRecord:
		switch row.event.Action {
		case "created":
			badge = styleEventCreate.Render("[record]")
			detail = "created"
		case "deleted":
			badge = styleEventDelete.Render("[record]")
			detail = "deleted"
		default:
			badge = styleEventRecord.Render("[record]")
			detail = row.event.Action
		}

	case nats.EventTypeField:
		badge = styleEventField.Render("[field]")
		old := row.oldValue
		if old == "" {
			old = "-"
		}
		detail = fmt.Sprintf("%s: %s %s %s",
			row.field, old, styleTransitionArrow.Render("→"), row.newValue)

	case nats.EventTypeNote:
		badge = styleEventNote.Render("[note]")
		detail = row.event.Data

	case nats.EventTypeDescription:
		badge = styleEventDescription.Render("[desc]")
		detail = "description updated"

	default:
		badge = styleDim.Render("[" + row.event.Type + "]")
		detail = row.event.Action
	}

	nameStyle := styleEventRecord
	if selected {
		nameStyle = styleEventSelected
	}

	cursor := "  "
	if selected {
		cursor = styleRecordCursor.Render("▸ ")
	}

	return fmt.Sprintf("%s%s %s %s %s", cursor, ts, badge, nameStyle.Render(name), detail)
}

// drawDetail renders the detail panel for the selected event. Description
// events show a unified diff against the previous text; everything else
// shows the raw event metadata as highlighted JSON.
func (v *ActivityView) drawDetail(scr uv.Screen, area uv.Rectangle) {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return
	}
	row := v.rows[v.cursor]

	var lines []string
	switch row.event.Type {
	case nats.EventTypeDescription:
		lines = renderDiffLines(row.oldDesc, row.event.Data)

	case nats.EventTypeNote:
		lines = strings.Split(wrapText(row.event.Data, area.Dx()-2), "\n")

	default:
		lines = v.metaLines(row.event)
	}

	y := area.Min.Y
	for _, line := range lines {
		if y >= area.Max.Y {
			break
		}
		r := uv.Rectangle{
			Min: uv.Position{X: area.Min.X, Y: y},
			Max: uv.Position{X: area.Max.X, Y: y + 1},
		}
		uv.NewStyledString(truncateString(line, area.Dx())).Draw(scr, r)
		y++
	}
}

// metaLines formats the event metadata as highlighted, indented JSON.
func (v *ActivityView) metaLines(event record.Event) []string {
	if len(event.Meta) == 0 {
		return []string{styleDim.Render("no metadata")}
	}

	var indented bytes.Buffer
	src := string(event.Meta)
	if err := json.Indent(&indented, event.Meta, "", "  "); err == nil {
		src = indented.String()
	}

	return strings.Split(highlightJSON(src), "\n")
}

// renderDiffLines renders a unified diff between the previous and new
// description. Hunk headers, insertions and deletions get their own
// styles; the file header lines are dropped.
func renderDiffLines(before, after string) []string {
	if before == after {
		return []string{styleDim.Render("no changes")}
	}

	unified := udiff.Unified("previous", "updated", before, after)

	var lines []string
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			continue
		case strings.HasPrefix(line, "@@"):
			lines = append(lines, styleDiffHunk.Render(line))
		case strings.HasPrefix(line, "+"):
			lines = append(lines, styleDiffAdd.Render(line))
		case strings.HasPrefix(line, "-"):
			lines = append(lines, styleDiffDel.Render(line))
		default:
			lines = append(lines, line)
		}
	}
	return lines
}

// highlightJSON applies syntax highlighting to a JSON document and returns
// a string with ANSI color codes for terminal display.
func highlightJSON(source string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	// Use terminal16m formatter for true color output
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Get("terminal256")
	}
	if formatter == nil {
		return source
	}

	baseStyle := styles.Get("monokai")
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}

	// Transform all token backgrounds to match the detail panel background.
	// Without this, chroma's monokai theme uses #272822 which clashes with
	// the surface color.
	bgColour := chroma.MustParseColour(thm.BgSurface0)
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = bgColour
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}

	return strings.TrimRight(buf.String(), "\n")
}

// Compile-time interface checks
var _ FullComponent = (*ActivityView)(nil)
var _ Focusable = (*ActivityView)(nil)
