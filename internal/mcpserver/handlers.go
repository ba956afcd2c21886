package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/pathway/internal/record"
)

// recordSummary is the shape record_list returns per record.
type recordSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Object     string `json:"object"`
	RecordType string `json:"record_type,omitempty"`
	Stage      string `json:"stage,omitempty"`
}

// pathField returns the object's configured path field, empty when the
// object is unknown or has no path.
func (s *Server) pathField(object string) string {
	obj, ok := s.catalog.Object(object)
	if !ok {
		return ""
	}
	return obj.Path.Field
}

// handleRecordList returns records as a JSON array, optionally filtered
// to a single object.
func (s *Server) handleRecordList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract arguments (optional for this handler)
	args := request.GetArguments()

	// Extract optional object filter, defaulting to the configured object
	object := s.object
	if args != nil {
		if o, ok := args["object"].(string); ok && o != "" {
			object = o
		}
	}

	set, err := s.store.LoadSet(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to load records: %v", err)), nil
	}

	summaries := []recordSummary{}
	for _, rec := range set.List() {
		if object != "" && rec.Object != object {
			continue
		}
		summary := recordSummary{
			ID:         rec.ID,
			Name:       rec.Name,
			Object:     rec.Object,
			RecordType: rec.RecordType,
		}
		if field := s.pathField(rec.Object); field != "" {
			summary.Stage = rec.Fields[field]
		}
		summaries = append(summaries, summary)
	}

	if len(summaries) == 0 {
		return mcp.NewToolResultText("No records"), nil
	}

	output, err := json.Marshal(summaries)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to marshal records: %v", err)), nil
	}

	return mcp.NewToolResultText(string(output)), nil
}

// handleRecordGet returns one record with fields, notes and description.
func (s *Server) handleRecordGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract arguments
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultText("error: no arguments provided"), nil
	}

	// Extract required id parameter
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultText("error: missing or invalid 'id' parameter"), nil
	}

	set, err := s.store.LoadSet(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to load records: %v", err)), nil
	}

	rec, ok := set.Records[id]
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("error: record %q not found", id)), nil
	}

	output, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to marshal record: %v", err)), nil
	}

	return mcp.NewToolResultText(string(output)), nil
}

// handleRecordCreate creates a new record after checking the target
// object and record type against the schema catalog.
func (s *Server) handleRecordCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract arguments
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultText("error: no arguments provided"), nil
	}

	// Extract name (required)
	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultText("error: missing or empty 'name' parameter"), nil
	}

	// Extract optional object, defaulting to the configured object
	object := s.object
	if o, ok := args["object"].(string); ok && o != "" {
		object = o
	}

	obj, ok := s.catalog.Object(object)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("error: unknown object %q", object)), nil
	}

	// Extract optional record type; empty means the object's master
	// type, so only validate explicit values
	recordType := ""
	if rt, ok := args["record_type"].(string); ok && rt != "" {
		if rt != obj.MasterRecordType {
			if _, ok := obj.RecordType(rt); !ok {
				return mcp.NewToolResultText(fmt.Sprintf("error: unknown record type %q for object %q", rt, object)), nil
			}
		}
		recordType = rt
	}

	// Extract optional description
	description := ""
	if d, ok := args["description"].(string); ok {
		description = d
	}

	rec, err := s.store.RecordAdd(ctx, record.RecordAddParams{
		Name:        name,
		Object:      object,
		RecordType:  recordType,
		Description: description,
	})
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created record %s (%s)", rec.ID, rec.Name)), nil
}

// handleStageSet sets the record's path field to a new stage value. The
// value must be one the schema allows for the record's type.
func (s *Server) handleStageSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract arguments
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultText("error: no arguments provided"), nil
	}

	// Extract required id parameter
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultText("error: missing or invalid 'id' parameter"), nil
	}

	// Extract required value parameter
	value, ok := args["value"].(string)
	if !ok || value == "" {
		return mcp.NewToolResultText("error: missing or empty 'value' parameter"), nil
	}

	set, err := s.store.LoadSet(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to load records: %v", err)), nil
	}

	rec, ok := set.Records[id]
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("error: record %q not found", id)), nil
	}

	obj, ok := s.catalog.Object(rec.Object)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("error: object %q is not in the schema", rec.Object)), nil
	}
	if obj.Path.Field == "" {
		return mcp.NewToolResultText(fmt.Sprintf("error: object %q has no path field configured", rec.Object)), nil
	}

	// Validate the value against the picklist for the record's type
	picklist, err := s.catalog.Picklist(ctx, rec.Object, rec.RecordType, obj.Path.Field)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	valid := false
	values := make([]string, 0, len(picklist.Entries))
	for _, entry := range picklist.Entries {
		values = append(values, entry.Value)
		if entry.Value == value {
			valid = true
		}
	}
	if !valid {
		return mcp.NewToolResultText(fmt.Sprintf(
			"error: %q is not a valid %s value for record %s (valid: %s)",
			value, obj.Path.Field, id, strings.Join(values, ", "),
		)), nil
	}

	err = s.store.FieldUpdate(ctx, record.FieldUpdateParams{
		RecordID: id,
		Field:    obj.Path.Field,
		Value:    value,
	})
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated %s=%s on record %s", obj.Path.Field, value, id)), nil
}

// handleNoteAdd appends a note to a record.
func (s *Server) handleNoteAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract arguments
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultText("error: no arguments provided"), nil
	}

	// Extract required id parameter
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultText("error: missing or invalid 'id' parameter"), nil
	}

	// Extract required content parameter
	content, ok := args["content"].(string)
	if !ok || content == "" {
		return mcp.NewToolResultText("error: missing or empty 'content' parameter"), nil
	}

	note, err := s.store.NoteAdd(ctx, record.NoteAddParams{
		RecordID: id,
		Content:  content,
	})
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Added note %s to record %s", note.ID, id)), nil
}
