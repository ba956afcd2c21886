package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the record tools with the MCP server.
func (s *Server) registerTools() error {
	// record_list: list records, optionally scoped to one object
	s.mcpServer.AddTool(
		mcp.NewTool("record_list",
			mcp.WithDescription("List records as a JSON array, newest last"),
			mcp.WithString("object",
				mcp.Description("Object to list records for (defaults to the configured object; empty lists all)"),
			),
		),
		s.handleRecordList,
	)

	// record_get: full record detail
	s.mcpServer.AddTool(
		mcp.NewTool("record_get",
			mcp.WithDescription("Get a single record with fields, notes and description as JSON"),
			mcp.WithString("id", mcp.Required(),
				mcp.Description("Record id (slug)"),
			),
		),
		s.handleRecordGet,
	)

	// record_create: create a new record
	s.mcpServer.AddTool(
		mcp.NewTool("record_create",
			mcp.WithDescription("Create a new record"),
			mcp.WithString("name", mcp.Required(),
				mcp.Description("Display name; the record id is derived from it"),
			),
			mcp.WithString("object",
				mcp.Description("Object the record belongs to (defaults to the configured object)"),
			),
			mcp.WithString("record_type",
				mcp.Description("Record type within the object (defaults to the object's master type)"),
			),
			mcp.WithString("description",
				mcp.Description("Initial markdown description"),
			),
		),
		s.handleRecordCreate,
	)

	// stage_set: advance or close the record's path field
	s.mcpServer.AddTool(
		mcp.NewTool("stage_set",
			mcp.WithDescription("Set the path field of a record to a new stage value"),
			mcp.WithString("id", mcp.Required(),
				mcp.Description("Record id (slug)"),
			),
			mcp.WithString("value", mcp.Required(),
				mcp.Description("New stage value; must be valid for the record's type"),
			),
		),
		s.handleStageSet,
	)

	// note_add: append a note to a record
	s.mcpServer.AddTool(
		mcp.NewTool("note_add",
			mcp.WithDescription("Add a note to a record"),
			mcp.WithString("id", mcp.Required(),
				mcp.Description("Record id (slug)"),
			),
			mcp.WithString("content", mcp.Required(),
				mcp.Description("Note content"),
			),
		),
		s.handleNoteAdd,
	)

	return nil
}
