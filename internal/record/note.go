package record

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/pathway/internal/nats"
	"github.com/rs/xid"
)

// NoteAddParams represents the parameters for adding a note.
type NoteAddParams struct {
	RecordID string `json:"record_id"`
	Content  string `json:"content"`
}

// NoteAdd appends a note to an existing record.
func (s *Store) NoteAdd(ctx context.Context, params NoteAddParams) (*Note, error) {
	if params.RecordID == "" {
		return nil, fmt.Errorf("record id is required")
	}
	if params.Content == "" {
		return nil, fmt.Errorf("content is required")
	}

	set, err := s.LoadSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load record set: %w", err)
	}
	if _, exists := set.Records[params.RecordID]; !exists {
		return nil, fmt.Errorf("record not found: %s", params.RecordID)
	}

	id := xid.New().String()
	now := time.Now()

	event := Event{
		ID:        id,
		Timestamp: now,
		Record:    params.RecordID,
		Type:      nats.EventTypeNote,
		Action:    "added",
		Data:      params.Content,
	}

	if _, err := s.PublishEvent(ctx, event); err != nil {
		return nil, err
	}

	return &Note{
		ID:        id,
		Content:   params.Content,
		CreatedAt: now,
	}, nil
}
