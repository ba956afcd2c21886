package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/pathway/internal/nats"
	"github.com/rs/xid"
)

// DescriptionUpdateParams represents the parameters for rewriting a
// record's description.
type DescriptionUpdateParams struct {
	RecordID    string `json:"record_id"`
	Description string `json:"description"`
}

// DescriptionUpdate replaces the description of an existing record.
// The event keeps the previous text in its metadata so the history can
// show a diff.
func (s *Store) DescriptionUpdate(ctx context.Context, params DescriptionUpdateParams) error {
	if params.RecordID == "" {
		return fmt.Errorf("record id is required")
	}

	set, err := s.LoadSet(ctx)
	if err != nil {
		return fmt.Errorf("failed to load record set: %w", err)
	}
	rec, exists := set.Records[params.RecordID]
	if !exists {
		return fmt.Errorf("record not found: %s", params.RecordID)
	}

	meta, _ := json.Marshal(map[string]any{
		"previous": rec.Description,
	})

	event := Event{
		ID:        xid.New().String(),
		Timestamp: time.Now(),
		Record:    params.RecordID,
		Type:      nats.EventTypeDescription,
		Action:    "updated",
		Data:      params.Description,
		Meta:      meta,
	}

	_, err = s.PublishEvent(ctx, event)
	return err
}
