package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/pathway/internal/nats"
	"github.com/rs/xid"
)

// FieldUpdateParams represents the parameters for setting a field
// value. Stage changes go through here like any other field.
type FieldUpdateParams struct {
	RecordID string `json:"record_id"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

// FieldUpdate sets a field of an existing record. The event metadata
// keeps the previous value so the history reads as a transition.
func (s *Store) FieldUpdate(ctx context.Context, params FieldUpdateParams) error {
	if params.RecordID == "" {
		return fmt.Errorf("record id is required")
	}
	if params.Field == "" {
		return fmt.Errorf("field is required")
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
		"field":    params.Field,
		"value":    params.Value,
		"previous": rec.Fields[params.Field],
	})

	event := Event{
		ID:        xid.New().String(),
		Timestamp: time.Now(),
		Record:    params.RecordID,
		Type:      nats.EventTypeField,
		Action:    "updated",
		Data:      params.Value,
		Meta:      meta,
	}

	_, err = s.PublishEvent(ctx, event)
	return err
}
