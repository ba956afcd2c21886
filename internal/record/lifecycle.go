package record

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/pathway/internal/nats"
	"github.com/rs/xid"
)

// RecordAddParams represents the parameters for creating a record.
type RecordAddParams struct {
	Name        string `json:"name"`
	Object      string `json:"object"`
	RecordType  string `json:"record_type,omitempty"`
	Description string `json:"description,omitempty"`
}

// RecordAdd creates a new record. The record ID is the slug of the
// name; a name slugging to an existing ID is rejected.
func (s *Store) RecordAdd(ctx context.Context, params RecordAddParams) (*Record, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if params.Object == "" {
		return nil, fmt.Errorf("object is required")
	}

	id := slug.Make(params.Name)
	if id == "" {
		return nil, fmt.Errorf("name %q does not produce a usable id", params.Name)
	}

	// Duplicate check against the reduced state.
	set, err := s.LoadSet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load record set: %w", err)
	}
	if _, exists := set.Records[id]; exists {
		return nil, fmt.Errorf("record %q already exists", id)
	}

	now := time.Now()
	meta, _ := json.Marshal(map[string]any{
		"object":      params.Object,
		"record_type": params.RecordType,
		"description": params.Description,
	})

	event := Event{
		ID:        xid.New().String(),
		Timestamp: now,
		Record:    id,
		Type:      nats.EventTypeRecord,
		Action:    "created",
		Data:      params.Name,
		Meta:      meta,
	}

	if _, err := s.PublishEvent(ctx, event); err != nil {
		return nil, err
	}

	return &Record{
		ID:          id,
		Name:        params.Name,
		Object:      params.Object,
		RecordType:  params.RecordType,
		Fields:      make(map[string]string),
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// RecordDelete removes a record from the reduced state by appending a
// deletion event. The history stays in the log.
func (s *Store) RecordDelete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("record id is required")
	}

	set, err := s.LoadSet(ctx)
	if err != nil {
		return fmt.Errorf("failed to load record set: %w", err)
	}
	if _, exists := set.Records[id]; !exists {
		return fmt.Errorf("record not found: %s", id)
	}

	event := Event{
		ID:        xid.New().String(),
		Timestamp: time.Now(),
		Record:    id,
		Type:      nats.EventTypeRecord,
		Action:    "deleted",
	}

	_, err = s.PublishEvent(ctx, event)
	return err
}
