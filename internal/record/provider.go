package record

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/pathway/internal/path"
)

var (
	_ path.RecordProvider  = (*Provider)(nil)
	_ path.PersistenceSink = (*Sink)(nil)
)

// Provider serves live record state to path controllers from a reduced
// set. The set swaps on reload and mutates on incoming events, so
// access is mutex-guarded. Events arrive both in reloaded sets and over
// the live subscription, so applies are deduplicated by event ID.
type Provider struct {
	mu   sync.RWMutex
	set  *Set
	seen map[string]struct{}
}

// NewProvider wraps a reduced set. A nil set starts empty.
func NewProvider(set *Set) *Provider {
	p := &Provider{}
	p.install(set)
	return p
}

// Replace swaps the whole set after a reload.
func (p *Provider) Replace(set *Set) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.install(set)
}

// install swaps the set and rebuilds the dedup index from its history.
// Callers hold the write lock, except NewProvider which has no readers yet.
func (p *Provider) install(set *Set) {
	if set == nil {
		set = NewSet()
	}
	p.set = set
	p.seen = make(map[string]struct{}, len(set.Events))
	for _, event := range set.Events {
		p.seen[event.ID] = struct{}{}
	}
}

// Apply folds a live event into the current set. Events already present
// in the set, from a reload that raced the subscription, are dropped.
func (p *Provider) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dup := p.seen[event.ID]; dup {
		return
	}
	p.seen[event.ID] = struct{}{}
	p.set.Apply(event)
}

// FieldValue returns the record's current value of the field and its
// record type.
func (p *Provider) FieldValue(ctx context.Context, recordID, field string) (string, string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rec, exists := p.set.Records[recordID]
	if !exists {
		return "", "", fmt.Errorf("record not found: %s", recordID)
	}
	return rec.Fields[field], rec.RecordType, nil
}

// Record returns the reduced state of one record.
func (p *Provider) Record(id string) (*Record, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	rec, exists := p.set.Records[id]
	return rec, exists
}

// Records returns all records ordered by creation time.
func (p *Provider) Records() []*Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.set.List()
}

// Events returns the consumed event history, oldest first.
func (p *Provider) Events() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.set.Events
}

// Sink persists path commits straight through the store. The callback
// runs on the calling goroutine once the publish returns; interactive
// callers that need the callback on their own loop wrap the store
// themselves instead of using this.
type Sink struct {
	store *Store
}

// NewSink wraps a store for headless use.
func NewSink(store *Store) *Sink {
	return &Sink{store: store}
}

// SaveField publishes the field update and reports the outcome.
func (s *Sink) SaveField(recordID, field, value string, done func(error)) {
	err := s.store.FieldUpdate(context.Background(), FieldUpdateParams{
		RecordID: recordID,
		Field:    field,
		Value:    value,
	})
	done(err)
}
