// Package path implements the scenario engine behind the record
// progress stepper: an ordered step list built from picklist metadata,
// a fixed set of four action scenarios resolved first-match-wins, and
// a controller that drives selection, confirmation, and field commits.
package path

import "context"

// PicklistEntry is one value/label pair of a picklist field.
type PicklistEntry struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Picklist is a field's label plus the entries enabled for one record
// type, in declaration order.
type Picklist struct {
	FieldLabel string
	Entries    []PicklistEntry
}

// MetadataProvider supplies object metadata for the tracked field.
type MetadataProvider interface {
	// MasterRecordType returns the object's default record type, used
	// when a record carries none of its own.
	MasterRecordType(ctx context.Context, object string) (string, error)
	// Picklist returns the field label and the ordered entries enabled
	// for the record type.
	Picklist(ctx context.Context, object, recordType, field string) (Picklist, error)
}

// RecordProvider supplies the live state of a single record.
type RecordProvider interface {
	// FieldValue returns the record's current value of the field and
	// the record's record type, empty when the record carries none.
	FieldValue(ctx context.Context, recordID, field string) (value, recordType string, err error)
}

// PersistenceSink applies a field update and reports the outcome
// through done. Implementations deliver done on the caller's event
// loop; the controller is not safe for concurrent use.
type PersistenceSink interface {
	SaveField(recordID, field, value string, done func(error))
}

// Config binds a controller to one record's path.
type Config struct {
	Object      string // object name the record belongs to
	RecordID    string
	Field       string // picklist field driven by the path
	ClosedOk    string // terminal value for the successful outcome
	ClosedKo    string // terminal value for the unsuccessful outcome
	Placeholder string // label of the trailing chooser step
	HideButton  bool   // rendering hint only, never resolved here
}
