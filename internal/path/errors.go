package path

import "errors"

// Error kinds surfaced by the controller. Reporting is last-write-wins:
// a later error overwrites an earlier unresolved one. None are fatal;
// the controller stays usable for a future reload.
var (
	// ErrMetadataLoad wraps a record or metadata provider failure.
	ErrMetadataLoad = errors.New("metadata load failed")
	// ErrMissingValue means a configured closed value is not among the
	// loaded steps.
	ErrMissingValue = errors.New("closed value missing from picklist")
	// ErrInsufficientSteps means the picklist has fewer than three
	// usable values.
	ErrInsufficientSteps = errors.New("not enough steps")
	// ErrPersistence wraps a failed field commit.
	ErrPersistence = errors.New("field update failed")
)
