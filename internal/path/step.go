package path

// Step is one stage of a record's path. Steps are built once when
// picklist metadata loads and never mutated; render state is derived
// on read, never stored here. The zero Step is the sentinel "no step":
// it has no value and never orders against other steps.
type Step struct {
	Value string // picklist value, the step's identity
	Label string // display label
	Index int    // position in picklist order
}

// HasValue reports whether the step is a real stage rather than the
// sentinel zero Step.
func (s Step) HasValue() bool {
	return s.Value != ""
}

// Equals reports identity by value. It accepts either a Step or a bare
// string stage value; any other type compares false.
func (s Step) Equals(other any) bool {
	switch o := other.(type) {
	case Step:
		return s.Value == o.Value
	case string:
		return s.Value == o
	default:
		return false
	}
}

// IsBefore reports whether s orders strictly before other by index.
// The sentinel never orders: false whenever either side has no value.
func (s Step) IsBefore(other Step) bool {
	if !s.HasValue() || !other.HasValue() {
		return false
	}
	return s.Index < other.Index
}

// IsAfter reports whether s orders strictly after other by index.
// False whenever either side is the sentinel.
func (s Step) IsAfter(other Step) bool {
	if !s.HasValue() || !other.HasValue() {
		return false
	}
	return s.Index > other.Index
}

// IsSame reports whether s and other hold the same position. False
// whenever either side is the sentinel.
func (s Step) IsSame(other Step) bool {
	if !s.HasValue() || !other.HasValue() {
		return false
	}
	return s.Index == other.Index
}
