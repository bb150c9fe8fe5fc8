package schedule

import "time"

// SiblingKind distinguishes the three sibling states of a student.
type SiblingKind int

const (
	// NoSibling means the student has no sibling record.
	NoSibling SiblingKind = iota
	// SiblingNoSlots means a sibling exists but no exclusion slots are known yet.
	SiblingNoSlots
	// SiblingWithSlots means the sibling holds at least one slot.
	SiblingWithSlots
)

// Siblings is the sibling constraint attached to a student.
type Siblings struct {
	kind  SiblingKind
	slots []time.Time
}

// NoSiblings returns the state for a student without siblings.
func NoSiblings() Siblings { return Siblings{kind: NoSibling} }

// SiblingPending returns the state for a sibling without known slots.
func SiblingPending() Siblings { return Siblings{kind: SiblingNoSlots} }

// SiblingAt returns a sibling holding the given slots. Without slots it is
// equivalent to SiblingPending.
func SiblingAt(slots ...time.Time) Siblings {
	s := SiblingPending()
	for _, t := range slots {
		s = s.Add(t)
	}
	return s
}

// Kind returns the sibling state.
func (s Siblings) Kind() SiblingKind { return s.kind }

// Exists reports whether the student has a sibling record at all.
func (s Siblings) Exists() bool { return s.kind != NoSibling }

// Slots returns a copy of the sibling's slots.
func (s Siblings) Slots() []time.Time {
	if len(s.slots) == 0 {
		return nil
	}
	out := make([]time.Time, len(s.slots))
	copy(out, s.slots)
	return out
}

// Add appends a sibling slot, promoting the state to SiblingWithSlots.
func (s Siblings) Add(t time.Time) Siblings {
	for _, existing := range s.slots {
		if existing.Equal(t) {
			return s
		}
	}
	slots := make([]time.Time, len(s.slots), len(s.slots)+1)
	copy(slots, s.slots)
	return Siblings{kind: SiblingWithSlots, slots: append(slots, t)}
}

// Reset keeps the sibling record but drops every exclusion slot.
func (s Siblings) Reset() Siblings { return SiblingPending() }

func (s Siblings) contains(t time.Time) bool {
	for _, b := range s.slots {
		if b.Equal(t) {
			return true
		}
	}
	return false
}

// Student is one entry of the roster.
type Student struct {
	ID        int64
	Name      string
	Current   *time.Time
	Requested []time.Time
	Siblings  Siblings
}

// Pending reports whether the student has no slot yet.
func (s Student) Pending() bool { return s.Current == nil }

// Occupies reports whether the student currently holds t.
func (s Student) Occupies(t time.Time) bool {
	return s.Current != nil && s.Current.Equal(t)
}

// Requests reports whether t is one of the student's requested slots.
func (s Student) Requests(t time.Time) bool {
	for _, r := range s.Requested {
		if r.Equal(t) {
			return true
		}
	}
	return false
}
