package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrSlotConflict is returned when two students hold the same slot.
var ErrSlotConflict = errors.New("slot is held by more than one student")

// Roster is an immutable snapshot of every student.
type Roster struct {
	students []Student
	byID     map[int64]int
	bySlot   map[int64]int
}

// NewRoster indexes students by id and current slot. Duplicate ids or two
// students sharing a current slot are rejected.
func NewRoster(students []Student) (Roster, error) {
	r := Roster{
		students: make([]Student, len(students)),
		byID:     make(map[int64]int, len(students)),
		bySlot:   make(map[int64]int),
	}
	copy(r.students, students)

	for i, st := range r.students {
		if _, dup := r.byID[st.ID]; dup {
			return Roster{}, fmt.Errorf("duplicate student id %d", st.ID)
		}
		r.byID[st.ID] = i

		if st.Current == nil {
			continue
		}
		k := key(*st.Current)
		if other, taken := r.bySlot[k]; taken {
			return Roster{}, fmt.Errorf("%w: %s held by students %d and %d",
				ErrSlotConflict, st.Current.Format(time.RFC3339), r.students[other].ID, st.ID)
		}
		r.bySlot[k] = i
	}
	return r, nil
}

// Students returns the students in snapshot order.
func (r Roster) Students() []Student {
	out := make([]Student, len(r.students))
	copy(out, r.students)
	return out
}

// Len returns the number of students.
func (r Roster) Len() int { return len(r.students) }

// Find looks a student up by id.
func (r Roster) Find(id int64) (Student, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Student{}, false
	}
	return r.students[i], true
}

// Occupant returns the student holding t, if any.
func (r Roster) Occupant(t time.Time) (Student, bool) {
	i, ok := r.bySlot[key(t)]
	if !ok {
		return Student{}, false
	}
	return r.students[i], true
}

// Pending returns every student without a slot.
func (r Roster) Pending() []Student {
	var out []Student
	for _, st := range r.students {
		if st.Pending() {
			out = append(out, st)
		}
	}
	return out
}

// ByConstraint returns a copy of the roster ordered so the hardest to place
// students come first: students with a sibling record (fewest sibling slots
// first), then fewest requested slots, then id.
func (r Roster) ByConstraint() Roster {
	students := r.Students()
	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		if a.Siblings.Exists() != b.Siblings.Exists() {
			return a.Siblings.Exists()
		}
		if la, lb := len(a.Siblings.slots), len(b.Siblings.slots); la != lb {
			return la < lb
		}
		if la, lb := len(a.Requested), len(b.Requested); la != lb {
			return la < lb
		}
		return a.ID < b.ID
	})

	// Reindexing a valid roster cannot fail.
	sorted, _ := NewRoster(students)
	return sorted
}
