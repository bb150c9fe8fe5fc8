package schedule

import (
	"fmt"
	"time"
)

// SlotAffordance is the action offered on a slot.
type SlotAffordance int

const (
	// SlotDefault is a plain link without a button.
	SlotDefault SlotAffordance = iota
	// SlotNone is the selected, empty slot: nothing to do.
	SlotNone
	SlotDelete
	SlotAdd
	SlotChange
	SlotMove
)

var slotAffordanceNames = [...]string{"default", "none", "delete", "add", "change", "move"}

func (a SlotAffordance) String() string {
	if a < 0 || int(a) >= len(slotAffordanceNames) {
		return fmt.Sprintf("SlotAffordance(%d)", int(a))
	}
	return slotAffordanceNames[a]
}

// MarshalText encodes the affordance as its lowercase name.
func (a SlotAffordance) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// StudentAffordance is the action offered on a student.
type StudentAffordance int

const (
	StudentDefault StudentAffordance = iota
	StudentAdd
	StudentChange
	// StudentDisabled is the selected student: no link, no button.
	StudentDisabled
)

var studentAffordanceNames = [...]string{"default", "add", "change", "disabled"}

func (a StudentAffordance) String() string {
	if a < 0 || int(a) >= len(studentAffordanceNames) {
		return fmt.Sprintf("StudentAffordance(%d)", int(a))
	}
	return studentAffordanceNames[a]
}

// MarshalText encodes the affordance as its lowercase name.
func (a StudentAffordance) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// SelectionKind tells what the user clicked.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectSlotKind
	SelectStudentKind
)

// Selection is the view context of a request.
type Selection struct {
	Kind      SelectionKind
	Slot      time.Time
	StudentID int64
}

// NoSelection is the default board.
func NoSelection() Selection { return Selection{Kind: SelectNone} }

// SelectSlot selects a slot.
func SelectSlot(t time.Time) Selection { return Selection{Kind: SelectSlotKind, Slot: t} }

// SelectStudent selects a student by id.
func SelectStudent(id int64) Selection { return Selection{Kind: SelectStudentKind, StudentID: id} }

// StudentView is a student with its affordance.
type StudentView struct {
	Student    Student
	Affordance StudentAffordance
}

// SlotView is a slot with its occupant and affordance.
type SlotView struct {
	Time       time.Time
	Occupant   *Student
	Affordance SlotAffordance
	Selected   bool
}

// View is the annotated board.
type View struct {
	Students  []StudentView
	Slots     []SlotView
	Selection Selection
}

// Annotate computes the affordance of every student and slot for sel.
// Slots are returned in chronological order, students in roster order.
func Annotate(r Roster, u Universe, sel Selection) View {
	v := View{
		Students:  make([]StudentView, 0, r.Len()),
		Slots:     make([]SlotView, 0, u.Len()),
		Selection: sel,
	}
	for _, st := range r.students {
		v.Students = append(v.Students, StudentView{Student: st})
	}
	for _, t := range u.Sorted() {
		sv := SlotView{Time: t}
		if occ, ok := r.Occupant(t); ok {
			sv.Occupant = &occ
		}
		v.Slots = append(v.Slots, sv)
	}

	switch sel.Kind {
	case SelectSlotKind:
		annotateBySlot(&v, r, u, sel.Slot)
	case SelectStudentKind:
		annotateByStudent(&v, u, sel.StudentID)
	default:
		annotateDefault(&v)
	}
	return v
}

func annotateDefault(v *View) {
	for i := range v.Slots {
		if v.Slots[i].Occupant != nil {
			v.Slots[i].Affordance = SlotDelete
		}
	}
}

func annotateBySlot(v *View, r Roster, u Universe, selected time.Time) {
	occupant, hasOccupant := r.Occupant(selected)

	for i := range v.Students {
		if !IsSettable(u, selected, v.Students[i].Student) {
			continue
		}
		if hasOccupant {
			v.Students[i].Affordance = StudentChange
		} else {
			v.Students[i].Affordance = StudentAdd
		}
	}

	for i := range v.Slots {
		sv := &v.Slots[i]
		if sv.Time.Equal(selected) {
			sv.Selected = true
			if hasOccupant {
				sv.Affordance = SlotDelete
			} else {
				sv.Affordance = SlotNone
			}
			continue
		}
		sv.Affordance = pairAffordance(u, selected, sv.Time, occupant, hasOccupant, sv.Occupant)
	}
}

// pairAffordance decides what moving between the selected slot and t means.
// It only looks at the two occupants, never at other slots.
func pairAffordance(u Universe, selected, t time.Time, occupant Student, hasOccupant bool, other *Student) SlotAffordance {
	switch {
	case hasOccupant && other != nil:
		if IsSettable(u, t, occupant) && IsSettable(u, selected, *other) {
			return SlotChange
		}
	case hasOccupant:
		if IsSettable(u, t, occupant) {
			return SlotMove
		}
	case other != nil:
		if IsSettable(u, selected, *other) {
			return SlotMove
		}
	}
	return SlotDefault
}

func annotateByStudent(v *View, u Universe, id int64) {
	var selected *Student
	for i := range v.Students {
		st := v.Students[i].Student
		if st.ID == id && st.Pending() {
			v.Students[i].Affordance = StudentDisabled
			selected = &v.Students[i].Student
		}
	}
	// Unknown or already placed students leave the board untouched.
	if selected == nil {
		return
	}

	for i := range v.Slots {
		sv := &v.Slots[i]
		if !IsSettable(u, sv.Time, *selected) {
			continue
		}
		if sv.Occupant == nil {
			sv.Affordance = SlotAdd
		} else {
			sv.Affordance = SlotChange
		}
	}
}
