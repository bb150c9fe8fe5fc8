package api

import (
	"time"

	"interview-scheduler-backend/internal/schedule"
)

type siblingResponse struct {
	Exists bool        `json:"exists"`
	Slots  []time.Time `json:"slots"`
}

// StudentResponse is the wire form of a student.
type StudentResponse struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	CurrentSlot    *time.Time      `json:"current_slot"`
	RequestedSlots []time.Time     `json:"requested_slots"`
	Sibling        siblingResponse `json:"sibling"`
}

type studentViewResponse struct {
	StudentResponse
	Affordance schedule.StudentAffordance `json:"affordance"`
}

type slotViewResponse struct {
	Time       time.Time               `json:"time"`
	Occupant   *StudentResponse        `json:"occupant"`
	Affordance schedule.SlotAffordance `json:"affordance"`
	Selected   bool                    `json:"selected"`
}

type selectionResponse struct {
	Kind      string     `json:"kind"`
	Slot      *time.Time `json:"slot,omitempty"`
	StudentID *int64     `json:"student_id,omitempty"`
}

// ViewResponse is the annotated board.
type ViewResponse struct {
	Students  []studentViewResponse `json:"students"`
	Slots     []slotViewResponse    `json:"slots"`
	Selection selectionResponse     `json:"selection"`
}

type timeRangeResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// TimeRangesResponse lists the configured ranges and the generated slots.
type TimeRangesResponse struct {
	Ranges []timeRangeResponse `json:"ranges"`
	Slots  []time.Time         `json:"slots"`
}

func (h *Handler) inZone(ts []time.Time) []time.Time {
	out := make([]time.Time, len(ts))
	for i, t := range ts {
		out[i] = t.In(h.loc)
	}
	return out
}

func (h *Handler) toStudentResponse(s schedule.Student) StudentResponse {
	resp := StudentResponse{
		ID:             s.ID,
		Name:           s.Name,
		RequestedSlots: h.inZone(s.Requested),
		Sibling: siblingResponse{
			Exists: s.Siblings.Exists(),
			Slots:  h.inZone(s.Siblings.Slots()),
		},
	}
	if s.Current != nil {
		t := s.Current.In(h.loc)
		resp.CurrentSlot = &t
	}
	return resp
}

func (h *Handler) toViewResponse(v schedule.View) ViewResponse {
	resp := ViewResponse{
		Students: make([]studentViewResponse, 0, len(v.Students)),
		Slots:    make([]slotViewResponse, 0, len(v.Slots)),
	}
	for _, sv := range v.Students {
		resp.Students = append(resp.Students, studentViewResponse{
			StudentResponse: h.toStudentResponse(sv.Student),
			Affordance:      sv.Affordance,
		})
	}
	for _, sv := range v.Slots {
		slot := slotViewResponse{
			Time:       sv.Time.In(h.loc),
			Affordance: sv.Affordance,
			Selected:   sv.Selected,
		}
		if sv.Occupant != nil {
			occ := h.toStudentResponse(*sv.Occupant)
			slot.Occupant = &occ
		}
		resp.Slots = append(resp.Slots, slot)
	}

	switch v.Selection.Kind {
	case schedule.SelectSlotKind:
		t := v.Selection.Slot.In(h.loc)
		resp.Selection = selectionResponse{Kind: "slot", Slot: &t}
	case schedule.SelectStudentKind:
		id := v.Selection.StudentID
		resp.Selection = selectionResponse{Kind: "student", StudentID: &id}
	default:
		resp.Selection = selectionResponse{Kind: "none"}
	}
	return resp
}
