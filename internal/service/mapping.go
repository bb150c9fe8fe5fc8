package service

import (
	"time"

	"interview-scheduler-backend/internal/model"
	"interview-scheduler-backend/internal/schedule"
)

func toDomainStudent(m model.Student) schedule.Student {
	siblings := schedule.NoSiblings()
	if m.HasSibling {
		siblings = schedule.SiblingAt(m.SiblingSlots...)
	}

	var current *time.Time
	if m.CurrentSlot != nil {
		t := *m.CurrentSlot
		current = &t
	}

	return schedule.Student{
		ID:        m.ID,
		Name:      m.Name,
		Current:   current,
		Requested: append([]time.Time(nil), m.RequestedSlots...),
		Siblings:  siblings,
	}
}

func toDomainStudents(rows []model.Student) []schedule.Student {
	out := make([]schedule.Student, len(rows))
	for i, row := range rows {
		out[i] = toDomainStudent(row)
	}
	return out
}

func toModelStudent(s schedule.Student) model.Student {
	return model.Student{
		ID:             s.ID,
		Name:           s.Name,
		CurrentSlot:    s.Current,
		HasSibling:     s.Siblings.Exists(),
		SiblingSlots:   s.Siblings.Slots(),
		RequestedSlots: s.Requested,
	}
}

func toDomainRanges(rows []model.TimeRange) []schedule.TimeRange {
	out := make([]schedule.TimeRange, len(rows))
	for i, row := range rows {
		out[i] = schedule.TimeRange{Start: row.StartTime, End: row.EndTime}
	}
	return out
}
