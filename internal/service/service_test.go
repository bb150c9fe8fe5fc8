package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interview-scheduler-backend/config"
	"interview-scheduler-backend/internal/db"
	"interview-scheduler-backend/internal/model"
	"interview-scheduler-backend/internal/parse"
	"interview-scheduler-backend/internal/schedule"
	"interview-scheduler-backend/internal/store"
)

var jst = time.FixedZone("JST", 9*60*60)

func at(hh, mm int) time.Time {
	return time.Date(2025, 6, 2, hh, mm, 0, 0, jst)
}

func ptr(t time.Time) *time.Time { return &t }

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
	gdb, err := db.Init(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	st := store.NewGormStore(gdb)
	svc := New(st, Options{
		Import: parse.Options{TimeLayout: config.DefaultImportTimeLayout, Location: jst},
	})
	return svc, st
}

// seed stores the 9:00-10:00 window and the given students.
func seed(t *testing.T, st store.Store, students ...model.Student) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.InsertTimeRange(ctx, model.TimeRange{StartTime: at(9, 0), EndTime: at(10, 0)}))
	require.NoError(t, st.BulkInsertStudents(ctx, students))
}

func student(id int64, current *time.Time, requested ...time.Time) model.Student {
	return model.Student{
		ID:             id,
		Name:           fmt.Sprintf("student-%d", id),
		CurrentSlot:    current,
		RequestedSlots: requested,
	}
}

func currentSlot(t *testing.T, st store.Store, id int64) *time.Time {
	t.Helper()
	row, err := st.FindStudentByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, row)
	return row.CurrentSlot
}

func TestDefaultView(t *testing.T) {
	svc, st := newTestService(t)
	seed(t, st,
		student(1, ptr(at(9, 15)), at(9, 15)),
		student(2, nil, at(9, 0)),
	)

	view, err := svc.DefaultView(context.Background())
	require.NoError(t, err)

	require.Len(t, view.Slots, 4)
	for i, sv := range view.Slots {
		assert.True(t, sv.Time.Equal(at(9, 15*i)), "slot %d out of order", i)
		if i == 1 {
			require.NotNil(t, sv.Occupant)
			assert.Equal(t, int64(1), sv.Occupant.ID)
			assert.Equal(t, schedule.SlotDelete, sv.Affordance)
		} else {
			assert.Nil(t, sv.Occupant)
			assert.Equal(t, schedule.SlotDefault, sv.Affordance)
		}
	}
	assert.Len(t, view.Students, 2)
}

func TestSlotView_OffersSettableStudents(t *testing.T) {
	svc, st := newTestService(t)
	seed(t, st,
		student(1, nil, at(9, 0)),
		student(2, nil, at(9, 30)),
	)

	view, err := svc.SlotView(context.Background(), at(9, 0).Add(20*time.Second))
	require.NoError(t, err)

	marks := make(map[int64]schedule.StudentAffordance)
	for _, sv := range view.Students {
		marks[sv.Student.ID] = sv.Affordance
	}
	assert.Equal(t, schedule.StudentAdd, marks[1])
	assert.Equal(t, schedule.StudentDefault, marks[2])
	assert.True(t, view.Slots[0].Selected)
	assert.Equal(t, schedule.SlotNone, view.Slots[0].Affordance)
}

func TestStudentView_UnknownStudentIsNoop(t *testing.T) {
	svc, st := newTestService(t)
	seed(t, st, student(1, ptr(at(9, 0)), at(9, 0)))

	view, err := svc.StudentView(context.Background(), 99)
	require.NoError(t, err)
	for _, sv := range view.Slots {
		assert.Equal(t, schedule.SlotDefault, sv.Affordance)
	}
}

func TestAssign(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	seed(t, st,
		student(1, nil, at(9, 0)),
		student(2, nil, at(9, 0)),
	)

	require.NoError(t, svc.Assign(ctx, 1, at(9, 0)))
	require.NotNil(t, currentSlot(t, st, 1))
	assert.True(t, currentSlot(t, st, 1).Equal(at(9, 0)))

	// Assigning into an occupied slot sends the occupant back to pending.
	require.NoError(t, svc.Assign(ctx, 2, at(9, 0)))
	assert.Nil(t, currentSlot(t, st, 1))
	assert.True(t, currentSlot(t, st, 2).Equal(at(9, 0)))

	// Reassigning to the held slot changes nothing.
	require.NoError(t, svc.Assign(ctx, 2, at(9, 0)))
	assert.True(t, currentSlot(t, st, 2).Equal(at(9, 0)))
}

func TestAssign_MovesStudentOffPreviousSlot(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	seed(t, st, student(1, ptr(at(9, 0)), at(9, 0), at(9, 30)))

	require.NoError(t, svc.Assign(ctx, 1, at(9, 30)))

	occupant, err := st.FindStudentByCurrentSlot(ctx, at(9, 0))
	require.NoError(t, err)
	assert.Nil(t, occupant)
	assert.True(t, currentSlot(t, st, 1).Equal(at(9, 30)))
}

func TestAssign_DoesNotCheckEligibility(t *testing.T) {
	svc, st := newTestService(t)
	seed(t, st, student(1, nil, at(9, 0)))

	require.NoError(t, svc.Assign(context.Background(), 1, at(9, 45)))
	assert.True(t, currentSlot(t, st, 1).Equal(at(9, 45)))
}

func TestAssign_UnknownStudent(t *testing.T) {
	svc, st := newTestService(t)
	seed(t, st)

	err := svc.Assign(context.Background(), 42, at(9, 0))
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestClearSlot(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	seed(t, st, student(1, nil, at(9, 15)))

	require.NoError(t, svc.Assign(ctx, 1, at(9, 15)))
	require.NoError(t, svc.ClearSlot(ctx, at(9, 15)))
	assert.Nil(t, currentSlot(t, st, 1))

	// Clearing an empty slot succeeds.
	require.NoError(t, svc.ClearSlot(ctx, at(9, 15)))
}

func TestSwap(t *testing.T) {
	testCases := []struct {
		name     string
		students []model.Student
		want     map[int64]*time.Time
		wantErr  error
	}{
		{
			name: "Both occupied exchange",
			students: []model.Student{
				student(1, ptr(at(9, 0)), at(9, 0), at(9, 30)),
				student(2, ptr(at(9, 30)), at(9, 0), at(9, 30)),
			},
			want: map[int64]*time.Time{1: ptr(at(9, 30)), 2: ptr(at(9, 0))},
		},
		{
			name: "Selected occupant moves to target",
			students: []model.Student{
				student(1, ptr(at(9, 0)), at(9, 0), at(9, 30)),
			},
			want: map[int64]*time.Time{1: ptr(at(9, 30))},
		},
		{
			name: "Target occupant moves to selected",
			students: []model.Student{
				student(2, ptr(at(9, 30)), at(9, 0), at(9, 30)),
			},
			want: map[int64]*time.Time{2: ptr(at(9, 0))},
		},
		{
			name:     "Neither occupied",
			students: []model.Student{student(1, nil, at(9, 0))},
			wantErr:  ErrSlotEmpty,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, st := newTestService(t)
			seed(t, st, tc.students...)

			err := svc.Swap(context.Background(), at(9, 0), at(9, 30))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			for id, want := range tc.want {
				got := currentSlot(t, st, id)
				require.NotNil(t, got)
				assert.True(t, got.Equal(*want), "student %d at %s", id, got)
			}
		})
	}
}

func TestSwap_KeepsSlotsExclusive(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	seed(t, st,
		student(1, ptr(at(9, 0)), at(9, 0), at(9, 15)),
		student(2, ptr(at(9, 15)), at(9, 0), at(9, 15)),
		student(3, ptr(at(9, 30)), at(9, 30)),
	)

	require.NoError(t, svc.Swap(ctx, at(9, 0), at(9, 15)))
	require.NoError(t, svc.Swap(ctx, at(9, 15), at(9, 45)))

	view, err := svc.DefaultView(ctx)
	require.NoError(t, err)

	held := make(map[int64]int)
	for _, sv := range view.Students {
		if sv.Student.Current != nil {
			held[sv.Student.Current.Unix()]++
		}
	}
	for slot, n := range held {
		assert.Equal(t, 1, n, "slot %d has %d holders", slot, n)
	}
	assert.Len(t, held, 3)
}

func TestImportStudents(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	seed(t, st, student(7, ptr(at(9, 0)), at(9, 0)))

	csv := "timestamp,id,name,sibling,requested\n" +
		"t,1,青木 葵,,2025年06月02日 09時00分\n" +
		"t,2,石川 蓮,あり,\"2025年06月02日 09時15分, 2025年06月02日 09時30分\"\n"

	n, err := svc.ImportStudents(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	students, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, int64(1), students[0].ID)
	assert.True(t, students[0].Pending())
	assert.True(t, students[0].Requested[0].Equal(at(9, 0)))
	assert.Equal(t, schedule.SiblingNoSlots, students[1].Siblings.Kind())
	assert.Len(t, students[1].Requested, 2)
}

func TestImportStudents_MalformedKeepsRoster(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	seed(t, st, student(7, ptr(at(9, 0)), at(9, 0)))

	csv := "timestamp,id,name,sibling,requested\n" +
		"t,1,青木 葵,,2025年06月02日 09時00分\n" +
		"t,2,石川 蓮,,not a time\n"

	_, err := svc.ImportStudents(ctx, strings.NewReader(csv))
	assert.ErrorIs(t, err, parse.ErrMalformedRow)

	students, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, int64(7), students[0].ID)
}

func TestImportStudents_EmptyFileKeepsRoster(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	seed(t, st, student(7, nil, at(9, 0)))

	_, err := svc.ImportStudents(ctx, strings.NewReader(""))
	assert.ErrorIs(t, err, parse.ErrEmptyRoster)

	students, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestAddSiblingSlot(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	seed(t, st, student(1, nil, at(9, 0), at(9, 15), at(9, 30)))

	err := svc.AddSiblingSlot(ctx, 1, at(9, 10))
	assert.ErrorIs(t, err, ErrInvalidSiblingSlot)

	err = svc.AddSiblingSlot(ctx, 2, at(9, 15))
	assert.ErrorIs(t, err, ErrStudentNotFound)

	require.NoError(t, svc.AddSiblingSlot(ctx, 1, at(9, 15)))
	require.NoError(t, svc.AddSiblingSlot(ctx, 1, at(9, 15)))

	students, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	siblings := students[0].Siblings
	assert.Equal(t, schedule.SiblingWithSlots, siblings.Kind())
	require.Len(t, siblings.Slots(), 1)
	assert.True(t, siblings.Slots()[0].Equal(at(9, 15)))

	// The sibling's own slot is no longer offered.
	view, err := svc.StudentView(ctx, 1)
	require.NoError(t, err)
	offered := make(map[int64]schedule.SlotAffordance)
	for _, sv := range view.Slots {
		offered[sv.Time.Unix()] = sv.Affordance
	}
	assert.Equal(t, schedule.SlotAdd, offered[at(9, 0).Unix()])
	assert.Equal(t, schedule.SlotDefault, offered[at(9, 15).Unix()])
	assert.Equal(t, schedule.SlotAdd, offered[at(9, 30).Unix()])
}

func TestRemoveSiblingLink(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	seed(t, st, student(1, nil, at(9, 0)))

	require.NoError(t, svc.AddSiblingSlot(ctx, 1, at(9, 45)))
	require.NoError(t, svc.RemoveSiblingLink(ctx, 1))

	students, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, schedule.SiblingNoSlots, students[0].Siblings.Kind())
	assert.Empty(t, students[0].Siblings.Slots())

	assert.ErrorIs(t, svc.RemoveSiblingLink(ctx, 5), ErrStudentNotFound)
}

func TestTimeRanges(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.NoError(t, svc.AddTimeRange(ctx, schedule.TimeRange{Start: at(13, 0), End: at(14, 0)}))
	require.NoError(t, svc.AddTimeRange(ctx, schedule.TimeRange{Start: at(13, 30), End: at(14, 30)}))

	err := svc.AddTimeRange(ctx, schedule.TimeRange{Start: at(13, 0), End: at(13, 45)})
	assert.ErrorIs(t, err, store.ErrRangeExists)

	err = svc.AddTimeRange(ctx, schedule.TimeRange{Start: at(15, 0), End: at(15, 0)})
	assert.ErrorIs(t, err, schedule.ErrInvalidRange)

	// Both bounds truncate to 15:00.
	err = svc.AddTimeRange(ctx, schedule.TimeRange{
		Start: at(15, 0).Add(10 * time.Second),
		End:   at(15, 0).Add(50 * time.Second),
	})
	assert.ErrorIs(t, err, schedule.ErrInvalidRange)

	ranges, universe, err := svc.ListTimeRanges(ctx)
	require.NoError(t, err)
	assert.Len(t, ranges, 2)
	assert.Equal(t, 6, universe.Len(), "overlapping windows share slots")

	require.NoError(t, svc.DeleteTimeRange(ctx, at(13, 0)))
	assert.ErrorIs(t, svc.DeleteTimeRange(ctx, at(13, 0)), store.ErrNotFound)

	_, universe, err = svc.ListTimeRanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, universe.Len())
}
