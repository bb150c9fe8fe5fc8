package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"interview-scheduler-backend/internal/schedule"
	"interview-scheduler-backend/internal/store"
)

// Mutation actions as reported to metrics and logs.
const (
	actionDelete = "delete"
	actionAdd    = "add"
	actionChange = "change"
	actionMove   = "move"
)

// DefaultView returns the board without a selection.
func (s *Service) DefaultView(ctx context.Context) (schedule.View, error) {
	return s.view(ctx, schedule.NoSelection())
}

// SlotView returns the board with slot t selected.
func (s *Service) SlotView(ctx context.Context, t time.Time) (schedule.View, error) {
	return s.view(ctx, schedule.SelectSlot(store.Normalize(t)))
}

// StudentView returns the board with the student selected. Selecting an
// unknown or already placed student yields an unannotated board.
func (s *Service) StudentView(ctx context.Context, id int64) (schedule.View, error) {
	return s.view(ctx, schedule.SelectStudent(id))
}

func (s *Service) view(ctx context.Context, sel schedule.Selection) (schedule.View, error) {
	roster, universe, err := s.board(ctx)
	if err != nil {
		return schedule.View{}, err
	}
	return schedule.Annotate(roster, universe, sel), nil
}

// ClearSlot unassigns whoever holds t. Clearing a free slot succeeds.
func (s *Service) ClearSlot(ctx context.Context, t time.Time) error {
	err := s.store.ClearSlot(ctx, t)
	s.metrics.ObserveMutation(actionDelete, err)
	if err != nil {
		return err
	}
	s.log.Info("slot cleared", zap.Time("slot", t))
	return nil
}

// Assign places a student on t. An existing occupant of t becomes pending.
// Eligibility is not checked here: callers act on an offered affordance.
func (s *Service) Assign(ctx context.Context, studentID int64, t time.Time) error {
	action := actionAdd
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		student, err := s.findStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}
		if student.CurrentSlot != nil && student.CurrentSlot.Equal(store.Normalize(t)) {
			return nil
		}

		occupant, err := tx.FindStudentByCurrentSlot(ctx, t)
		if err != nil {
			return err
		}
		if occupant != nil {
			action = actionChange
			if err := tx.SetCurrentSlot(ctx, occupant.ID, nil); err != nil {
				return err
			}
		}
		return tx.SetCurrentSlot(ctx, studentID, &t)
	})
	s.metrics.ObserveMutation(action, err)
	if err != nil {
		return err
	}

	s.log.Info("student assigned",
		zap.Int64("student_id", studentID),
		zap.Time("slot", t),
		zap.String("action", action))
	return nil
}

// Swap exchanges the occupants of two slots. With one occupant it moves
// that occupant to the other slot. With none it returns ErrSlotEmpty.
func (s *Service) Swap(ctx context.Context, selected, target time.Time) error {
	if store.Normalize(selected).Equal(store.Normalize(target)) {
		return nil
	}

	action := actionMove
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		a, err := tx.FindStudentByCurrentSlot(ctx, selected)
		if err != nil {
			return err
		}
		b, err := tx.FindStudentByCurrentSlot(ctx, target)
		if err != nil {
			return err
		}

		switch {
		case a != nil && b != nil:
			action = actionChange
			// Free one side first so the unique slot index never sees two holders.
			if err := tx.SetCurrentSlot(ctx, a.ID, nil); err != nil {
				return err
			}
			if err := tx.SetCurrentSlot(ctx, b.ID, &selected); err != nil {
				return err
			}
			return tx.SetCurrentSlot(ctx, a.ID, &target)
		case a != nil:
			return tx.SetCurrentSlot(ctx, a.ID, &target)
		case b != nil:
			return tx.SetCurrentSlot(ctx, b.ID, &selected)
		default:
			return ErrSlotEmpty
		}
	})
	s.metrics.ObserveMutation(action, err)
	if err != nil {
		return err
	}

	s.log.Info("slots swapped",
		zap.Time("selected", selected),
		zap.Time("target", target),
		zap.String("action", action))
	return nil
}
