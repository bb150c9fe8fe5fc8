package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"interview-scheduler-backend/internal/model"
	"interview-scheduler-backend/internal/parse"
	"interview-scheduler-backend/internal/schedule"
	"interview-scheduler-backend/internal/store"
)

// ListStudents returns every student ordered by id.
func (s *Service) ListStudents(ctx context.Context) ([]schedule.Student, error) {
	rows, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainStudents(rows), nil
}

// ImportStudents replaces the roster with the students read from r. A
// malformed file leaves the stored roster untouched.
func (s *Service) ImportStudents(ctx context.Context, r io.Reader) (int, error) {
	students, err := parse.ParseRoster(r, s.imports)
	if err != nil {
		s.log.Warn("roster import rejected", zap.Error(err))
		return 0, err
	}

	rows := make([]model.Student, len(students))
	for i, st := range students {
		rows[i] = toModelStudent(st)
	}

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.ClearAllStudents(ctx); err != nil {
			return err
		}
		return tx.BulkInsertStudents(ctx, rows)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace roster: %w", err)
	}

	s.metrics.ObserveImport(len(rows))
	s.log.Info("roster imported", zap.Int("students", len(rows)))
	return len(rows), nil
}

// AddSiblingSlot records a slot held by the student's sibling.
func (s *Service) AddSiblingSlot(ctx context.Context, studentID int64, t time.Time) error {
	if t.Minute()%15 != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSiblingSlot, t.Format(time.RFC3339))
	}

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		student, err := s.findStudent(ctx, tx, studentID)
		if err != nil {
			return err
		}
		siblings := toDomainStudent(*student).Siblings.Add(store.Normalize(t))
		return tx.SetSiblingSlots(ctx, studentID, true, siblings.Slots())
	})
	if err != nil {
		return err
	}

	s.log.Info("sibling slot added", zap.Int64("student_id", studentID), zap.Time("slot", t))
	return nil
}

// RemoveSiblingLink drops every sibling slot of the student. The sibling
// record itself is kept.
func (s *Service) RemoveSiblingLink(ctx context.Context, studentID int64) error {
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := s.findStudent(ctx, tx, studentID); err != nil {
			return err
		}
		return tx.SetSiblingSlots(ctx, studentID, true, nil)
	})
	if err != nil {
		return err
	}

	s.log.Info("sibling slots reset", zap.Int64("student_id", studentID))
	return nil
}
