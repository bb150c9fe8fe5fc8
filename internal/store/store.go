package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"interview-scheduler-backend/internal/model"
)

var (
	// ErrNotFound is returned by writes that target a missing row.
	ErrNotFound = errors.New("record not found")
	// ErrRangeExists is returned when a time range with the same start exists.
	ErrRangeExists = errors.New("time range already exists")
	// ErrSlotTaken is returned when a slot is already held by another student.
	ErrSlotTaken = errors.New("slot is already taken")
)

// Store defines the interface for all database operations.
type Store interface {
	ListTimeRanges(ctx context.Context) ([]model.TimeRange, error)
	InsertTimeRange(ctx context.Context, r model.TimeRange) error
	DeleteTimeRange(ctx context.Context, start time.Time) error

	ListStudents(ctx context.Context) ([]model.Student, error)
	FindStudentByID(ctx context.Context, id int64) (*model.Student, error)
	FindStudentByCurrentSlot(ctx context.Context, slot time.Time) (*model.Student, error)
	SetCurrentSlot(ctx context.Context, studentID int64, slot *time.Time) error
	ClearSlot(ctx context.Context, slot time.Time) error
	SetSiblingSlots(ctx context.Context, studentID int64, hasSibling bool, slots []time.Time) error
	ClearAllStudents(ctx context.Context) error
	BulkInsertStudents(ctx context.Context, students []model.Student) error

	// Transaction runs fn against a Store bound to a single transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Normalize truncates an instant to the minute and moves it to UTC so that
// equality lookups match regardless of the caller's location.
func Normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

func normalizeAll(ts []time.Time) []time.Time {
	if ts == nil {
		return nil
	}
	out := make([]time.Time, len(ts))
	for i, t := range ts {
		out[i] = Normalize(t)
	}
	return out
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// --- Time ranges ---

func (s *gormStore) ListTimeRanges(ctx context.Context) ([]model.TimeRange, error) {
	var ranges []model.TimeRange
	if err := s.db.WithContext(ctx).Order("start_time").Find(&ranges).Error; err != nil {
		return nil, fmt.Errorf("failed to list time ranges: %w", err)
	}
	return ranges, nil
}

func (s *gormStore) InsertTimeRange(ctx context.Context, r model.TimeRange) error {
	r.StartTime = Normalize(r.StartTime)
	r.EndTime = Normalize(r.EndTime)

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.TimeRange{}).
		Where("start_time = ?", r.StartTime).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check time range %s: %w", r.StartTime, err)
	}
	if count > 0 {
		return ErrRangeExists
	}

	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return fmt.Errorf("failed to insert time range %s: %w", r.StartTime, err)
	}
	return nil
}

func (s *gormStore) DeleteTimeRange(ctx context.Context, start time.Time) error {
	res := s.db.WithContext(ctx).Where("start_time = ?", Normalize(start)).Delete(&model.TimeRange{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete time range %s: %w", start, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Students ---

func (s *gormStore) ListStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := s.db.WithContext(ctx).Order("id").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// FindStudentByID returns nil without an error when no student matches.
func (s *gormStore) FindStudentByID(ctx context.Context, id int64) (*model.Student, error) {
	var student model.Student
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student %d: %w", id, err)
	}
	return &student, nil
}

// FindStudentByCurrentSlot returns nil without an error when the slot is free.
func (s *gormStore) FindStudentByCurrentSlot(ctx context.Context, slot time.Time) (*model.Student, error) {
	var student model.Student
	err := s.db.WithContext(ctx).Where("current_slot = ?", Normalize(slot)).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student at %s: %w", slot, err)
	}
	return &student, nil
}

// SetCurrentSlot assigns slot to the student, or unassigns it when slot is nil.
// It refuses to put two students on one slot but does not check eligibility.
func (s *gormStore) SetCurrentSlot(ctx context.Context, studentID int64, slot *time.Time) error {
	var value any
	if slot != nil {
		t := Normalize(*slot)
		holder, err := s.FindStudentByCurrentSlot(ctx, t)
		if err != nil {
			return err
		}
		if holder != nil && holder.ID != studentID {
			return fmt.Errorf("%w: %s is held by student %d", ErrSlotTaken, t.Format(time.RFC3339), holder.ID)
		}
		value = t
	}

	res := s.db.WithContext(ctx).Model(&model.Student{}).
		Where("id = ?", studentID).
		Update("current_slot", value)
	if res.Error != nil {
		return fmt.Errorf("failed to set current slot for student %d: %w", studentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearSlot unassigns whichever student holds slot. A free slot is not an error.
func (s *gormStore) ClearSlot(ctx context.Context, slot time.Time) error {
	err := s.db.WithContext(ctx).Model(&model.Student{}).
		Where("current_slot = ?", Normalize(slot)).
		Update("current_slot", nil).Error
	if err != nil {
		return fmt.Errorf("failed to clear slot %s: %w", slot, err)
	}
	return nil
}

func (s *gormStore) SetSiblingSlots(ctx context.Context, studentID int64, hasSibling bool, slots []time.Time) error {
	res := s.db.WithContext(ctx).Model(&model.Student{ID: studentID}).
		Select("has_sibling", "sibling_slots").
		Updates(model.Student{HasSibling: hasSibling, SiblingSlots: normalizeAll(slots)})
	if res.Error != nil {
		return fmt.Errorf("failed to update sibling slots for student %d: %w", studentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ClearAllStudents(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&model.Student{}).Error; err != nil {
		return fmt.Errorf("failed to delete students: %w", err)
	}
	return nil
}

func (s *gormStore) BulkInsertStudents(ctx context.Context, students []model.Student) error {
	if len(students) == 0 {
		return nil
	}
	batch := make([]model.Student, len(students))
	for i, st := range students {
		st.RequestedSlots = normalizeAll(st.RequestedSlots)
		st.SiblingSlots = normalizeAll(st.SiblingSlots)
		if st.CurrentSlot != nil {
			t := Normalize(*st.CurrentSlot)
			st.CurrentSlot = &t
		}
		batch[i] = st
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&batch, 100).Error; err != nil {
		return fmt.Errorf("failed to insert %d students: %w", len(batch), err)
	}
	return nil
}
