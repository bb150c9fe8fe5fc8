package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"interview-scheduler-backend/internal/model"
	"interview-scheduler-backend/internal/schedule"
	"interview-scheduler-backend/internal/store"
)

// ListTimeRanges returns the configured ranges and the slots they generate.
func (s *Service) ListTimeRanges(ctx context.Context) ([]schedule.TimeRange, schedule.Universe, error) {
	rows, err := s.store.ListTimeRanges(ctx)
	if err != nil {
		return nil, schedule.Universe{}, err
	}
	ranges := toDomainRanges(rows)
	universe, err := schedule.Generate(ranges)
	if err != nil {
		return nil, schedule.Universe{}, err
	}
	return ranges, universe, nil
}

// AddTimeRange stores a new interview window. Bounds are validated at
// storage precision, so sub-minute ranges are rejected.
func (s *Service) AddTimeRange(ctx context.Context, r schedule.TimeRange) error {
	r = schedule.TimeRange{Start: store.Normalize(r.Start), End: store.Normalize(r.End)}
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.store.InsertTimeRange(ctx, model.TimeRange{StartTime: r.Start, EndTime: r.End}); err != nil {
		return err
	}
	s.log.Info("time range added", zap.Time("start", r.Start), zap.Time("end", r.End))
	return nil
}

// DeleteTimeRange removes the window starting at start. Students keep their
// slots even when those slots leave the universe.
func (s *Service) DeleteTimeRange(ctx context.Context, start time.Time) error {
	if err := s.store.DeleteTimeRange(ctx, start); err != nil {
		return err
	}
	s.log.Info("time range deleted", zap.Time("start", start))
	return nil
}
