package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"interview-scheduler-backend/internal/metrics"
	"interview-scheduler-backend/internal/model"
	"interview-scheduler-backend/internal/parse"
	"interview-scheduler-backend/internal/schedule"
	"interview-scheduler-backend/internal/store"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	// ErrSlotEmpty is returned by Swap when neither slot has an occupant.
	ErrSlotEmpty = errors.New("neither slot is occupied")
	// ErrInvalidSiblingSlot is returned for sibling slots off the 15 minute grid.
	ErrInvalidSiblingSlot = errors.New("sibling slot must start on a 15 minute boundary")
)

// Options carries the optional collaborators of a Service.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Import  parse.Options
}

// Service loads board snapshots from the store and turns user actions into
// transactional writes.
type Service struct {
	store   store.Store
	log     *zap.Logger
	metrics *metrics.Metrics
	imports parse.Options
}

// New creates a Service. A nil logger is replaced by a no-op logger.
func New(st store.Store, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:   st,
		log:     log,
		metrics: opts.Metrics,
		imports: opts.Import,
	}
}

// board reads the generated slot universe and the roster in board order.
func (s *Service) board(ctx context.Context) (schedule.Roster, schedule.Universe, error) {
	rows, err := s.store.ListTimeRanges(ctx)
	if err != nil {
		return schedule.Roster{}, schedule.Universe{}, err
	}
	universe, err := schedule.Generate(toDomainRanges(rows))
	if err != nil {
		return schedule.Roster{}, schedule.Universe{}, fmt.Errorf("stored time ranges are invalid: %w", err)
	}

	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return schedule.Roster{}, schedule.Universe{}, err
	}
	roster, err := schedule.NewRoster(toDomainStudents(students))
	if err != nil {
		return schedule.Roster{}, schedule.Universe{}, err
	}
	return roster.ByConstraint(), universe, nil
}

func (s *Service) findStudent(ctx context.Context, st store.Store, id int64) (*model.Student, error) {
	student, err := st.FindStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("%w: %d", ErrStudentNotFound, id)
	}
	return student, nil
}
