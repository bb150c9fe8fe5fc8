package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Interval is the fixed length of an interview slot.
const Interval = 15 * time.Minute

// ErrInvalidRange is matched by every InvalidRangeError.
var ErrInvalidRange = errors.New("end time must be after start time")

// InvalidRangeError reports a time range whose end is not after its start.
type InvalidRangeError struct {
	Range TimeRange
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid time range %s - %s: %v",
		e.Range.Start.Format(time.RFC3339), e.Range.End.Format(time.RFC3339), ErrInvalidRange)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// TimeRange is a configured interview window.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Validate rejects ranges with End <= Start.
func (r TimeRange) Validate() error {
	if !r.End.After(r.Start) {
		return &InvalidRangeError{Range: r}
	}
	return nil
}

// Universe is the set of bookable slot instants.
type Universe struct {
	slots map[int64]time.Time
}

// Generate expands every range into Interval-spaced instants. All ranges are
// validated before any expansion happens.
func Generate(ranges []TimeRange) (Universe, error) {
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return Universe{}, err
		}
	}

	u := Universe{slots: make(map[int64]time.Time)}
	for _, r := range ranges {
		last := r.End.Add(-Interval)
		for t := r.Start; !t.After(last); t = t.Add(Interval) {
			u.slots[key(t)] = t
		}
	}
	return u, nil
}

// NewUniverse builds a universe from explicit instants.
func NewUniverse(slots ...time.Time) Universe {
	u := Universe{slots: make(map[int64]time.Time, len(slots))}
	for _, t := range slots {
		u.slots[key(t)] = t
	}
	return u
}

// Contains reports whether t is a generated slot.
func (u Universe) Contains(t time.Time) bool {
	_, ok := u.slots[key(t)]
	return ok
}

// Len returns the number of distinct slots.
func (u Universe) Len() int { return len(u.slots) }

// Sorted returns the slots in chronological order.
func (u Universe) Sorted() []time.Time {
	out := make([]time.Time, 0, len(u.slots))
	for _, t := range u.slots {
		out = append(out, t)
	}
	sortTimes(out)
	return out
}

// key identifies an instant independent of its location.
func key(t time.Time) int64 { return t.Unix() }

func sortTimes(ts []time.Time) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}
