package schedule

import "time"

// siblingOffsets are the distances from a sibling's slot at which a student
// may still be placed.
var siblingOffsets = []time.Duration{
	-2 * Interval,
	-Interval,
	Interval,
	2 * Interval,
}

// IsSettable reports whether student may occupy slot: the slot must be
// requested and, when the sibling already holds slots, sit next to one of
// them without overlapping.
func IsSettable(u Universe, slot time.Time, student Student) bool {
	if !student.Requests(slot) {
		return false
	}
	if student.Siblings.Kind() != SiblingWithSlots {
		return true
	}
	if student.Siblings.contains(slot) {
		return false
	}
	_, ok := neighbors(u, student.Siblings)[key(slot)]
	return ok
}

// SettableNeighbors returns, in order, the slots within two intervals of a
// sibling slot that exist in u and are not sibling slots themselves.
func SettableNeighbors(u Universe, siblingSlots []time.Time) []time.Time {
	set := neighbors(u, SiblingAt(siblingSlots...))
	out := make([]time.Time, 0, len(set))
	for _, t := range set {
		out = append(out, t)
	}
	sortTimes(out)
	return out
}

func neighbors(u Universe, s Siblings) map[int64]time.Time {
	out := make(map[int64]time.Time)
	for _, b := range s.slots {
		for _, off := range siblingOffsets {
			t := b.Add(off)
			if s.contains(t) || !u.Contains(t) {
				continue
			}
			out[key(t)] = t
		}
	}
	return out
}
