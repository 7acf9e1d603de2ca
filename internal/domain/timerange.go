package domain

import "time"

// TimeRange is a half-open interval [Start, End) on the absolute timeline
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// IsValid returns true when End is strictly after Start
func (r TimeRange) IsValid() bool {
	return r.End.After(r.Start)
}

// Overlaps reports whether two half-open ranges intersect.
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1: ranges that
// merely touch at a boundary do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Touches reports whether two ranges overlap or share a boundary.
// Used when merging blocked periods into maximal non-overlapping runs.
func (r TimeRange) Touches(other TimeRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Union returns the smallest range covering both. Only meaningful
// when the ranges touch.
func (r TimeRange) Union(other TimeRange) TimeRange {
	start := r.Start
	if other.Start.Before(start) {
		start = other.Start
	}
	end := r.End
	if other.End.After(end) {
		end = other.End
	}
	return TimeRange{Start: start, End: end}
}

// HasConflict reports whether the candidate range intersects any appointment
// that still occupies its slot. excludeID skips the appointment being moved
// during a reschedule check (0 excludes nothing).
//
// Единственная точка истины для проверки пересечений: и подбор слотов,
// и фиксация записи обязаны ходить через эту функцию.
func HasConflict(appointments []*Appointment, candidate TimeRange, excludeID int64) bool {
	for _, appt := range appointments {
		if appt.ID == excludeID && excludeID != 0 {
			continue
		}
		if !appt.OccupiesSlot() {
			continue
		}
		r := appt.Range()
		// Некорректно сохранённые интервалы (end <= start) пропускаем,
		// они не должны блокировать расчёт
		if !r.IsValid() {
			continue
		}
		if candidate.Overlaps(r) {
			return true
		}
	}
	return false
}
