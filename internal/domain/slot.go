package domain

import "time"

// Slot represents a bookable start time on the fixed slot grid
type Slot struct {
	StartAt         time.Time
	DurationMinutes int
}

// End returns the end of the tentative occupied range of the slot
func (s Slot) End() time.Time {
	return s.StartAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Range returns the tentative occupied range [StartAt, StartAt+duration)
func (s Slot) Range() TimeRange {
	return TimeRange{Start: s.StartAt, End: s.End()}
}

// NoSlotsReason explains an empty slot list to the caller.
// Absent when the returned slot list is non-empty.
type NoSlotsReason string

const (
	// ReasonScheduleNotConfigured у специалиста вообще нет расписания
	ReasonScheduleNotConfigured NoSlotsReason = "SCHEDULE_NOT_CONFIGURED"

	// ReasonDayOff день выходной (по недельному расписанию или override)
	ReasonDayOff NoSlotsReason = "DAY_OFF"

	// ReasonAllOccupied рабочий день есть, но все слоты заняты или заблокированы
	ReasonAllOccupied NoSlotsReason = "ALL_OCCUPIED"
)
