package domain

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/pkg/types"
)

// DayWindow is the working window of a specialist for one day.
// When Enabled is false the day is off and Start/End are ignored.
type DayWindow struct {
	Enabled bool             `json:"enabled"`
	Start   types.TimeString `json:"start,omitempty"`
	End     types.TimeString `json:"end,omitempty"`
}

// IsValid returns true for a disabled window or an enabled one with start < end
func (w DayWindow) IsValid() bool {
	if !w.Enabled {
		return true
	}
	if w.Start.Validate() != nil || w.End.Validate() != nil {
		return false
	}
	return w.Start.IsBefore(w.End)
}

// WeeklyHours recurring weekly availability, one window per weekday
type WeeklyHours struct {
	Monday    DayWindow `json:"monday"`
	Tuesday   DayWindow `json:"tuesday"`
	Wednesday DayWindow `json:"wednesday"`
	Thursday  DayWindow `json:"thursday"`
	Friday    DayWindow `json:"friday"`
	Saturday  DayWindow `json:"saturday"`
	Sunday    DayWindow `json:"sunday"`
}

// ForWeekday returns the window configured for the given weekday
func (w WeeklyHours) ForWeekday(weekday time.Weekday) DayWindow {
	switch weekday {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DayWindow{Enabled: false}
	}
}

// IsEmpty returns true when no weekday is enabled
func (w WeeklyHours) IsEmpty() bool {
	days := []DayWindow{w.Monday, w.Tuesday, w.Wednesday, w.Thursday, w.Friday, w.Saturday, w.Sunday}
	for _, d := range days {
		if d.Enabled {
			return false
		}
	}
	return true
}

// DefaultWeeklyHours returns the schedule assigned to a new specialist:
// Mon-Fri 09:00-18:00, weekend off
func DefaultWeeklyHours() WeeklyHours {
	workday := DayWindow{Enabled: true, Start: DefaultWorkdayStart, End: DefaultWorkdayEnd}
	return WeeklyHours{
		Monday:    workday,
		Tuesday:   workday,
		Wednesday: workday,
		Thursday:  workday,
		Friday:    workday,
		Saturday:  DayWindow{Enabled: false},
		Sunday:    DayWindow{Enabled: false},
	}
}

// SpecialistSchedule holds the full availability configuration of a specialist.
// DateOverrides fully replace the weekday default for their date, including
// turning a working day off or an off day on.
type SpecialistSchedule struct {
	ID            int64
	BusinessID    int64
	SpecialistID  int64
	Weekly        WeeklyHours
	DateOverrides map[string]DayWindow // key: "YYYY-MM-DD"

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WindowForDate resolves the effective working window for a calendar date.
// Override first, weekday default second.
func (s *SpecialistSchedule) WindowForDate(date time.Time) DayWindow {
	if s.DateOverrides != nil {
		if window, ok := s.DateOverrides[date.Format(DateFormat)]; ok {
			return window
		}
	}
	return s.Weekly.ForWeekday(date.Weekday())
}

// IsConfigured returns false when the schedule carries no availability
// information at all (no enabled weekday and no overrides)
func (s *SpecialistSchedule) IsConfigured() bool {
	return !s.Weekly.IsEmpty() || len(s.DateOverrides) > 0
}
