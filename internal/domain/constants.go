package domain

import "github.com/avorotn/SBP-SchedulingService/pkg/types"

// Default configuration values
const (
	// SlotStepMinutes шаг сетки слотов: кандидаты генерируются каждые 30 минут
	SlotStepMinutes = 30

	DefaultDurationMinutes = 30
	DefaultMinHoursBefore  = 2

	DefaultWorkdayStart = types.TimeString("09:00")
	DefaultWorkdayEnd   = types.TimeString("18:00")
)

// Business validation constants
const (
	MinDurationMinutes = 5
	MaxDurationMinutes = 480 // 8 hours

	MinHoursBeforeLimit = 720 // 30 days

	MaxNoteLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses статусы записей, которые блокируют слот
// Используются при фильтрации в проверке пересечений
var OccupyingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusDone,
}

// ValidStatuses все допустимые статусы записи
var ValidStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusDone,
	StatusCancelled,
}
