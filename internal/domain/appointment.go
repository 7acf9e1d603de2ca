package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusDone      AppointmentStatus = "done"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a booked visit to a specialist
type Appointment struct {
	ID           int64
	BusinessID   int64
	SpecialistID int64
	ClientID     *int64 // nil for walk-in/manual bookings
	StartAt      time.Time
	EndAt        time.Time
	Status       AppointmentStatus

	ClientNote         *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot returns true if the appointment blocks its time range.
// Cancelled appointments free the slot and are excluded from conflict checks.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeChanged returns true if a client change request may target the appointment
func (a *Appointment) CanBeChanged() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Range returns the occupied time range of the appointment
func (a *Appointment) Range() TimeRange {
	return TimeRange{Start: a.StartAt, End: a.EndAt}
}

// SpecialistAppointmentsFilter фильтр для выборки записей специалиста
type SpecialistAppointmentsFilter struct {
	SpecialistID    int64              // Обязательный параметр
	From            *time.Time         // Начало периода (опционально)
	To              *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые записи
}
