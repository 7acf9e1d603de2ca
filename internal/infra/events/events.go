package events

import "time"

// Типы доменных событий ядра
// Внешние системы (push/SMS/Telegram) подписываются на них,
// само ядро сообщений не отправляет
const (
	TypeAppointmentBooked      = "AppointmentBooked"
	TypeAppointmentConfirmed   = "AppointmentConfirmed"
	TypeAppointmentCompleted   = "AppointmentCompleted"
	TypeAppointmentCancelled   = "AppointmentCancelled"
	TypeAppointmentRescheduled = "AppointmentRescheduled"
	TypeChangeRequestSubmitted = "ChangeRequestSubmitted"
	TypeChangeRequestDecided   = "ChangeRequestDecided"
)

// Event доменное событие сервиса
type Event struct {
	Type          string     `json:"type"`
	BusinessID    int64      `json:"businessId"`
	SpecialistID  int64      `json:"specialistId"`
	AppointmentID int64      `json:"appointmentId"`
	RequestID     *int64     `json:"requestId,omitempty"`
	StartAt       *time.Time `json:"startAt,omitempty"`
	EndAt         *time.Time `json:"endAt,omitempty"`
	OccurredAt    time.Time  `json:"occurredAt"`
}
