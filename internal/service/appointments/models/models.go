package models

import (
	"errors"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetClientAppointmentsRequest запрос на получение записей клиента
type GetClientAppointmentsRequest struct {
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetSpecialistAppointmentsRequest запрос на получение записей специалиста
type GetSpecialistAppointmentsRequest struct {
	UserID           int64      `json:"userId"`
	SpecialistID     int64      `json:"specialistId"`
	From             *time.Time `json:"from,omitempty"`             // Начало периода (опционально)
	To               *time.Time `json:"to,omitempty"`               // Конец периода (опционально)
	Status           *string    `json:"status,omitempty"`           // Фильтр по статусу (опционально)
	IncludeCancelled bool       `json:"includeCancelled,omitempty"` // Включить отменённые записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetSpecialistAppointmentsRequest) ToDomainFilter() (domain.SpecialistAppointmentsFilter, error) {
	filter := domain.SpecialistAppointmentsFilter{
		SpecialistID:    r.SpecialistID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID           int64  `json:"id"`
	BusinessID   int64  `json:"businessId"`
	SpecialistID int64  `json:"specialistId"`
	ClientID     *int64 `json:"clientId,omitempty"`
	StartAt      string `json:"startAt"` // ISO 8601
	EndAt        string `json:"endAt"`   // ISO 8601
	Status       string `json:"status"`

	ClientNote         *string `json:"clientNote,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:           a.ID,
		BusinessID:   a.BusinessID,
		SpecialistID: a.SpecialistID,
		ClientID:     a.ClientID,
		StartAt:      a.StartAt.Format(time.RFC3339),
		EndAt:        a.EndAt.Format(time.RFC3339),
		Status:       string(a.Status),
		ClientNote:   a.ClientNote,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	resp.CancellationReason = a.CancellationReason
	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainAppointments конвертирует список domain моделей в DTO
func FromDomainAppointments(appts []*domain.Appointment) *AppointmentListResponse {
	items := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		items = append(items, *FromDomainAppointment(a))
	}
	return &AppointmentListResponse{Appointments: items}
}

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	for _, s := range domain.ValidStatuses {
		if string(s) == status {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}
