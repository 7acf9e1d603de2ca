package create_appointment

import (
	"time"

	apptmodels "github.com/avorotn/SBP-SchedulingService/internal/service/appointments/models"
	createAppointment "github.com/avorotn/SBP-SchedulingService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	BusinessID      int64   `json:"businessId"`
	SpecialistID    int64   `json:"specialistId"`
	StartAt         string  `json:"startAt"` // ISO 8601
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	ClientNote      *string `json:"clientNote,omitempty"`
	AutoConfirm     bool    `json:"autoConfirm,omitempty"`
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	Appointment *apptmodels.AppointmentResponse `json:"appointment"`
	ManageToken string                          `json:"manageToken,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Запись привязывается к аутентифицированному пользователю
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		BusinessID:      r.BusinessID,
		SpecialistID:    r.SpecialistID,
		ClientID:        &userID,
		StartAt:         startAt,
		DurationMinutes: r.DurationMinutes,
		ClientNote:      r.ClientNote,
		AutoConfirm:     r.AutoConfirm,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *CreateAppointmentResponse {
	return &CreateAppointmentResponse{
		Appointment: apptmodels.FromDomainAppointment(resp.Appointment),
		ManageToken: resp.ManageToken,
	}
}
