package submit_change_request

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	apptmodels "github.com/avorotn/SBP-SchedulingService/internal/service/appointments/models"
	submitChangeRequest "github.com/avorotn/SBP-SchedulingService/internal/usecase/submit_change_request"
)

// SubmitChangeRequestRequest HTTP request model
type SubmitChangeRequestRequest struct {
	Type             string  `json:"type"` // reschedule | cancel
	RequestedStartAt *string `json:"requestedStartAt,omitempty"`
	DurationMinutes  int     `json:"durationMinutes,omitempty"`
	ClientNote       *string `json:"clientNote,omitempty"`
}

// ChangeRequestResponse HTTP модель запроса на изменение
type ChangeRequestResponse struct {
	ID               int64   `json:"id"`
	AppointmentID    int64   `json:"appointmentId"`
	Type             string  `json:"type"`
	Status           string  `json:"status"`
	RequestedStartAt *string `json:"requestedStartAt,omitempty"`
	RequestedEndAt   *string `json:"requestedEndAt,omitempty"`
	ClientNote       *string `json:"clientNote,omitempty"`
	DecisionNote     *string `json:"decisionNote,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	DecidedAt        *string `json:"decidedAt,omitempty"`
}

// SubmitChangeRequestResponse HTTP response model
type SubmitChangeRequestResponse struct {
	ChangeRequest *ChangeRequestResponse          `json:"changeRequest"`
	AutoDecided   bool                            `json:"autoDecided,omitempty"`
	Appointment   *apptmodels.AppointmentResponse `json:"appointment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitChangeRequestRequest) ToUseCaseRequest(appointmentID int64) (*submitChangeRequest.Request, error) {
	req := &submitChangeRequest.Request{
		AppointmentID:   appointmentID,
		Type:            domain.ChangeRequestType(r.Type),
		DurationMinutes: r.DurationMinutes,
		ClientNote:      r.ClientNote,
	}

	if r.RequestedStartAt != nil {
		startAt, err := time.Parse(time.RFC3339, *r.RequestedStartAt)
		if err != nil {
			return nil, err
		}
		req.RequestedStartAt = &startAt
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitChangeRequest.Response) *SubmitChangeRequestResponse {
	out := &SubmitChangeRequestResponse{
		ChangeRequest: FromDomainChangeRequest(resp.ChangeRequest),
		AutoDecided:   resp.AutoDecided,
	}

	if resp.Appointment != nil {
		out.Appointment = apptmodels.FromDomainAppointment(resp.Appointment)
	}

	return out
}

// FromDomainChangeRequest конвертирует domain модель в DTO
func FromDomainChangeRequest(r *domain.ChangeRequest) *ChangeRequestResponse {
	if r == nil {
		return nil
	}

	resp := &ChangeRequestResponse{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		Type:          string(r.Type),
		Status:        string(r.Status),
		ClientNote:    r.ClientNote,
		DecisionNote:  r.DecisionNote,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}

	if r.RequestedStartAt != nil {
		v := r.RequestedStartAt.Format(time.RFC3339)
		resp.RequestedStartAt = &v
	}
	if r.RequestedEndAt != nil {
		v := r.RequestedEndAt.Format(time.RFC3339)
		resp.RequestedEndAt = &v
	}
	if r.DecidedAt != nil {
		v := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}

	return resp
}
