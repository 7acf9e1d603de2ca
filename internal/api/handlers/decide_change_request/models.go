package decide_change_request

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	apptmodels "github.com/avorotn/SBP-SchedulingService/internal/service/appointments/models"
	decideChangeRequest "github.com/avorotn/SBP-SchedulingService/internal/usecase/decide_change_request"
)

// DecideChangeRequestRequest HTTP request model
type DecideChangeRequestRequest struct {
	Decision     string  `json:"decision"` // approve | reject
	DecisionNote *string `json:"decisionNote,omitempty"`
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

// DecideChangeRequestResponse HTTP response model
type DecideChangeRequestResponse struct {
	ChangeRequest *ChangeRequestResponse          `json:"changeRequest"`
	Appointment   *apptmodels.AppointmentResponse `json:"appointment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *DecideChangeRequestRequest) ToUseCaseRequest(requestID, userID int64) *decideChangeRequest.Request {
	return &decideChangeRequest.Request{
		RequestID:    requestID,
		ActorUserID:  userID,
		Decision:     decideChangeRequest.Decision(r.Decision),
		DecisionNote: r.DecisionNote,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *decideChangeRequest.Response) *DecideChangeRequestResponse {
	out := &DecideChangeRequestResponse{
		ChangeRequest: FromDomainChangeRequest(resp.ChangeRequest),
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
