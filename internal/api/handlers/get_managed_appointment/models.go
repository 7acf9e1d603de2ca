package get_managed_appointment

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	apptmodels "github.com/avorotn/SBP-SchedulingService/internal/service/appointments/models"
)

// ManagedAppointmentResponse страница управления записью:
// сама запись плюс история запросов на изменение, новые первыми
type ManagedAppointmentResponse struct {
	Appointment    *apptmodels.AppointmentResponse `json:"appointment"`
	ChangeRequests []ChangeRequestItem             `json:"changeRequests"`
}

// ChangeRequestItem элемент истории запросов на изменение
type ChangeRequestItem struct {
	ID               int64   `json:"id"`
	Type             string  `json:"type"`
	Status           string  `json:"status"`
	RequestedStartAt *string `json:"requestedStartAt,omitempty"`
	ClientNote       *string `json:"clientNote,omitempty"`
	DecisionNote     *string `json:"decisionNote,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	DecidedAt        *string `json:"decidedAt,omitempty"`
}

// FromDomainChangeRequests конвертирует историю запросов в DTO
func FromDomainChangeRequests(requests []*domain.ChangeRequest) []ChangeRequestItem {
	items := make([]ChangeRequestItem, 0, len(requests))
	for _, r := range requests {
		item := ChangeRequestItem{
			ID:           r.ID,
			Type:         string(r.Type),
			Status:       string(r.Status),
			ClientNote:   r.ClientNote,
			DecisionNote: r.DecisionNote,
			CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		}

		if r.RequestedStartAt != nil {
			v := r.RequestedStartAt.Format(time.RFC3339)
			item.RequestedStartAt = &v
		}
		if r.DecidedAt != nil {
			v := r.DecidedAt.Format(time.RFC3339)
			item.DecidedAt = &v
		}

		items = append(items, item)
	}
	return items
}
