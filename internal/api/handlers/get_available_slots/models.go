package get_available_slots

import (
	"fmt"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	getAvailableSlots "github.com/avorotn/SBP-SchedulingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	BusinessID      int64           `json:"businessId"`
	SpecialistID    int64           `json:"specialistId"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
	Reason          *string         `json:"reason,omitempty"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartAt         string `json:"startAt"` // ISO 8601
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartAt:         slot.StartAt.Format(time.RFC3339),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	out := &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		BusinessID:      resp.BusinessID,
		SpecialistID:    resp.SpecialistID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}

	if resp.Reason != nil {
		reason := string(*resp.Reason)
		out.Reason = &reason
	}

	return out
}

// ToUseCaseRequest создает запрос use case из параметров URL
func ToUseCaseRequest(businessID, specialistID int64, dateStr string, durationMinutes int) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q does not match %s", getAvailableSlots.ErrInvalidDate, dateStr, domain.DateFormat)
	}

	return &getAvailableSlots.Request{
		BusinessID:      businessID,
		SpecialistID:    specialistID,
		Date:            date,
		DurationMinutes: durationMinutes,
	}, nil
}
