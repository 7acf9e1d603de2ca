package get_available_slots

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID      int64     // ID бизнеса
	SpecialistID    int64     // ID специалиста
	Date            time.Time // Календарная дата (без времени)
	DurationMinutes int       // Длительность услуги, 0 = длительность слота по умолчанию
}

// Response модель ответа со списком доступных слотов
// Reason заполняется только при пустом списке слотов
type Response struct {
	BusinessID      int64
	SpecialistID    int64
	Date            time.Time
	DurationMinutes int
	Slots           []domain.Slot
	Reason          *domain.NoSlotsReason
}

func emptyResponse(req *Request, duration int, reason domain.NoSlotsReason) *Response {
	return &Response{
		BusinessID:      req.BusinessID,
		SpecialistID:    req.SpecialistID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           []domain.Slot{},
		Reason:          &reason,
	}
}
