package create_appointment

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	BusinessID      int64
	SpecialistID    int64
	ClientID        *int64 // nil для записей, созданных мастером вручную
	StartAt         time.Time
	DurationMinutes int     // 0 = длительность слота по умолчанию
	ClientNote      *string // Пожелание клиента
	AutoConfirm     bool    // true - запись сразу в статусе confirmed
}

// Response модель ответа с созданной записью
// ManageToken выдаётся клиенту для последующих запросов на изменение
type Response struct {
	Appointment *domain.Appointment
	ManageToken string
}
