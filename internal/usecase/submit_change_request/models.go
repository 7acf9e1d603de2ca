package submit_change_request

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
)

// Request модель запроса на изменение записи
// AppointmentID разрешается обработчиком из токена управления записью
type Request struct {
	AppointmentID int64
	Type          domain.ChangeRequestType

	// Только для reschedule
	RequestedStartAt *time.Time
	DurationMinutes  int // 0 = сохранить текущую длительность записи

	ClientNote *string
}

// Response модель ответа с созданным запросом
// AutoDecided = true, если запрос был решён сразу при подаче
// (requireMasterApproval выключен); Appointment заполнена в этом случае
type Response struct {
	ChangeRequest *domain.ChangeRequest
	AutoDecided   bool
	Appointment   *domain.Appointment
}
