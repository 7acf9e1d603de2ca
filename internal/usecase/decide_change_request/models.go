package decide_change_request

import "github.com/avorotn/SBP-SchedulingService/internal/domain"

// Decision решение менеджера по запросу на изменение
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Request модель запроса на вынесение решения
// ActorUserID = 0 означает системный вызов (автоодобрение при
// requireMasterApproval=false), проверка прав при этом пропускается
type Request struct {
	RequestID    int64
	ActorUserID  int64
	Decision     Decision
	DecisionNote *string
}

// Response модель ответа с решённым запросом
// Appointment заполнена, если решение изменило запись
type Response struct {
	ChangeRequest *domain.ChangeRequest
	Appointment   *domain.Appointment
}
