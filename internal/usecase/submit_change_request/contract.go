package submit_change_request

import (
	"context"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	"github.com/avorotn/SBP-SchedulingService/internal/usecase/decide_change_request"
)

// ChangeRequestRepository интерфейс репозитория запросов на изменение
type ChangeRequestRepository interface {
	Create(ctx context.Context, req *domain.ChangeRequest) (*domain.ChangeRequest, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// SettingsRepository интерфейс репозитория настроек изменений
type SettingsRepository interface {
	GetWithHierarchy(ctx context.Context, businessID int64, specialistID *int64) (*domain.ClientChangeSettings, error)
}

// Approver интерфейс одобрения запроса, используется при
// requireMasterApproval=false для немедленного решения
type Approver interface {
	Execute(ctx context.Context, req *decide_change_request.Request) (*decide_change_request.Response, error)
}

// EventPublisher интерфейс публикатора доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
