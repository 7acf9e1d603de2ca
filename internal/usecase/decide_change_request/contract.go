package decide_change_request

import (
	"context"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
)

// ChangeRequestRepository интерфейс репозитория запросов на изменение
type ChangeRequestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ChangeRequest, error)
	Decide(ctx context.Context, id int64, status domain.ChangeRequestStatus, decisionNote *string) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetBySpecialistForRange(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.Appointment, error)
	UpdateTimes(ctx context.Context, id int64, startAt, endAt time.Time) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	ListBlockedPeriods(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.BlockedPeriod, error)
}

// BusinessServiceClient интерфейс клиента BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
