package create_appointment

import (
	"context"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	GetBySpecialistForRange(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetBySpecialist(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error)
	ListBlockedPeriods(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.BlockedPeriod, error)
}

// BusinessServiceClient интерфейс клиента BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
	GetSpecialist(ctx context.Context, businessID, specialistID int64) (*businessservice.Specialist, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикатора доменных событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// TokenIssuer интерфейс выпуска токенов управления записью
type TokenIssuer interface {
	Issue(appointmentID int64, now time.Time) (string, error)
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
