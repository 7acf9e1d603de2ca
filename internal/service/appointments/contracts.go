package appointments

import (
	"context"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByFilter(ctx context.Context, filter domain.SpecialistAppointmentsFilter) ([]*domain.Appointment, error)
	GetByClientID(ctx context.Context, clientID int64) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// ScheduleRepository интерфейс репозитория расписаний
// Используется для разрешения бизнеса специалиста при проверке прав
type ScheduleRepository interface {
	GetBySpecialist(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error)
}

// BusinessServiceClient интерфейс клиента BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
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
