package schedule

import (
	"context"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetBySpecialist(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error)
	Create(ctx context.Context, sched *domain.SpecialistSchedule) (*domain.SpecialistSchedule, error)
	Update(ctx context.Context, sched *domain.SpecialistSchedule) error
	ListBlockedPeriods(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.BlockedPeriod, error)
	CreateBlockedPeriod(ctx context.Context, period *domain.BlockedPeriod) (*domain.BlockedPeriod, error)
	DeleteBlockedPeriods(ctx context.Context, specialistID int64, ids []int64) error
	DeleteBlockedPeriod(ctx context.Context, specialistID, id int64) error
}

// BusinessServiceClient интерфейс клиента BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
