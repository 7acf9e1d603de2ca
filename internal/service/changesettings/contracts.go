package changesettings

import (
	"context"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
)

// SettingsRepository интерфейс репозитория настроек изменений
type SettingsRepository interface {
	GetWithHierarchy(ctx context.Context, businessID int64, specialistID *int64) (*domain.ClientChangeSettings, error)
	Upsert(ctx context.Context, settings *domain.ClientChangeSettings) (*domain.ClientChangeSettings, error)
}

// BusinessServiceClient интерфейс клиента BusinessService
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
