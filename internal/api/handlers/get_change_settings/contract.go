package get_change_settings

import (
	"context"

	"github.com/avorotn/SBP-SchedulingService/internal/service/changesettings/models"
)

type SettingsService interface {
	GetSettings(ctx context.Context, businessID int64, specialistID *int64, userID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
