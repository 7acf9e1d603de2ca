package get_managed_appointment

import (
	"context"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByManageToken(ctx context.Context, appointmentID int64) (*models.AppointmentResponse, error)
}

// ChangeRequestRepository читает историю запросов на изменение записи
type ChangeRequestRepository interface {
	ListByAppointment(ctx context.Context, appointmentID int64) ([]*domain.ChangeRequest, error)
}

// TokenVerifier проверяет токен управления записью
type TokenVerifier interface {
	Verify(tokenString string) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
