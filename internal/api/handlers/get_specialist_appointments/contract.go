package get_specialist_appointments

import (
	"context"

	"github.com/avorotn/SBP-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetSpecialistAppointments(ctx context.Context, req *models.GetSpecialistAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
