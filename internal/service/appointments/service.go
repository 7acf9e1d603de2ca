package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	appointmentRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/appointment"
	scheduleRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/schedule"
	bizClient "github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	bizClient       BusinessServiceClient
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	bizClient BusinessServiceClient,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		bizClient:       bizClient,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - запись видит её клиент или менеджер бизнеса
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.getAppointment(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetByManageToken получает запись по ID из проверенного токена управления
// Права не проверяются: владение токеном и есть доступ
func (s *Service) GetByManageToken(ctx context.Context, appointmentID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByManageToken: fetching appointment id=%d", appointmentID)

	appt, err := s.getAppointment(ctx, appointmentID, "GetByManageToken")
	if err != nil {
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetClientAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for client=%d, status=%v", req.ClientID, req.Status)

	var status *domain.AppointmentStatus
	if req.Status != nil {
		converted, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &converted
	}

	appts, err := s.appointmentRepo.GetByClientID(ctx, req.ClientID)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	if status != nil {
		filtered := make([]*domain.Appointment, 0, len(appts))
		for _, a := range appts {
			if a.Status == *status {
				filtered = append(filtered, a)
			}
		}
		appts = filtered
	}

	s.logger.Info("GetClientAppointments: found %d appointments for client=%d", len(appts), req.ClientID)
	return models.FromDomainAppointments(appts), nil
}

// GetSpecialistAppointments получает записи специалиста за период
// Доступно только менеджерам бизнеса
func (s *Service) GetSpecialistAppointments(ctx context.Context, req *models.GetSpecialistAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetSpecialistAppointments: fetching appointments for specialist=%d by user=%d",
		req.SpecialistID, req.UserID)

	if err := s.checkSpecialistManagerAccess(ctx, req.SpecialistID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSpecialistAppointments: invalid filter for specialist=%d: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appts, err := s.appointmentRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetSpecialistAppointments: repository error for specialist=%d: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: GetSpecialistAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSpecialistAppointments: found %d appointments for specialist=%d", len(appts), req.SpecialistID)
	return models.FromDomainAppointments(appts), nil
}

// UpdateStatus переводит запись в новый статус
// Доступно только менеджерам бизнеса; отмена выполняется отдельным методом
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d", id, req.Status, req.UserID)

	appt, err := s.getAppointment(ctx, id, "UpdateStatus")
	if err != nil {
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, appt.BusinessID, req.UserID); err != nil {
		s.logger.Warn("UpdateStatus: access denied for user=%d to appointment id=%d", req.UserID, id)
		return nil, err
	}

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, ErrInvalidStatus
	}

	if !isAllowedTransition(appt.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
			appt.Status, newStatus, id)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, newStatus)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.publishStatusEvent(ctx, appt, newStatus)

	updated, err := s.getAppointment(ctx, id, "UpdateStatus")
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: appointment id=%d moved to status=%s", id, newStatus)
	return models.FromDomainAppointment(updated), nil
}

// Cancel отменяет запись
// Доступно клиенту записи и менеджерам бизнеса
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.UserID)

	appt, err := s.getAppointment(ctx, id, "Cancel")
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, appt, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, id)
		return nil, err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d in status=%s cannot be cancelled", id, appt.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrCannotCancel, appt.Status)
	}

	if err := s.appointmentRepo.Cancel(ctx, id, req.CancellationReason); err != nil {
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.publishStatusEvent(ctx, appt, domain.StatusCancelled)

	cancelled, err := s.getAppointment(ctx, id, "Cancel")
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", id)
	return models.FromDomainAppointment(cancelled), nil
}

// getAppointment загружает запись, транслируя ошибку хранилища
func (s *Service) getAppointment(ctx context.Context, id int64, op string) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// checkUserAccess проверяет, что пользователь - клиент записи или менеджер бизнеса
func (s *Service) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	if appt.ClientID != nil && *appt.ClientID == userID {
		return nil
	}
	return s.checkManagerAccess(ctx, appt.BusinessID, userID)
}

// checkManagerAccess проверяет, что пользователь - менеджер бизнеса
func (s *Service) checkManagerAccess(ctx context.Context, businessID, userID int64) error {
	business, err := s.bizClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, bizClient.ErrBusinessNotFound) {
			return ErrBusinessNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkManagerAccess - integration error: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		return ErrAccessDenied
	}

	return nil
}

// checkSpecialistManagerAccess проверяет права менеджера через бизнес специалиста
// Бизнес специалиста разрешается по строке его расписания
func (s *Service) checkSpecialistManagerAccess(ctx context.Context, specialistID, userID int64) error {
	sched, err := s.scheduleRepo.GetBySpecialist(ctx, specialistID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("checkSpecialistManagerAccess: specialist id=%d has no schedule", specialistID)
			return ErrSpecialistNotFound
		}
		s.logger.Error("checkSpecialistManagerAccess: repository error for specialist=%d: %v", specialistID, err)
		return fmt.Errorf("%w: checkSpecialistManagerAccess - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, sched.BusinessID, userID); err != nil {
		s.logger.Warn("checkSpecialistManagerAccess: access denied for user=%d to specialist=%d", userID, specialistID)
		return err
	}

	return nil
}

// isAllowedTransition проверяет допустимость перехода статуса
// Отмена идёт отдельным путём с причиной, done и cancelled терминальны
func isAllowedTransition(from, to domain.AppointmentStatus) bool {
	switch from {
	case domain.StatusPending:
		return to == domain.StatusConfirmed || to == domain.StatusDone
	case domain.StatusConfirmed:
		return to == domain.StatusDone
	default:
		return false
	}
}

// publishStatusEvent отправляет событие о смене статуса записи
func (s *Service) publishStatusEvent(ctx context.Context, appt *domain.Appointment, status domain.AppointmentStatus) {
	var eventType string
	switch status {
	case domain.StatusConfirmed:
		eventType = events.TypeAppointmentConfirmed
	case domain.StatusDone:
		eventType = events.TypeAppointmentCompleted
	case domain.StatusCancelled:
		eventType = events.TypeAppointmentCancelled
	default:
		return
	}

	event := events.Event{
		Type:          eventType,
		BusinessID:    appt.BusinessID,
		SpecialistID:  appt.SpecialistID,
		AppointmentID: appt.ID,
		OccurredAt:    s.timeProvider.Now(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("publishStatusEvent: failed to publish %s for appointment id=%d: %v",
			eventType, appt.ID, err)
	}
}
