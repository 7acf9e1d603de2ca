package submit_change_request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	appointmentRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/appointment"
	changeRequestRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/changerequest"
	changeSettingsRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/changesettings"
	"github.com/avorotn/SBP-SchedulingService/internal/usecase/decide_change_request"
	"github.com/avorotn/SBP-SchedulingService/pkg/ptr"
)

// Сообщения для пользователя
const (
	msgAutoApproved = "Одобрено автоматически: подтверждение мастера не требуется"
)

// UseCase use case подачи клиентом запроса на изменение записи
type UseCase struct {
	requestRepo     ChangeRequestRepository
	appointmentRepo AppointmentRepository
	settingsRepo    SettingsRepository
	approver        Approver
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	requestRepository ChangeRequestRepository,
	appointmentRepository AppointmentRepository,
	settingsRepository SettingsRepository,
	approver Approver,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		requestRepo:     requestRepository,
		appointmentRepo: appointmentRepository,
		settingsRepo:    settingsRepository,
		approver:        approver,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute подает запрос на изменение записи
// При выключенном requireMasterApproval запрос сразу уходит на одобрение
// тем же путём, что и решение менеджера: история запросов одинакова
// в обоих режимах
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitChangeRequest: appointment=%d, type=%s", req.AppointmentID, req.Type)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitChangeRequest: validation failed: %v", err)
		return nil, err
	}

	// 2. Запись должна существовать и быть изменяемой
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("SubmitChangeRequest: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("SubmitChangeRequest: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	if !appt.CanBeChanged() {
		uc.logger.Warn("SubmitChangeRequest: appointment id=%d in status=%s cannot be changed",
			appt.ID, appt.Status)
		return nil, ErrAppointmentNotChangeable
	}

	// 3. Настройки бизнеса: уровень специалиста перекрывает уровень бизнеса,
	// при отсутствии обоих действуют настройки по умолчанию
	settings, err := uc.settingsRepo.GetWithHierarchy(ctx, appt.BusinessID, ptr.Ptr(appt.SpecialistID))
	if err != nil {
		if errors.Is(err, changeSettingsRepo.ErrSettingsNotFound) {
			settings = domain.DefaultClientChangeSettings(appt.BusinessID)
		} else {
			uc.logger.Error("SubmitChangeRequest: failed to get settings for business=%d: %v",
				appt.BusinessID, err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
	}

	if !settings.AllowsType(req.Type) {
		uc.logger.Warn("SubmitChangeRequest: type=%s is disabled for business=%d", req.Type, appt.BusinessID)
		return nil, ErrChangesDisabled
	}

	// 4. Запрос должен быть подан заранее
	now := uc.timeProvider.Now()
	deadline := appt.StartAt.Add(-time.Duration(settings.MinHoursBefore) * time.Hour)
	if now.After(deadline) {
		uc.logger.Warn("SubmitChangeRequest: too late for appointment id=%d, start=%s, minHoursBefore=%d",
			appt.ID, appt.StartAt.Format(time.RFC3339), settings.MinHoursBefore)
		return nil, fmt.Errorf("%w: changes must be requested at least %d hours before start",
			ErrTooLate, settings.MinHoursBefore)
	}

	// 5. Для переноса вычисляем запрошенный интервал
	changeReq := &domain.ChangeRequest{
		AppointmentID: appt.ID,
		Type:          req.Type,
		ClientNote:    req.ClientNote,
	}

	if req.Type == domain.ChangeTypeReschedule {
		requested, err := uc.resolveRequestedRange(req, appt, now)
		if err != nil {
			return nil, err
		}
		changeReq.RequestedStartAt = &requested.Start
		changeReq.RequestedEndAt = &requested.End
	}

	// 6. Создаем запрос; второй нерешённый запрос по той же записи
	// отсекается уникальным индексом
	created, err := uc.requestRepo.Create(ctx, changeReq)
	if err != nil {
		if errors.Is(err, changeRequestRepo.ErrPendingRequestExists) {
			uc.logger.Warn("SubmitChangeRequest: pending request already exists for appointment id=%d", appt.ID)
			return nil, ErrRequestAlreadyPending
		}
		uc.logger.Error("SubmitChangeRequest: failed to create request: %v", err)
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	uc.logger.Info("SubmitChangeRequest: created request id=%d for appointment id=%d", created.ID, appt.ID)
	uc.publishSubmitted(ctx, created, appt)

	// 7. Без подтверждения мастера запрос одобряется сразу
	if !settings.RequireMasterApproval {
		return uc.autoApprove(ctx, created, appt)
	}

	return &Response{ChangeRequest: created}, nil
}

// resolveRequestedRange вычисляет запрошенный интервал переноса
// Нулевая длительность означает сохранение текущей длительности записи
func (uc *UseCase) resolveRequestedRange(
	req *Request,
	appt *domain.Appointment,
	now time.Time,
) (domain.TimeRange, error) {
	start := *req.RequestedStartAt

	if !start.After(now) {
		uc.logger.Warn("SubmitChangeRequest: requested start %s is in the past", start.Format(time.RFC3339))
		return domain.TimeRange{}, fmt.Errorf("%w: requestedStartAt must be in the future", ErrInvalidRange)
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	if req.DurationMinutes == 0 {
		duration = appt.EndAt.Sub(appt.StartAt)
	}
	if duration <= 0 {
		return domain.TimeRange{}, fmt.Errorf("%w: appointment has malformed duration", ErrInternal)
	}

	return domain.TimeRange{Start: start, End: start.Add(duration)}, nil
}

// autoApprove немедленно решает запрос через общий путь одобрения
// Если запрошенный слот уже занят, запрос остаётся pending, подача при
// этом считается успешной: мастер увидит его в обычной очереди
func (uc *UseCase) autoApprove(
	ctx context.Context,
	created *domain.ChangeRequest,
	appt *domain.Appointment,
) (*Response, error) {
	decided, err := uc.approver.Execute(ctx, &decide_change_request.Request{
		RequestID:    created.ID,
		Decision:     decide_change_request.DecisionApprove,
		DecisionNote: ptr.Ptr(msgAutoApproved),
	})
	if err != nil {
		if errors.Is(err, decide_change_request.ErrSlotNoLongerAvailable) {
			uc.logger.Warn("SubmitChangeRequest: auto-approval of request id=%d failed, slot taken, request stays pending",
				created.ID)
			return &Response{ChangeRequest: created}, nil
		}
		uc.logger.Error("SubmitChangeRequest: auto-approval of request id=%d failed: %v", created.ID, err)
		return &Response{ChangeRequest: created}, nil
	}

	uc.logger.Info("SubmitChangeRequest: request id=%d auto-approved", created.ID)

	return &Response{
		ChangeRequest: decided.ChangeRequest,
		AutoDecided:   true,
		Appointment:   decided.Appointment,
	}, nil
}

// publishSubmitted отправляет событие о поданном запросе
func (uc *UseCase) publishSubmitted(ctx context.Context, changeReq *domain.ChangeRequest, appt *domain.Appointment) {
	event := events.Event{
		Type:          events.TypeChangeRequestSubmitted,
		BusinessID:    appt.BusinessID,
		SpecialistID:  appt.SpecialistID,
		AppointmentID: appt.ID,
		RequestID:     &changeReq.ID,
		StartAt:       changeReq.RequestedStartAt,
		EndAt:         changeReq.RequestedEndAt,
		OccurredAt:    uc.timeProvider.Now(),
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("SubmitChangeRequest: failed to publish event: %v", err)
	}
}
