package decide_change_request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	appointmentRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/appointment"
	changeRequestRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/changerequest"
	bizClient "github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/pkg/txmanager"
)

// Сообщения для пользователя
const (
	msgCancelledByClientRequest = "Отменено по одобренному запросу клиента"
)

// UseCase use case вынесения решения по запросу на изменение записи
type UseCase struct {
	requestRepo     ChangeRequestRepository
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	bizClient       BusinessServiceClient
	txManager       TxManager
	publisher       EventPublisher
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	requestRepository ChangeRequestRepository,
	appointmentRepository AppointmentRepository,
	scheduleRepository ScheduleRepository,
	businessClient BusinessServiceClient,
	txMgr TxManager,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		requestRepo:     requestRepository,
		appointmentRepo: appointmentRepository,
		scheduleRepo:    scheduleRepository,
		bizClient:       businessClient,
		txManager:       txMgr,
		publisher:       publisher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выносит решение по запросу
// Запрос решается ровно один раз: терминальные статусы неизменяемы
// Особый случай: если при одобрении переноса запрошенный слот уже занят,
// запрос остаётся pending, а вызывающий получает ErrSlotNoLongerAvailable
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("DecideChangeRequest: request=%d, actor=%d, decision=%s",
		req.RequestID, req.ActorUserID, req.Decision)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("DecideChangeRequest: validation failed: %v", err)
		return nil, err
	}

	changeReq, err := uc.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, changeRequestRepo.ErrRequestNotFound) {
			uc.logger.Warn("DecideChangeRequest: request id=%d not found", req.RequestID)
			return nil, ErrRequestNotFound
		}
		uc.logger.Error("DecideChangeRequest: failed to get request id=%d: %v", req.RequestID, err)
		return nil, fmt.Errorf("%w: failed to get request: %v", ErrInternal, err)
	}

	if !changeReq.IsPending() {
		uc.logger.Warn("DecideChangeRequest: request id=%d already decided, status=%s",
			changeReq.ID, changeReq.Status)
		return nil, ErrAlreadyDecided
	}

	appt, err := uc.appointmentRepo.GetByID(ctx, changeReq.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Error("DecideChangeRequest: appointment id=%d of request id=%d is missing",
				changeReq.AppointmentID, changeReq.ID)
			return nil, fmt.Errorf("%w: appointment not found", ErrInternal)
		}
		uc.logger.Error("DecideChangeRequest: failed to get appointment id=%d: %v",
			changeReq.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// ActorUserID = 0 - вызов из автоодобрения, без проверки прав
	if req.ActorUserID != 0 {
		if err := uc.checkManagerAccess(ctx, appt.BusinessID, req.ActorUserID); err != nil {
			return nil, err
		}
	}

	switch req.Decision {
	case DecisionReject:
		return uc.reject(ctx, changeReq, appt, req.DecisionNote)
	case DecisionApprove:
		switch changeReq.Type {
		case domain.ChangeTypeCancel:
			return uc.approveCancel(ctx, changeReq, appt, req.DecisionNote)
		case domain.ChangeTypeReschedule:
			return uc.approveReschedule(ctx, changeReq, appt, req.DecisionNote)
		default:
			return nil, fmt.Errorf("%w: unknown request type %q", ErrInternal, changeReq.Type)
		}
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, req.Decision)
	}
}

// reject отклоняет запрос, запись не меняется
func (uc *UseCase) reject(
	ctx context.Context,
	changeReq *domain.ChangeRequest,
	appt *domain.Appointment,
	note *string,
) (*Response, error) {
	if err := uc.decide(ctx, changeReq.ID, domain.ChangeStatusRejected, note); err != nil {
		return nil, err
	}

	uc.logger.Info("DecideChangeRequest: request id=%d rejected", changeReq.ID)
	uc.publishDecided(ctx, changeReq, appt)

	return uc.buildResponse(ctx, changeReq.ID, appt)
}

// approveCancel одобряет отмену: запись отменяется и запрос решается
// в одной транзакции
func (uc *UseCase) approveCancel(
	ctx context.Context,
	changeReq *domain.ChangeRequest,
	appt *domain.Appointment,
	note *string,
) (*Response, error) {
	if !appt.CanBeCancelled() {
		uc.logger.Warn("DecideChangeRequest: appointment id=%d in status=%s cannot be cancelled",
			appt.ID, appt.Status)
		return nil, ErrAppointmentNotChangeable
	}

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.appointmentRepo.Cancel(txCtx, appt.ID, msgCancelledByClientRequest); err != nil {
			return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}
		return uc.decide(txCtx, changeReq.ID, domain.ChangeStatusApproved, note)
	})
	if err != nil {
		uc.logger.Error("DecideChangeRequest: approve cancel failed for request id=%d: %v",
			changeReq.ID, err)
		return nil, err
	}

	uc.logger.Info("DecideChangeRequest: request id=%d approved, appointment id=%d cancelled",
		changeReq.ID, appt.ID)

	uc.publishEvent(ctx, events.TypeAppointmentCancelled, appt, nil, nil)
	uc.publishDecided(ctx, changeReq, appt)

	return uc.buildResponse(ctx, changeReq.ID, appt)
}

// approveReschedule одобряет перенос
// Повторная проверка занятости и перенос выполняются в одной
// serializable-транзакции, чтобы слот не увели между проверкой и записью
func (uc *UseCase) approveReschedule(
	ctx context.Context,
	changeReq *domain.ChangeRequest,
	appt *domain.Appointment,
	note *string,
) (*Response, error) {
	if !appt.CanBeChanged() {
		uc.logger.Warn("DecideChangeRequest: appointment id=%d in status=%s cannot be changed",
			appt.ID, appt.Status)
		return nil, ErrAppointmentNotChangeable
	}

	requested := changeReq.RequestedRange()
	if !requested.IsValid() {
		uc.logger.Error("DecideChangeRequest: request id=%d has malformed requested range", changeReq.ID)
		return nil, fmt.Errorf("%w: malformed requested range", ErrInternal)
	}

	now := uc.timeProvider.Now()
	if !requested.Start.After(now) {
		// Запрошенный слот уже в прошлом, одобрять нечего
		uc.logger.Warn("DecideChangeRequest: requested slot %s of request id=%d is in the past",
			requested.Start.Format(time.RFC3339), changeReq.ID)
		return nil, ErrSlotNoLongerAvailable
	}

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Блокируем записи, пересекающие запрошенный интервал
		existing, err := uc.appointmentRepo.GetBySpecialistForRange(
			txCtx, appt.SpecialistID, requested.Start, requested.End)
		if err != nil {
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// Собственная запись клиента конфликтом не считается
		if domain.HasConflict(existing, requested, appt.ID) {
			return ErrSlotNoLongerAvailable
		}

		blocked, err := uc.scheduleRepo.ListBlockedPeriods(
			txCtx, appt.SpecialistID, requested.Start, requested.End)
		if err != nil {
			return fmt.Errorf("%w: failed to list blocked periods: %v", ErrInternal, err)
		}
		for _, p := range blocked {
			if p.Range().IsValid() && requested.Overlaps(p.Range()) {
				return ErrSlotNoLongerAvailable
			}
		}

		if err := uc.appointmentRepo.UpdateTimes(txCtx, appt.ID, requested.Start, requested.End); err != nil {
			return fmt.Errorf("%w: failed to update appointment times: %v", ErrInternal, err)
		}

		return uc.decide(txCtx, changeReq.ID, domain.ChangeStatusApproved, note)
	})
	if err != nil {
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			// Запрос остаётся pending: менеджер может решить его позже,
			// когда клиент предложит другое время
			uc.logger.Warn("DecideChangeRequest: requested slot of request id=%d is taken, request stays pending",
				changeReq.ID)
			return nil, ErrSlotNoLongerAvailable
		}
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("DecideChangeRequest: serialization failure for request id=%d: %v",
				changeReq.ID, err)
			return nil, ErrWriteConflict
		}
		uc.logger.Error("DecideChangeRequest: approve reschedule failed for request id=%d: %v",
			changeReq.ID, err)
		return nil, err
	}

	uc.logger.Info("DecideChangeRequest: request id=%d approved, appointment id=%d moved to %s",
		changeReq.ID, appt.ID, requested.Start.Format(time.RFC3339))

	uc.publishEvent(ctx, events.TypeAppointmentRescheduled, appt, &requested.Start, &requested.End)
	uc.publishDecided(ctx, changeReq, appt)

	return uc.buildResponse(ctx, changeReq.ID, appt)
}

// decide переводит запрос в терминальный статус
// Репозиторий меняет только pending-запросы, гонка двух решений
// разрешается на уровне хранилища
func (uc *UseCase) decide(
	ctx context.Context,
	requestID int64,
	status domain.ChangeRequestStatus,
	note *string,
) error {
	if err := uc.requestRepo.Decide(ctx, requestID, status, note); err != nil {
		if errors.Is(err, changeRequestRepo.ErrAlreadyDecided) {
			return ErrAlreadyDecided
		}
		return fmt.Errorf("%w: failed to decide request: %v", ErrInternal, err)
	}
	return nil
}

// checkManagerAccess проверяет, что пользователь - менеджер бизнеса
func (uc *UseCase) checkManagerAccess(ctx context.Context, businessID, userID int64) error {
	business, err := uc.bizClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, bizClient.ErrBusinessNotFound) {
			uc.logger.Error("DecideChangeRequest: business id=%d not found", businessID)
			return fmt.Errorf("%w: business not found", ErrInternal)
		}
		uc.logger.Error("DecideChangeRequest: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		uc.logger.Warn("DecideChangeRequest: user=%d is not a manager of business=%d",
			userID, businessID)
		return ErrAccessDenied
	}

	return nil
}

// buildResponse перечитывает решённый запрос и актуальное состояние записи
func (uc *UseCase) buildResponse(
	ctx context.Context,
	requestID int64,
	appt *domain.Appointment,
) (*Response, error) {
	decided, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		uc.logger.Error("DecideChangeRequest: failed to reload request id=%d: %v", requestID, err)
		return nil, fmt.Errorf("%w: failed to reload request: %v", ErrInternal, err)
	}

	current, err := uc.appointmentRepo.GetByID(ctx, appt.ID)
	if err != nil {
		uc.logger.Error("DecideChangeRequest: failed to reload appointment id=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
	}

	return &Response{ChangeRequest: decided, Appointment: current}, nil
}

// publishDecided отправляет событие о решённом запросе
func (uc *UseCase) publishDecided(ctx context.Context, changeReq *domain.ChangeRequest, appt *domain.Appointment) {
	event := events.Event{
		Type:          events.TypeChangeRequestDecided,
		BusinessID:    appt.BusinessID,
		SpecialistID:  appt.SpecialistID,
		AppointmentID: appt.ID,
		RequestID:     &changeReq.ID,
		OccurredAt:    uc.timeProvider.Now(),
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("DecideChangeRequest: failed to publish event: %v", err)
	}
}

// publishEvent отправляет событие об изменении записи
func (uc *UseCase) publishEvent(
	ctx context.Context,
	eventType string,
	appt *domain.Appointment,
	startAt, endAt *time.Time,
) {
	event := events.Event{
		Type:          eventType,
		BusinessID:    appt.BusinessID,
		SpecialistID:  appt.SpecialistID,
		AppointmentID: appt.ID,
		StartAt:       startAt,
		EndAt:         endAt,
		OccurredAt:    uc.timeProvider.Now(),
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("DecideChangeRequest: failed to publish event: %v", err)
	}
}
