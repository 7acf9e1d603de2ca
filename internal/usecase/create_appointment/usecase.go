package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/internal/infra/events"
	scheduleRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/schedule"
	bizClient "github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/pkg/txmanager"
)

// UseCase use case создания записи к специалисту
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	bizClient       BusinessServiceClient
	txManager       TxManager
	publisher       EventPublisher
	tokenIssuer     TokenIssuer
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepository AppointmentRepository,
	scheduleRepository ScheduleRepository,
	businessClient BusinessServiceClient,
	txMgr TxManager,
	publisher EventPublisher,
	tokenIssuer TokenIssuer,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepository,
		scheduleRepo:    scheduleRepository,
		bizClient:       businessClient,
		txManager:       txMgr,
		publisher:       publisher,
		tokenIssuer:     tokenIssuer,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute создает запись
// Проверка занятости и вставка выполняются в одной serializable-транзакции:
// два клиента, бронирующие один слот, не могут зафиксироваться оба
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: business=%d, specialist=%d, start=%s",
		req.BusinessID, req.SpecialistID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	duration, err := resolveDuration(req.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: duration validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if !req.StartAt.After(now) {
		uc.logger.Warn("CreateAppointment: start=%s is in the past", req.StartAt.Format(time.RFC3339))
		return nil, fmt.Errorf("%w: startAt must be in the future", ErrInvalidRange)
	}

	startAt := req.StartAt
	endAt := startAt.Add(time.Duration(duration) * time.Minute)
	candidate := domain.TimeRange{Start: startAt, End: endAt}

	// 2. Получаем бизнес и специалиста
	business, err := uc.bizClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bizClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	loc, err := business.Location()
	if err != nil {
		uc.logger.Error("CreateAppointment: invalid timezone %q for business id=%d: %v",
			business.Timezone, req.BusinessID, err)
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, business.Timezone)
	}

	specialist, err := uc.bizClient.GetSpecialist(ctx, req.BusinessID, req.SpecialistID)
	if err != nil {
		if errors.Is(err, bizClient.ErrSpecialistNotFound) {
			uc.logger.Warn("CreateAppointment: specialist id=%d not found", req.SpecialistID)
			return nil, ErrSpecialistNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get specialist id=%d: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrInternal, err)
	}
	if !specialist.IsActive {
		uc.logger.Warn("CreateAppointment: specialist id=%d is inactive", req.SpecialistID)
		return nil, ErrSpecialistInactive
	}

	// 3. Интервал должен целиком лежать в рабочем окне на дату
	if err := uc.checkWorkingWindow(ctx, req.SpecialistID, candidate, loc); err != nil {
		return nil, err
	}

	// 4. Проверяем занятость и создаем запись атомарно
	status := domain.StatusPending
	if req.AutoConfirm {
		status = domain.StatusConfirmed
	}

	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Блокируем записи специалиста, пересекающие интервал
		existing, err := uc.appointmentRepo.GetBySpecialistForRange(txCtx, req.SpecialistID, startAt, endAt)
		if err != nil {
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		if domain.HasConflict(existing, candidate, 0) {
			return ErrSlotTaken
		}

		blocked, err := uc.scheduleRepo.ListBlockedPeriods(txCtx, req.SpecialistID, startAt, endAt)
		if err != nil {
			return fmt.Errorf("%w: failed to list blocked periods: %v", ErrInternal, err)
		}
		for _, p := range blocked {
			if p.Range().IsValid() && candidate.Overlaps(p.Range()) {
				return ErrSlotBlocked
			}
		}

		created, err = uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			BusinessID:   req.BusinessID,
			SpecialistID: req.SpecialistID,
			ClientID:     req.ClientID,
			StartAt:      startAt,
			EndAt:        endAt,
			Status:       status,
			ClientNote:   req.ClientNote,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateAppointment: serialization failure for specialist=%d: %v",
				req.SpecialistID, err)
			return nil, ErrWriteConflict
		}
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrSlotBlocked) {
			uc.logger.Warn("CreateAppointment: slot %s rejected for specialist=%d: %v",
				startAt.Format(time.RFC3339), req.SpecialistID, err)
			return nil, err
		}
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, err
	}

	// 5. Выпускаем токен управления записью
	token, err := uc.tokenIssuer.Issue(created.ID, now)
	if err != nil {
		// Запись уже создана, отсутствие токена не должно её откатывать
		uc.logger.Error("CreateAppointment: failed to issue manage token for appointment=%d: %v",
			created.ID, err)
		token = ""
	}

	uc.publishBooked(ctx, created)

	uc.logger.Info("CreateAppointment: created appointment id=%d, specialist=%d, status=%s",
		created.ID, created.SpecialistID, created.Status)

	return &Response{Appointment: created, ManageToken: token}, nil
}

// checkWorkingWindow проверяет, что интервал целиком лежит в рабочем окне
// специалиста на дату начала (в часовом поясе бизнеса)
func (uc *UseCase) checkWorkingWindow(
	ctx context.Context,
	specialistID int64,
	candidate domain.TimeRange,
	loc *time.Location,
) error {
	sched, err := uc.scheduleRepo.GetBySpecialist(ctx, specialistID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return fmt.Errorf("%w: schedule is not configured", ErrOutsideWorkingHours)
		}
		uc.logger.Error("CreateAppointment: failed to get schedule: %v", err)
		return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	localStart := candidate.Start.In(loc)
	dayDate := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc)

	window := sched.WindowForDate(dayDate)
	if !window.Enabled {
		return fmt.Errorf("%w: day off", ErrOutsideWorkingHours)
	}
	if !window.IsValid() {
		uc.logger.Error("CreateAppointment: malformed window for specialist=%d on %s: start=%s end=%s",
			specialistID, dayDate.Format(domain.DateFormat), window.Start, window.End)
		return fmt.Errorf("%w: schedule is not configured", ErrOutsideWorkingHours)
	}

	windowStart, err := window.Start.OnDate(dayDate, loc)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve window start: %v", ErrInternal, err)
	}
	windowEnd, err := window.End.OnDate(dayDate, loc)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve window end: %v", ErrInternal, err)
	}

	if candidate.Start.Before(windowStart) || candidate.End.After(windowEnd) {
		return fmt.Errorf("%w: slot %s-%s is outside window %s-%s",
			ErrOutsideWorkingHours,
			candidate.Start.In(loc).Format(domain.TimeFormat),
			candidate.End.In(loc).Format(domain.TimeFormat),
			window.Start, window.End)
	}

	return nil
}

// publishBooked отправляет событие о созданной записи
// Ошибка публикации не откатывает уже зафиксированную запись
func (uc *UseCase) publishBooked(ctx context.Context, appt *domain.Appointment) {
	event := events.Event{
		Type:          events.TypeAppointmentBooked,
		BusinessID:    appt.BusinessID,
		SpecialistID:  appt.SpecialistID,
		AppointmentID: appt.ID,
		StartAt:       &appt.StartAt,
		EndAt:         &appt.EndAt,
		OccurredAt:    uc.timeProvider.Now(),
	}

	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateAppointment: failed to publish event: %v", err)
	}
}
