package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	scheduleRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/schedule"
	bizClient "github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
)

// UseCase use case расчёта доступных слотов специалиста на дату
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	bizClient       BusinessServiceClient
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleRepository ScheduleRepository,
	appointmentRepository AppointmentRepository,
	businessClient BusinessServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepository,
		appointmentRepo: appointmentRepository,
		bizClient:       businessClient,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute вычисляет доступные слоты
// Чтение без блокировок: use case не имеет побочных эффектов,
// актуальность гарантируется повторной проверкой при фиксации записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, specialist=%d, date=%s, duration=%d",
		req.BusinessID, req.SpecialistID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	duration, err := resolveDuration(req.DurationMinutes)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: duration validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем бизнес и его часовой пояс
	business, err := uc.bizClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, bizClient.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	loc, err := business.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid timezone %q for business id=%d: %v",
			business.Timezone, req.BusinessID, err)
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, business.Timezone)
	}

	// 3. Проверяем специалиста
	specialist, err := uc.bizClient.GetSpecialist(ctx, req.BusinessID, req.SpecialistID)
	if err != nil {
		if errors.Is(err, bizClient.ErrSpecialistNotFound) {
			uc.logger.Warn("GetAvailableSlots: specialist id=%d not found", req.SpecialistID)
			return nil, ErrSpecialistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get specialist id=%d: %v", req.SpecialistID, err)
		return nil, fmt.Errorf("%w: failed to get specialist: %v", ErrInternal, err)
	}
	if !specialist.IsActive {
		uc.logger.Warn("GetAvailableSlots: specialist id=%d is inactive", req.SpecialistID)
		return nil, ErrSpecialistInactive
	}

	now := uc.timeProvider.Now()

	// 4. Разрешаем рабочее окно на дату: override имеет приоритет над
	// недельным расписанием, в том числе когда он только меняет часы
	sched, err := uc.scheduleRepo.GetBySpecialist(ctx, req.SpecialistID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Info("GetAvailableSlots: no schedule for specialist=%d", req.SpecialistID)
			return emptyResponse(req, duration, domain.ReasonScheduleNotConfigured), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	if !sched.IsConfigured() {
		uc.logger.Info("GetAvailableSlots: schedule is empty for specialist=%d", req.SpecialistID)
		return emptyResponse(req, duration, domain.ReasonScheduleNotConfigured), nil
	}

	dayDate := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
	window := sched.WindowForDate(dayDate)

	if !window.Enabled {
		uc.logger.Info("GetAvailableSlots: day off for specialist=%d on %s",
			req.SpecialistID, dayDate.Format(domain.DateFormat))
		return emptyResponse(req, duration, domain.ReasonDayOff), nil
	}

	if !window.IsValid() {
		// Испорченное окно (end <= start) не должно ронять расчёт:
		// помечаем запись в логах и отвечаем как на несконфигурированную
		uc.logger.Error("GetAvailableSlots: malformed window for specialist=%d on %s: start=%s end=%s",
			req.SpecialistID, dayDate.Format(domain.DateFormat), window.Start, window.End)
		return emptyResponse(req, duration, domain.ReasonScheduleNotConfigured), nil
	}

	// 5. Генерируем сетку кандидатов
	candidates, err := generateCandidates(window, dayDate, duration, now, loc)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate candidates: %v", err)
		return nil, fmt.Errorf("%w: failed to generate candidates: %v", ErrInternal, err)
	}

	if len(candidates) == 0 {
		// Длительность не помещается в окно или рабочий день уже прошёл -
		// детерминированно пустой список без reason
		uc.logger.Info("GetAvailableSlots: no candidates for specialist=%d on %s",
			req.SpecialistID, dayDate.Format(domain.DateFormat))
		return &Response{
			BusinessID:      req.BusinessID,
			SpecialistID:    req.SpecialistID,
			Date:            req.Date,
			DurationMinutes: duration,
			Slots:           []domain.Slot{},
		}, nil
	}

	// 6. Фильтруем кандидатов по блокировкам и существующим записям
	dayStart := dayDate
	dayEnd := dayDate.AddDate(0, 0, 1)

	blocked, err := uc.scheduleRepo.ListBlockedPeriods(ctx, req.SpecialistID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list blocked periods: %v", err)
		return nil, fmt.Errorf("%w: failed to list blocked periods: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.GetBySpecialistForRange(ctx, req.SpecialistID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	slots := filterCandidates(candidates, duration, blocked, appointments)

	resp := &Response{
		BusinessID:      req.BusinessID,
		SpecialistID:    req.SpecialistID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           slots,
	}

	if len(slots) == 0 {
		// Кандидаты были, но все заняты - отличаем "всё занято"
		// от "нет расписания" для сообщений пользователю
		reason := domain.ReasonAllOccupied
		resp.Reason = &reason
	}

	uc.logger.Info("GetAvailableSlots: %d of %d candidates available for specialist=%d on %s",
		len(slots), len(candidates), req.SpecialistID, dayDate.Format(domain.DateFormat))

	return resp, nil
}
