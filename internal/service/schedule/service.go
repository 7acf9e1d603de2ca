package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	scheduleRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/schedule"
	bizClient "github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/internal/service/schedule/models"
)

// Service сервис для работы с расписаниями специалистов
type Service struct {
	scheduleRepo ScheduleRepository
	bizClient    BusinessServiceClient
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	bizClient BusinessServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		bizClient:    bizClient,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSchedule получает расписание специалиста
// Доступно только менеджерам бизнеса
func (s *Service) GetSchedule(ctx context.Context, specialistID, userID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for specialist=%d by user=%d", specialistID, userID)

	sched, err := s.scheduleRepo.GetBySpecialist(ctx, specialistID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("GetSchedule: schedule for specialist=%d not found", specialistID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetSchedule: repository error for specialist=%d: %v", specialistID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, sched.BusinessID, userID); err != nil {
		s.logger.Warn("GetSchedule: access denied for user=%d to specialist=%d", userID, specialistID)
		return nil, err
	}

	return models.FromDomainSchedule(sched), nil
}

// UpdateSchedule заменяет недельные часы и переопределения дат целиком
// Если расписания ещё нет, оно создаётся; nil weeklyHours означает
// расписание по умолчанию (пн-пт 09:00-18:00)
func (s *Service) UpdateSchedule(ctx context.Context, specialistID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: updating schedule for specialist=%d by user=%d", specialistID, req.UserID)

	weekly := domain.DefaultWeeklyHours()
	if req.WeeklyHours != nil {
		weekly = *req.WeeklyHours
	}

	if err := validateWeekly(weekly); err != nil {
		s.logger.Warn("UpdateSchedule: invalid weekly hours for specialist=%d: %v", specialistID, err)
		return nil, err
	}
	if err := validateOverrides(req.DateOverrides); err != nil {
		s.logger.Warn("UpdateSchedule: invalid overrides for specialist=%d: %v", specialistID, err)
		return nil, err
	}

	existing, err := s.scheduleRepo.GetBySpecialist(ctx, specialistID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		s.logger.Error("UpdateSchedule: repository error for specialist=%d: %v", specialistID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
	}

	// Бизнес для проверки прав: из существующей строки или из запроса
	businessID := req.BusinessID
	if existing != nil {
		businessID = existing.BusinessID
	}
	if businessID <= 0 {
		s.logger.Warn("UpdateSchedule: businessID is required to create a schedule for specialist=%d", specialistID)
		return nil, fmt.Errorf("%w: businessId is required", ErrInvalidInput)
	}

	if err := s.checkManagerAccess(ctx, businessID, req.UserID); err != nil {
		s.logger.Warn("UpdateSchedule: access denied for user=%d to specialist=%d", req.UserID, specialistID)
		return nil, err
	}

	overrides := req.DateOverrides
	if overrides == nil {
		overrides = map[string]domain.DayWindow{}
	}

	if existing == nil {
		created, err := s.scheduleRepo.Create(ctx, &domain.SpecialistSchedule{
			BusinessID:    businessID,
			SpecialistID:  specialistID,
			Weekly:        weekly,
			DateOverrides: overrides,
		})
		if err != nil {
			s.logger.Error("UpdateSchedule: failed to create schedule for specialist=%d: %v", specialistID, err)
			return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("UpdateSchedule: created schedule for specialist=%d", specialistID)
		return models.FromDomainSchedule(created), nil
	}

	existing.Weekly = weekly
	existing.DateOverrides = overrides

	if err := s.scheduleRepo.Update(ctx, existing); err != nil {
		s.logger.Error("UpdateSchedule: failed to update schedule for specialist=%d: %v", specialistID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
	}

	updated, err := s.scheduleRepo.GetBySpecialist(ctx, specialistID)
	if err != nil {
		s.logger.Error("UpdateSchedule: failed to reload schedule for specialist=%d: %v", specialistID, err)
		return nil, fmt.Errorf("%w: UpdateSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSchedule: updated schedule for specialist=%d", specialistID)
	return models.FromDomainSchedule(updated), nil
}

// AddBlockedPeriod добавляет блокировку специалисту
// Пересекающиеся и граничащие блокировки сливаются в одну: у специалиста
// не бывает двух пересекающихся периодов
func (s *Service) AddBlockedPeriod(ctx context.Context, specialistID int64, req *models.AddBlockedPeriodRequest) (*models.BlockedPeriodResponse, error) {
	s.logger.Info("AddBlockedPeriod: adding period for specialist=%d by user=%d", specialistID, req.UserID)

	incoming := domain.TimeRange{Start: req.StartAt, End: req.EndAt}
	if !incoming.IsValid() {
		s.logger.Warn("AddBlockedPeriod: invalid period for specialist=%d", specialistID)
		return nil, fmt.Errorf("%w: startAt must be before endAt", ErrInvalidPeriod)
	}

	if err := s.checkSpecialistAccess(ctx, specialistID, req.UserID); err != nil {
		return nil, err
	}

	var created *domain.BlockedPeriod
	var absorbed []int64

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Слияние смотрит на все периоды специалиста: граничащие
		// с новым могут лежать за пределами его диапазона
		existing, err := s.scheduleRepo.ListBlockedPeriods(txCtx, specialistID, time.Time{}, time.Time{})
		if err != nil {
			return fmt.Errorf("%w: AddBlockedPeriod - repository error: %v", ErrInternal, err)
		}

		merged, absorbedIDs := domain.MergeBlockedPeriods(existing, incoming)
		absorbed = absorbedIDs

		if err := s.scheduleRepo.DeleteBlockedPeriods(txCtx, specialistID, absorbedIDs); err != nil {
			return fmt.Errorf("%w: AddBlockedPeriod - repository error: %v", ErrInternal, err)
		}

		created, err = s.scheduleRepo.CreateBlockedPeriod(txCtx, &domain.BlockedPeriod{
			SpecialistID: specialistID,
			StartAt:      merged.Start,
			EndAt:        merged.End,
			Reason:       req.Reason,
		})
		if err != nil {
			return fmt.Errorf("%w: AddBlockedPeriod - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		s.logger.Error("AddBlockedPeriod: transaction failed for specialist=%d: %v", specialistID, err)
		return nil, err
	}

	s.logger.Info("AddBlockedPeriod: created period id=%d for specialist=%d, absorbed %d",
		created.ID, specialistID, len(absorbed))
	return models.FromDomainBlockedPeriod(created, len(absorbed)), nil
}

// RemoveBlockedPeriod удаляет блокировку специалиста
func (s *Service) RemoveBlockedPeriod(ctx context.Context, specialistID, periodID, userID int64) error {
	s.logger.Info("RemoveBlockedPeriod: removing period id=%d for specialist=%d by user=%d",
		periodID, specialistID, userID)

	if err := s.checkSpecialistAccess(ctx, specialistID, userID); err != nil {
		return err
	}

	if err := s.scheduleRepo.DeleteBlockedPeriod(ctx, specialistID, periodID); err != nil {
		if errors.Is(err, scheduleRepo.ErrBlockedPeriodNotFound) {
			s.logger.Warn("RemoveBlockedPeriod: period id=%d not found for specialist=%d", periodID, specialistID)
			return ErrBlockedPeriodNotFound
		}
		s.logger.Error("RemoveBlockedPeriod: repository error for period id=%d: %v", periodID, err)
		return fmt.Errorf("%w: RemoveBlockedPeriod - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("RemoveBlockedPeriod: removed period id=%d for specialist=%d", periodID, specialistID)
	return nil
}

// checkSpecialistAccess проверяет права менеджера через бизнес специалиста
func (s *Service) checkSpecialistAccess(ctx context.Context, specialistID, userID int64) error {
	sched, err := s.scheduleRepo.GetBySpecialist(ctx, specialistID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("checkSpecialistAccess: specialist=%d has no schedule", specialistID)
			return ErrScheduleNotFound
		}
		s.logger.Error("checkSpecialistAccess: repository error for specialist=%d: %v", specialistID, err)
		return fmt.Errorf("%w: checkSpecialistAccess - repository error: %v", ErrInternal, err)
	}

	if err := s.checkManagerAccess(ctx, sched.BusinessID, userID); err != nil {
		s.logger.Warn("checkSpecialistAccess: access denied for user=%d to specialist=%d", userID, specialistID)
		return err
	}

	return nil
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

// validateWeekly проверяет корректность всех окон недельного расписания
func validateWeekly(weekly domain.WeeklyHours) error {
	days := map[string]domain.DayWindow{
		"monday":    weekly.Monday,
		"tuesday":   weekly.Tuesday,
		"wednesday": weekly.Wednesday,
		"thursday":  weekly.Thursday,
		"friday":    weekly.Friday,
		"saturday":  weekly.Saturday,
		"sunday":    weekly.Sunday,
	}

	for day, window := range days {
		if !window.IsValid() {
			return fmt.Errorf("%w: %s", ErrInvalidWindow, day)
		}
	}

	return nil
}

// validateOverrides проверяет даты и окна переопределений
func validateOverrides(overrides map[string]domain.DayWindow) error {
	for date, window := range overrides {
		if _, err := time.Parse(domain.DateFormat, date); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidOverrideDate, date)
		}
		if !window.IsValid() {
			return fmt.Errorf("%w: override for %s", ErrInvalidWindow, date)
		}
	}

	return nil
}
