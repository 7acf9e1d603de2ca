package changesettings

import (
	"context"
	"errors"
	"fmt"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	changeSettingsRepo "github.com/avorotn/SBP-SchedulingService/internal/infra/storage/changesettings"
	bizClient "github.com/avorotn/SBP-SchedulingService/internal/integrations/businessservice"
	"github.com/avorotn/SBP-SchedulingService/internal/service/changesettings/models"
)

// Service сервис для работы с настройками клиентских изменений
type Service struct {
	settingsRepo SettingsRepository
	bizClient    BusinessServiceClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	bizClient BusinessServiceClient,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		bizClient:    bizClient,
		logger:       logger,
	}
}

// GetSettings получает настройки изменений
// Настройки уровня специалиста перекрывают уровень бизнеса; если бизнес
// ничего не настраивал, возвращаются настройки по умолчанию
func (s *Service) GetSettings(ctx context.Context, businessID int64, specialistID *int64, userID int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for business=%d, specialist=%v by user=%d",
		businessID, specialistID, userID)

	if err := s.checkManagerAccess(ctx, businessID, userID); err != nil {
		s.logger.Warn("GetSettings: access denied for user=%d to business=%d", userID, businessID)
		return nil, err
	}

	settings, err := s.settingsRepo.GetWithHierarchy(ctx, businessID, specialistID)
	if err != nil {
		if errors.Is(err, changeSettingsRepo.ErrSettingsNotFound) {
			s.logger.Info("GetSettings: no settings for business=%d, using defaults", businessID)
			return models.FromDomainSettings(domain.DefaultClientChangeSettings(businessID), true), nil
		}
		s.logger.Error("GetSettings: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings, false), nil
}

// UpdateSettings сохраняет настройки изменений уровня бизнеса или специалиста
func (s *Service) UpdateSettings(ctx context.Context, businessID int64, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for business=%d, specialist=%v by user=%d",
		businessID, req.SpecialistID, req.UserID)

	if req.MinHoursBefore < 0 || req.MinHoursBefore > domain.MinHoursBeforeLimit {
		s.logger.Warn("UpdateSettings: invalid minHoursBefore=%d for business=%d", req.MinHoursBefore, businessID)
		return nil, fmt.Errorf("%w: minHoursBefore must be between 0 and %d",
			ErrInvalidInput, domain.MinHoursBeforeLimit)
	}

	if req.SpecialistID != nil && *req.SpecialistID <= 0 {
		s.logger.Warn("UpdateSettings: invalid specialistID for business=%d", businessID)
		return nil, fmt.Errorf("%w: specialistId must be positive", ErrInvalidInput)
	}

	if err := s.checkManagerAccess(ctx, businessID, req.UserID); err != nil {
		s.logger.Warn("UpdateSettings: access denied for user=%d to business=%d", req.UserID, businessID)
		return nil, err
	}

	saved, err := s.settingsRepo.Upsert(ctx, req.ToDomainSettings(businessID))
	if err != nil {
		s.logger.Error("UpdateSettings: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: saved settings id=%d for business=%d", saved.ID, businessID)
	return models.FromDomainSettings(saved, false), nil
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
