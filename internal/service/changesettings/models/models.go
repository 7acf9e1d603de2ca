package models

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
)

// Request модели

// UpdateSettingsRequest запрос на сохранение настроек изменений
// SpecialistID задаёт настройки уровня специалиста, nil - уровня бизнеса
type UpdateSettingsRequest struct {
	UserID       int64  `json:"userId"`
	SpecialistID *int64 `json:"specialistId,omitempty"`

	Enabled               bool `json:"enabled"`
	AllowReschedule       bool `json:"allowReschedule"`
	AllowCancel           bool `json:"allowCancel"`
	MinHoursBefore        int  `json:"minHoursBefore"`
	RequireMasterApproval bool `json:"requireMasterApproval"`
}

// ToDomainSettings конвертирует request в domain модель
func (r *UpdateSettingsRequest) ToDomainSettings(businessID int64) *domain.ClientChangeSettings {
	return &domain.ClientChangeSettings{
		BusinessID:            businessID,
		SpecialistID:          r.SpecialistID,
		Enabled:               r.Enabled,
		AllowReschedule:       r.AllowReschedule,
		AllowCancel:           r.AllowCancel,
		MinHoursBefore:        r.MinHoursBefore,
		RequireMasterApproval: r.RequireMasterApproval,
	}
}

// Response модели

// SettingsResponse ответ с настройками изменений
// IsDefault = true, когда бизнес ничего не настраивал и действуют
// настройки по умолчанию
type SettingsResponse struct {
	BusinessID   int64  `json:"businessId"`
	SpecialistID *int64 `json:"specialistId,omitempty"`

	Enabled               bool `json:"enabled"`
	AllowReschedule       bool `json:"allowReschedule"`
	AllowCancel           bool `json:"allowCancel"`
	MinHoursBefore        int  `json:"minHoursBefore"`
	RequireMasterApproval bool `json:"requireMasterApproval"`

	IsDefault bool       `json:"isDefault,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.ClientChangeSettings, isDefault bool) *SettingsResponse {
	if s == nil {
		return nil
	}

	resp := &SettingsResponse{
		BusinessID:            s.BusinessID,
		SpecialistID:          s.SpecialistID,
		Enabled:               s.Enabled,
		AllowReschedule:       s.AllowReschedule,
		AllowCancel:           s.AllowCancel,
		MinHoursBefore:        s.MinHoursBefore,
		RequireMasterApproval: s.RequireMasterApproval,
		IsDefault:             isDefault,
	}

	if !isDefault {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
