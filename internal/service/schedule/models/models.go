package models

import (
	"time"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
)

// Request модели

// UpdateScheduleRequest запрос на замену расписания специалиста
// Недельные часы и переопределения заменяются целиком
// BusinessID требуется только при первом сохранении расписания
type UpdateScheduleRequest struct {
	UserID        int64                       `json:"userId"`
	BusinessID    int64                       `json:"businessId,omitempty"`
	WeeklyHours   *domain.WeeklyHours         `json:"weeklyHours,omitempty"` // nil = расписание по умолчанию
	DateOverrides map[string]domain.DayWindow `json:"dateOverrides,omitempty"`
}

// AddBlockedPeriodRequest запрос на добавление блокировки
type AddBlockedPeriodRequest struct {
	UserID  int64     `json:"userId"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
	Reason  *string   `json:"reason,omitempty"`
}

// Response модели

// ScheduleResponse ответ с расписанием специалиста
type ScheduleResponse struct {
	SpecialistID  int64                       `json:"specialistId"`
	BusinessID    int64                       `json:"businessId"`
	WeeklyHours   domain.WeeklyHours          `json:"weeklyHours"`
	DateOverrides map[string]domain.DayWindow `json:"dateOverrides"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

// BlockedPeriodResponse ответ с блокировкой
// AbsorbedCount - сколько существующих периодов поглотил новый при слиянии
type BlockedPeriodResponse struct {
	ID            int64   `json:"id"`
	SpecialistID  int64   `json:"specialistId"`
	StartAt       string  `json:"startAt"` // ISO 8601
	EndAt         string  `json:"endAt"`   // ISO 8601
	Reason        *string `json:"reason,omitempty"`
	AbsorbedCount int     `json:"absorbedCount,omitempty"`
}

// Методы конвертации

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.SpecialistSchedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	overrides := s.DateOverrides
	if overrides == nil {
		overrides = map[string]domain.DayWindow{}
	}

	return &ScheduleResponse{
		SpecialistID:  s.SpecialistID,
		BusinessID:    s.BusinessID,
		WeeklyHours:   s.Weekly,
		DateOverrides: overrides,
		UpdatedAt:     s.UpdatedAt,
	}
}

// FromDomainBlockedPeriod конвертирует domain модель в DTO
func FromDomainBlockedPeriod(p *domain.BlockedPeriod, absorbed int) *BlockedPeriodResponse {
	if p == nil {
		return nil
	}

	return &BlockedPeriodResponse{
		ID:            p.ID,
		SpecialistID:  p.SpecialistID,
		StartAt:       p.StartAt.Format(time.RFC3339),
		EndAt:         p.EndAt.Format(time.RFC3339),
		Reason:        p.Reason,
		AbsorbedCount: absorbed,
	}
}
