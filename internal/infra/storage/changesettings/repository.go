package changesettings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/avorotn/SBP-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var settingsColumns = []string{
	"id",
	"business_id",
	"specialist_id",
	"enabled",
	"allow_reschedule",
	"allow_cancel",
	"min_hours_before",
	"require_master_approval",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек клиентских изменений
// Поддерживает двухуровневую иерархию:
// 1. Настройки для конкретного специалиста (business_id, specialist_id)
// 2. Настройки бизнеса целиком (business_id, NULL)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessAndSpecialist получает настройки для точного сочетания
// бизнеса и специалиста (specialistID = nil означает строку бизнеса целиком)
func (r *Repository) GetByBusinessAndSpecialist(ctx context.Context, businessID int64, specialistID *int64) (*domain.ClientChangeSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(settingsColumns...).
		From("client_change_settings").
		Where(squirrel.Eq{"business_id": businessID})

	if specialistID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"specialist_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"specialist_id": *specialistID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndSpecialist - build select query: %v", ErrBuildQuery, err)
	}

	settings, err := r.scanSettings(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndSpecialist - scan settings: %v", ErrScanRow, err)
	}

	return settings, nil
}

// GetWithHierarchy получает настройки с учетом иерархии приоритетов:
// 1. Настройки конкретного специалиста
// 2. Настройки бизнеса целиком
// Если не найдено ни на одном уровне, возвращает ErrSettingsNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, businessID int64, specialistID *int64) (*domain.ClientChangeSettings, error) {
	if specialistID != nil {
		settings, err := r.GetByBusinessAndSpecialist(ctx, businessID, specialistID)
		if err == nil {
			return settings, nil
		}
		if err != ErrSettingsNotFound {
			return nil, fmt.Errorf("%w: GetWithHierarchy - specialist level: %v", ErrExecQuery, err)
		}
	}

	settings, err := r.GetByBusinessAndSpecialist(ctx, businessID, nil)
	if err == nil {
		return settings, nil
	}
	if err != ErrSettingsNotFound {
		return nil, fmt.Errorf("%w: GetWithHierarchy - business level: %v", ErrExecQuery, err)
	}

	return nil, ErrSettingsNotFound
}

// Upsert создает или обновляет настройки для сочетания бизнес/специалист
func (r *Repository) Upsert(ctx context.Context, settings *domain.ClientChangeSettings) (*domain.ClientChangeSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("client_change_settings").
		Columns(
			"business_id",
			"specialist_id",
			"enabled",
			"allow_reschedule",
			"allow_cancel",
			"min_hours_before",
			"require_master_approval",
		).
		Values(
			settings.BusinessID,
			settings.SpecialistID,
			settings.Enabled,
			settings.AllowReschedule,
			settings.AllowCancel,
			settings.MinHoursBefore,
			settings.RequireMasterApproval,
		).
		Suffix(`ON CONFLICT (business_id, COALESCE(specialist_id, 0)) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			allow_reschedule = EXCLUDED.allow_reschedule,
			allow_cancel = EXCLUDED.allow_cancel,
			min_hours_before = EXCLUDED.min_hours_before,
			require_master_approval = EXCLUDED.require_master_approval,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, nil
}

func (r *Repository) scanSettings(row *sql.Row) (*domain.ClientChangeSettings, error) {
	var settings domain.ClientChangeSettings
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&settings.ID,
		&settings.BusinessID,
		&settings.SpecialistID,
		&settings.Enabled,
		&settings.AllowReschedule,
		&settings.AllowCancel,
		&settings.MinHoursBefore,
		&settings.RequireMasterApproval,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}
