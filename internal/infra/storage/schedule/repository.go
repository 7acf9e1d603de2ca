package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/avorotn/SBP-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий расписаний и блокировок специалистов
// Недельные часы и overrides хранятся в JSONB колонках, блокировки -
// отдельными строками с абсолютными интервалами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySpecialist получает расписание специалиста
func (r *Repository) GetBySpecialist(ctx context.Context, specialistID int64) (*domain.SpecialistSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"specialist_id",
		"weekly_hours",
		"date_overrides",
		"created_at",
		"updated_at",
	).
		From("specialist_schedules").
		Where(squirrel.Eq{"specialist_id": specialistID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySpecialist - build select query: %v", ErrBuildQuery, err)
	}

	var sched domain.SpecialistSchedule
	var weeklyRaw, overridesRaw []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&sched.ID,
		&sched.BusinessID,
		&sched.SpecialistID,
		&weeklyRaw,
		&overridesRaw,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySpecialist - scan schedule: %v", ErrScanRow, err)
	}

	if err := json.Unmarshal(weeklyRaw, &sched.Weekly); err != nil {
		return nil, fmt.Errorf("%w: GetBySpecialist - weekly_hours: %v", ErrDecodeSchedule, err)
	}
	sched.DateOverrides = make(map[string]domain.DayWindow)
	if len(overridesRaw) > 0 {
		if err := json.Unmarshal(overridesRaw, &sched.DateOverrides); err != nil {
			return nil, fmt.Errorf("%w: GetBySpecialist - date_overrides: %v", ErrDecodeSchedule, err)
		}
	}

	sched.CreatedAt = createdAt.Time
	sched.UpdatedAt = updatedAt.Time

	return &sched, nil
}

// Create создает расписание специалиста
// Вызывается при заведении специалиста с дефолтными часами
func (r *Repository) Create(ctx context.Context, sched *domain.SpecialistSchedule) (*domain.SpecialistSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weeklyRaw, overridesRaw, err := encodeSchedule(sched)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("specialist_schedules").
		Columns(
			"business_id",
			"specialist_id",
			"weekly_hours",
			"date_overrides",
		).
		Values(
			sched.BusinessID,
			sched.SpecialistID,
			weeklyRaw,
			overridesRaw,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&sched.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	sched.CreatedAt = createdAt.Time
	sched.UpdatedAt = updatedAt.Time

	return sched, nil
}

// Update полностью заменяет недельные часы и overrides специалиста
func (r *Repository) Update(ctx context.Context, sched *domain.SpecialistSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weeklyRaw, overridesRaw, err := encodeSchedule(sched)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update("specialist_schedules").
		Set("weekly_hours", weeklyRaw).
		Set("date_overrides", overridesRaw).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"specialist_id": sched.SpecialistID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// ListBlockedPeriods получает блокировки специалиста, пересекающиеся
// с интервалом [from, to). Нулевые границы снимают соответствующее ограничение
func (r *Repository) ListBlockedPeriods(ctx context.Context, specialistID int64, from, to time.Time) ([]*domain.BlockedPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"specialist_id",
		"start_at",
		"end_at",
		"reason",
		"created_at",
	).
		From("blocked_periods").
		Where(squirrel.Eq{"specialist_id": specialistID}).
		OrderBy("start_at ASC")

	if !to.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": to})
	}
	if !from.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": from})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedPeriods - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedPeriods - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	periods := make([]*domain.BlockedPeriod, 0)
	for rows.Next() {
		var p domain.BlockedPeriod
		var createdAt sql.NullTime

		if err := rows.Scan(&p.ID, &p.SpecialistID, &p.StartAt, &p.EndAt, &p.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListBlockedPeriods - scan row: %v", ErrScanRow, err)
		}
		p.CreatedAt = createdAt.Time
		periods = append(periods, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlockedPeriods - rows error: %v", ErrScanRow, err)
	}

	return periods, nil
}

// CreateBlockedPeriod создает блокировку
func (r *Repository) CreateBlockedPeriod(ctx context.Context, period *domain.BlockedPeriod) (*domain.BlockedPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_periods").
		Columns(
			"specialist_id",
			"start_at",
			"end_at",
			"reason",
		).
		Values(
			period.SpecialistID,
			period.StartAt,
			period.EndAt,
			period.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedPeriod - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&period.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedPeriod - execute insert: %v", ErrExecQuery, err)
	}

	period.CreatedAt = createdAt.Time

	return period, nil
}

// DeleteBlockedPeriods удаляет блокировки по списку ID
// Используется при поглощении пересекающихся периодов новым
func (r *Repository) DeleteBlockedPeriods(ctx context.Context, specialistID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_periods").
		Where(squirrel.Eq{"specialist_id": specialistID}).
		Where(squirrel.Eq{"id": ids}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedPeriods - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteBlockedPeriods - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// DeleteBlockedPeriod удаляет одну блокировку
func (r *Repository) DeleteBlockedPeriod(ctx context.Context, specialistID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_periods").
		Where(squirrel.Eq{"specialist_id": specialistID}).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedPeriod - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedPeriod - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlockedPeriod - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedPeriodNotFound
	}

	return nil
}

func encodeSchedule(sched *domain.SpecialistSchedule) ([]byte, []byte, error) {
	weeklyRaw, err := json.Marshal(sched.Weekly)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: weekly_hours: %v", ErrEncodeSchedule, err)
	}

	overrides := sched.DateOverrides
	if overrides == nil {
		overrides = make(map[string]domain.DayWindow)
	}
	overridesRaw, err := json.Marshal(overrides)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: date_overrides: %v", ErrEncodeSchedule, err)
	}

	return weeklyRaw, overridesRaw, nil
}
