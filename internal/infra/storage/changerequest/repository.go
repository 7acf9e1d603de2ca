package changerequest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/avorotn/SBP-SchedulingService/internal/domain"
	"github.com/avorotn/SBP-SchedulingService/pkg/dbmetrics"
	"github.com/avorotn/SBP-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var requestColumns = []string{
	"id",
	"appointment_id",
	"type",
	"status",
	"requested_start_at",
	"requested_end_at",
	"client_note",
	"decision_note",
	"created_at",
	"decided_at",
}

// Repository репозиторий запросов на изменение записи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория запросов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запрос на изменение в статусе pending
func (r *Repository) Create(ctx context.Context, req *domain.ChangeRequest) (*domain.ChangeRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("change_requests").
		Columns(
			"appointment_id",
			"type",
			"status",
			"requested_start_at",
			"requested_end_at",
			"client_note",
		).
		Values(
			req.AppointmentID,
			req.Type,
			domain.ChangeStatusPending,
			req.RequestedStartAt,
			req.RequestedEndAt,
			req.ClientNote,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&req.ID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrPendingRequestExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	req.Status = domain.ChangeStatusPending
	req.CreatedAt = createdAt.Time

	return req, nil
}

// GetByID получает запрос по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ChangeRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("change_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := r.scanRequest(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// ListByAppointment получает историю запросов по записи, новые первыми
func (r *Repository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*domain.ChangeRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("change_requests").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	requests := make([]*domain.ChangeRequest, 0)
	for rows.Next() {
		req, err := r.scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByAppointment - scan row: %v", ErrScanRow, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByAppointment - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}

// Decide переводит pending-запрос в терминальный статус
// UPDATE с условием status = 'pending' гарантирует, что решение принимается
// ровно один раз даже при конкурентных вызовах
func (r *Repository) Decide(ctx context.Context, id int64, status domain.ChangeRequestStatus, decisionNote *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("change_requests").
		Set("status", status).
		Set("decision_note", decisionNote).
		Set("decided_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": domain.ChangeStatusPending,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Decide - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Decide - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Decide - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо запроса нет, либо он уже решён - различаем отдельным чтением
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyDecided
	}

	return nil
}

// isUniqueViolation проверяет нарушение уникального индекса (23505)
// Частичный индекс на (appointment_id) WHERE status = 'pending' закрывает
// гонку двух одновременных submit'ов
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanRequest(row rowScanner) (*domain.ChangeRequest, error) {
	var req domain.ChangeRequest
	var createdAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.AppointmentID,
		&req.Type,
		&req.Status,
		&req.RequestedStartAt,
		&req.RequestedEndAt,
		&req.ClientNote,
		&req.DecisionNote,
		&createdAt,
		&req.DecidedAt,
	)
	if err != nil {
		return nil, err
	}

	req.CreatedAt = createdAt.Time

	return &req, nil
}
