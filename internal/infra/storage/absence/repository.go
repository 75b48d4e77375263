package absence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const tableName = "absences"

var columns = []string{
	"id",
	"worker_id",
	"start_date",
	"end_date",
	"type",
	"reason",
	"state",
	"decided_by",
	"decided_at",
	"created_at",
}

// Repository репозиторий отсутствий мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория отсутствий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую заявку на отсутствие
func (r *Repository) Create(ctx context.Context, a *domain.Absence) (*domain.Absence, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("worker_id", "start_date", "end_date", "type", "reason", "state").
		Values(
			a.WorkerID,
			a.StartDate.Format(domain.DateFormat),
			a.EndDate.Format(domain.DateFormat),
			string(a.Type),
			a.Reason,
			string(a.State),
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return a, nil
}

// GetByID получает отсутствие по ID (FOR UPDATE внутри транзакции)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Absence, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	a, err := scanAbsence(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAbsenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan absence: %w", ErrScanRow, err)
	}

	return a, nil
}

// ListByWorker получает отсутствия мастера, новые первыми
func (r *Repository) ListByWorker(ctx context.Context, workerID int64) ([]*domain.Absence, error) {
	return r.list(ctx, "ListByWorker", squirrel.Eq{"worker_id": workerID})
}

// ListOverlapping получает не отклоненные отсутствия мастера, пересекающиеся с периодом [from, to]
func (r *Repository) ListOverlapping(ctx context.Context, workerID int64, from, to time.Time) ([]*domain.Absence, error) {
	return r.list(ctx, "ListOverlapping", squirrel.And{
		squirrel.Eq{"worker_id": workerID},
		squirrel.NotEq{"state": string(domain.AbsenceRejected)},
		squirrel.LtOrEq{"start_date": to.Format(domain.DateFormat)},
		squirrel.GtOrEq{"end_date": from.Format(domain.DateFormat)},
	})
}

// HasApprovedOn проверяет наличие одобренного отсутствия, покрывающего дату
func (r *Repository) HasApprovedOn(ctx context.Context, workerID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	day := date.Format(domain.DateFormat)

	query, args, err := psqlbuilder.Select("1").
		From(tableName).
		Where(squirrel.Eq{"worker_id": workerID, "state": string(domain.AbsenceApproved)}).
		Where(squirrel.LtOrEq{"start_date": day}).
		Where(squirrel.GtOrEq{"end_date": day}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasApprovedOn - build select query: %w", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasApprovedOn - execute query: %w", ErrExecQuery, err)
	}

	return true, nil
}

// UpdateDecision сохраняет решение администратора
func (r *Repository) UpdateDecision(ctx context.Context, a *domain.Absence) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("state", string(a.State)).
		Set("decided_by", a.DecidedBy).
		Set("decided_at", a.DecidedAt).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateDecision - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAbsenceNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.Absence, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(where).
		OrderBy("start_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	absences := make([]*domain.Absence, 0)
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		absences = append(absences, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return absences, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAbsence(row rowScanner) (*domain.Absence, error) {
	var (
		a           domain.Absence
		absenceType string
		state       string
		decidedBy   sql.NullInt64
		decidedAt   sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.WorkerID,
		&a.StartDate,
		&a.EndDate,
		&absenceType,
		&a.Reason,
		&state,
		&decidedBy,
		&decidedAt,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Type = domain.AbsenceType(absenceType)
	a.State = domain.AbsenceState(state)
	if decidedBy.Valid {
		a.DecidedBy = &decidedBy.Int64
	}
	if decidedAt.Valid {
		a.DecidedAt = &decidedAt.Time
	}

	return &a, nil
}
