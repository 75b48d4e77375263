package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const (
	tableName = "reservations"

	// uniqueViolation SQLSTATE для нарушения уникального ограничения
	uniqueViolation = "23505"
)

var columns = []string{
	"id",
	"client_id",
	"worker_id",
	"service_id",
	"service_name",
	"service_price",
	"service_category",
	"reservation_date",
	"start_time",
	"duration_minutes",
	"status",
	"notes",
	"internal_notes",
	"rejection_reason",
	"cancellation_reason",
	"cancellation_policy",
	"penalty",
	"cancelled_at",
	"completed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникального индекса по слоту мастера возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"client_id",
			"worker_id",
			"service_id",
			"service_name",
			"service_price",
			"service_category",
			"reservation_date",
			"start_time",
			"duration_minutes",
			"status",
			"notes",
			"internal_notes",
		).
		Values(
			res.ClientID,
			res.WorkerID,
			res.ServiceID,
			res.ServiceName,
			res.ServicePrice,
			string(res.ServiceCategory),
			dateOnly(res.Date),
			res.StartTime,
			res.DurationMinutes,
			string(res.Status),
			res.Notes,
			res.InternalNotes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil, fmt.Errorf("%w: %s", ErrSlotTaken, pqErr.Constraint)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
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

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// List получает бронирования с фильтрацией
//
// Примеры использования:
//
//	// Активные бронирования мастера на дату (проверка конфликтов)
//	filter := domain.ReservationFilter{WorkerID: &workerID, Date: &date, ActiveOnly: true}
//
//	// Все подтвержденные бронирования клиента
//	status := domain.StatusConfirmed
//	filter := domain.ReservationFilter{ClientID: &clientID, Status: &status}
//
// Для конкретной даты внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).From(tableName)

	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.WorkerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"worker_id": *filter.WorkerID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"reservation_date": dateOnly(*filter.Date)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if filter.ActiveOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.ActiveStatuses)})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC", "id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("reservation_date DESC", "start_time DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}

// Update сохраняет изменяемые поля бронирования после перехода жизненного цикла
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("worker_id", res.WorkerID).
		Set("status", string(res.Status)).
		Set("internal_notes", res.InternalNotes).
		Set("rejection_reason", res.RejectionReason).
		Set("cancellation_reason", res.CancellationReason).
		Set("cancellation_policy", string(res.CancellationPolicy)).
		Set("penalty", res.Penalty).
		Set("cancelled_at", res.CancelledAt).
		Set("completed_at", res.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrSlotTaken, pqErr.Constraint)
	}
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res                      domain.Reservation
		workerID                 sql.NullInt64
		category, status, policy string
		cancelledAt, completedAt sql.NullTime
	)

	err := row.Scan(
		&res.ID,
		&res.ClientID,
		&workerID,
		&res.ServiceID,
		&res.ServiceName,
		&res.ServicePrice,
		&category,
		&res.Date,
		&res.StartTime,
		&res.DurationMinutes,
		&status,
		&res.Notes,
		&res.InternalNotes,
		&res.RejectionReason,
		&res.CancellationReason,
		&policy,
		&res.Penalty,
		&cancelledAt,
		&completedAt,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if workerID.Valid {
		res.WorkerID = &workerID.Int64
	}
	if cancelledAt.Valid {
		res.CancelledAt = &cancelledAt.Time
	}
	if completedAt.Valid {
		res.CompletedAt = &completedAt.Time
	}
	res.ServiceCategory = domain.ServiceCategory(category)
	res.Status = domain.ReservationStatus(status)
	res.CancellationPolicy = domain.CancellationPolicy(policy)

	return &res, nil
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func dateOnly(t time.Time) string {
	return t.Format(domain.DateFormat)
}
