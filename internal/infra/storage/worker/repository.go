package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий мастеров (только чтение)
// Категории берутся из worker_categories, активность наследуется от пользователя
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func (r *Repository) baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"w.id",
		"w.user_id",
		"u.name",
		"u.active",
		"w.specialties",
		"w.schedule",
		"COALESCE(array_agg(wc.category) FILTER (WHERE wc.category IS NOT NULL), '{}')",
	).
		From("workers w").
		Join("users u ON u.id = w.user_id").
		LeftJoin("worker_categories wc ON wc.worker_id = w.id").
		GroupBy("w.id", "w.user_id", "u.name", "u.active", "w.specialties", "w.schedule")
}

// GetByID получает мастера по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"w.id": id})
}

// GetByUserID получает профиль мастера пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*domain.Worker, error) {
	return r.getOne(ctx, "GetByUserID", squirrel.Eq{"w.user_id": userID})
}

// ListActive получает всех активных мастеров
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Worker, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"u.active": true}).
		OrderBy("w.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: %w", err)
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - rows error: %w", ErrScanRow, err)
	}

	return workers, nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Worker, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.baseSelect().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	w, err := scanWorker(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return w, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanWorker читает строку и сразу разбирает категории и расписание в типизированные значения
func scanWorker(row rowScanner) (*domain.Worker, error) {
	var (
		w           domain.Worker
		specialties []string
		schedule    []byte
		categories  []string
	)

	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Name,
		&w.Active,
		pq.Array(&specialties),
		&schedule,
		pq.Array(&categories),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanRow, err)
	}

	w.Specialties = specialties
	w.Categories, err = domain.ParseCategorySet(categories...)
	if err != nil {
		return nil, fmt.Errorf("%w: worker id=%d categories: %w", ErrCorruptedWorker, w.ID, err)
	}
	w.Schedule, err = domain.ParseWeeklySchedule(schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: worker id=%d schedule: %w", ErrCorruptedWorker, w.ID, err)
	}

	return &w, nil
}
