package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Result результат проверки пересечений
type Result struct {
	Available bool
	Conflicts []*domain.Reservation
}

// Guard проверяет, что новая запись не пересекается с активными бронированиями
// мастера и клиента. Внутри транзакции чтения выполняются с FOR UPDATE.
type Guard struct {
	repo    ReservationRepository
	metrics Metrics
	logger  Logger
}

// NewGuard создает новый экземпляр проверки конфликтов
func NewGuard(repo ReservationRepository, metrics Metrics, logger Logger) *Guard {
	return &Guard{repo: repo, metrics: metrics, logger: logger}
}

// CheckWorkerConflict ищет активные записи мастера на дату, пересекающиеся с [start, start+duration)
func (g *Guard) CheckWorkerConflict(ctx context.Context, workerID int64, date time.Time, start types.TimeString, duration int) (*Result, error) {
	return g.check(ctx, domain.ConflictScopeWorker, domain.ReservationFilter{
		WorkerID:   &workerID,
		Date:       &date,
		ActiveOnly: true,
	}, start, duration)
}

// CheckClientConflict ищет активные записи клиента на дату у любого мастера
func (g *Guard) CheckClientConflict(ctx context.Context, clientID int64, date time.Time, start types.TimeString, duration int) (*Result, error) {
	return g.check(ctx, domain.ConflictScopeClient, domain.ReservationFilter{
		ClientID:   &clientID,
		Date:       &date,
		ActiveOnly: true,
	}, start, duration)
}

// EnsureWorkerFree возвращает *domain.ConflictError, если у мастера есть пересечение
func (g *Guard) EnsureWorkerFree(ctx context.Context, workerID int64, date time.Time, start types.TimeString, duration int) error {
	res, err := g.CheckWorkerConflict(ctx, workerID, date, start, duration)
	if err != nil {
		return err
	}
	return g.toError(res, domain.ConflictScopeWorker, workerID, date, start, duration)
}

// EnsureClientFree возвращает *domain.ConflictError, если у клиента есть пересечение
func (g *Guard) EnsureClientFree(ctx context.Context, clientID int64, date time.Time, start types.TimeString, duration int) error {
	res, err := g.CheckClientConflict(ctx, clientID, date, start, duration)
	if err != nil {
		return err
	}
	return g.toError(res, domain.ConflictScopeClient, clientID, date, start, duration)
}

func (g *Guard) check(ctx context.Context, scope domain.ConflictScope, filter domain.ReservationFilter, start types.TimeString, duration int) (*Result, error) {
	reservations, err := g.repo.List(ctx, filter)
	if err != nil {
		g.logger.Error("CheckConflict: failed to load %s agenda: %v", scope, err)
		return nil, fmt.Errorf("%w: load %s agenda: %w", ErrInternal, scope, err)
	}

	result := &Result{Available: true}
	for _, r := range reservations {
		// Неактивные записи не блокируют время
		if !r.Status.IsActive() {
			continue
		}
		overlaps, err := r.OverlapsWith(start, duration)
		if err != nil {
			return nil, err
		}
		if overlaps {
			result.Available = false
			result.Conflicts = append(result.Conflicts, r)
		}
	}

	return result, nil
}

func (g *Guard) toError(res *Result, scope domain.ConflictScope, ownerID int64, date time.Time, start types.TimeString, duration int) error {
	if res.Available {
		return nil
	}

	if g.metrics != nil {
		g.metrics.IncConflict(string(scope))
	}
	g.logger.Warn("CheckConflict: %s=%d busy on %s at %s (%d min), %d conflicting reservation(s)",
		scope, ownerID, date.Format(domain.DateFormat), start, duration, len(res.Conflicts))

	return &domain.ConflictError{
		Scope:     scope,
		OwnerID:   ownerID,
		Date:      date,
		Start:     start,
		Duration:  duration,
		Conflicts: res.Conflicts,
	}
}
