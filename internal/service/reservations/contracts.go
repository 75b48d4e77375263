package reservations

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
}

// WorkerRepository интерфейс репозитория мастеров
type WorkerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
}

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
}

// AbsenceChecker проверка одобренных отсутствий
type AbsenceChecker interface {
	HasApprovedOn(ctx context.Context, workerID int64, date time.Time) (bool, error)
}

// ConflictGuard проверка пересечений с агендой мастера
type ConflictGuard interface {
	EnsureWorkerFree(ctx context.Context, workerID int64, date time.Time, start types.TimeString, duration int) error
}

// PenaltyEngine расчет штрафа за отмену
type PenaltyEngine interface {
	PenaltyFor(r *domain.Reservation, policy domain.CancellationPolicy, at time.Time) (decimal.Decimal, error)
}

// Locker блокировки по ключам (мастер+дата, клиент+дата)
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Metrics счетчик переходов жизненного цикла
type Metrics interface {
	IncTransition(action, result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
