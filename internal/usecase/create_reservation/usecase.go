package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/lock"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	workerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/worker"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
)

// UseCase use case для создания бронирования
// Проверка пересечений и вставка выполняются под блокировками (мастер, дата) и (клиент, дата)
// в одной сериализуемой транзакции
type UseCase struct {
	reservationRepo ReservationRepository
	catalogRepo     CatalogRepository
	workerRepo      WorkerRepository
	absences        AbsenceRegistry
	guard           ConflictGuard
	locker          Locker
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	cfg             Config
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	catalogRepo CatalogRepository,
	workerRepo WorkerRepository,
	absences AbsenceRegistry,
	guard ConflictGuard,
	locker Locker,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &UseCase{
		reservationRepo: reservationRepo,
		catalogRepo:     catalogRepo,
		workerRepo:      workerRepo,
		absences:        absences,
		guard:           guard,
		locker:          locker,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		cfg:             cfg,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, rc domain.RequestContext, req *Request) (*domain.Reservation, error) {
	uc.logger.Info("CreateReservation: actor=%d, client=%d, worker=%d, service=%d, date=%s, start=%s",
		rc.ActorID(), req.ClientID, req.WorkerID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Клиент бронирует только для себя, персонал - для любого клиента
	if rc.IsClient() && rc.ActorID() != req.ClientID {
		uc.logger.Warn("CreateReservation: actor=%d cannot book for client=%d", rc.ActorID(), req.ClientID)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем дату и время начала
	now := uc.timeProvider.Now().In(uc.cfg.Location)
	date := dateOf(req.Date)
	startsAt := req.StartTime.On(time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, uc.cfg.Location))
	if err := validateDate(date, startsAt, now, uc.cfg.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateReservation: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateReservation: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateReservation: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("CreateReservation: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Получаем мастера
	worker, err := uc.workerRepo.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, workerRepo.ErrWorkerNotFound) {
			uc.logger.Warn("CreateReservation: worker id=%d not found", req.WorkerID)
			return nil, ErrWorkerNotFound
		}
		uc.logger.Error("CreateReservation: failed to get worker id=%d: %v", req.WorkerID, err)
		return nil, fmt.Errorf("%w: failed to get worker: %v", ErrInternal, err)
	}
	if !worker.Active {
		uc.logger.Warn("CreateReservation: worker id=%d is inactive", req.WorkerID)
		return nil, ErrWorkerNotFound
	}

	// 6. Квалификация мастера
	if !domain.CanPerform(worker, service) {
		uc.logger.Warn("CreateReservation: worker id=%d cannot perform %s service id=%d",
			worker.ID, service.Category, service.ID)
		return nil, domain.ErrNotQualified
	}

	// 7. Расписание и отсутствия
	if !worker.WorksAt(date, req.StartTime, service.DurationMinutes) {
		uc.logger.Warn("CreateReservation: %s (%d min) is outside working hours of worker id=%d on %s",
			req.StartTime, service.DurationMinutes, worker.ID, date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: outside working hours", ErrWorkerUnavailable)
	}
	absent, err := uc.absences.IsAbsent(ctx, worker.ID, date)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to check absence of worker id=%d: %v", worker.ID, err)
		return nil, fmt.Errorf("%w: failed to check absence: %v", ErrInternal, err)
	}
	if absent {
		uc.logger.Warn("CreateReservation: worker id=%d is absent on %s", worker.ID, date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: approved absence", ErrWorkerUnavailable)
	}

	// 8. Блокируем агенды мастера и клиента на дату
	release, err := uc.locker.Acquire(ctx, lock.WorkerDayKey(worker.ID, date), lock.ClientDayKey(req.ClientID, date))
	if err != nil {
		uc.logger.Error("CreateReservation: failed to acquire locks: %v", err)
		return nil, fmt.Errorf("%w: failed to acquire locks: %v", ErrInternal, err)
	}
	defer release()

	var result *domain.Reservation

	// 9. Проверки пересечений и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Агенда мастера
		if err := uc.guard.EnsureWorkerFree(txCtx, worker.ID, date, req.StartTime, service.DurationMinutes); err != nil {
			return err
		}

		// 9.2. Агенда клиента у любых мастеров
		if err := uc.guard.EnsureClientFree(txCtx, req.ClientID, date, req.StartTime, service.DurationMinutes); err != nil {
			return err
		}

		// 9.3. Создаем бронирование с денормализацией данных услуги
		workerID := worker.ID
		reservation := &domain.Reservation{
			ClientID:        req.ClientID,
			WorkerID:        &workerID,
			ServiceID:       service.ID,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			ServiceCategory: service.Category,
			Date:            date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			Notes:           strings.TrimSpace(req.Notes),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				return &domain.ConflictError{
					Scope:    domain.ConflictScopeWorker,
					OwnerID:  worker.ID,
					Date:     date,
					Start:    req.StartTime,
					Duration: service.DurationMinutes,
				}
			}
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrInfrastructure) {
			uc.logger.Error("CreateReservation: %v", err)
		} else {
			uc.logger.Warn("CreateReservation: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("CreateReservation: reservation id=%d created for client=%d with worker=%d on %s at %s",
		result.ID, result.ClientID, worker.ID, date.Format(domain.DateFormat), result.StartTime)

	// 10. После коммита: метрика и событие
	if uc.metrics != nil {
		uc.metrics.IncReservationCreated(string(service.Category))
	}
	if err := uc.publisher.Publish(ctx, events.NewReservationEvent(events.ReservationCreated, result, rc.ActorID(), now)); err != nil {
		uc.logger.Warn("Events: %v", err)
	}

	return result, nil
}
