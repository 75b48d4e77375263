package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/lock"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	workerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/worker"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
)

// Config параметры жизненного цикла
type Config struct {
	Location      *time.Location            // часовой пояс салона
	DefaultPolicy domain.CancellationPolicy // политика отмены, если клиент не указал
}

// Dependencies зависимости сервиса
type Dependencies struct {
	Reservations ReservationRepository
	Workers      WorkerRepository
	Catalog      CatalogRepository
	Absences     AbsenceChecker
	Guard        ConflictGuard
	Penalty      PenaltyEngine
	Locker       Locker
	TxManager    TransactionManager
	Publisher    EventPublisher
	Metrics      Metrics
	Logger       Logger
}

// Service жизненный цикл бронирования: принятие, отклонение, отмена, назначение мастера, завершение
// Все изменения бронирований проходят через этот сервис
type Service struct {
	reservationRepo ReservationRepository
	workerRepo      WorkerRepository
	catalogRepo     CatalogRepository
	absences        AbsenceChecker
	guard           ConflictGuard
	penalty         PenaltyEngine
	locker          Locker
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	timeProvider    TimeProvider
	cfg             Config
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DefaultPolicy == "" {
		cfg.DefaultPolicy = domain.PolicyFlexible
	}
	return &Service{
		reservationRepo: deps.Reservations,
		workerRepo:      deps.Workers,
		catalogRepo:     deps.Catalog,
		absences:        deps.Absences,
		guard:           deps.Guard,
		penalty:         deps.Penalty,
		locker:          deps.Locker,
		txManager:       deps.TxManager,
		publisher:       deps.Publisher,
		metrics:         deps.Metrics,
		timeProvider:    &RealTimeProvider{},
		cfg:             cfg,
		logger:          deps.Logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование
// Доступ: клиент-владелец, назначенный мастер (или любой мастер для неназначенной записи), администратор
func (s *Service) GetByID(ctx context.Context, rc domain.RequestContext, id int64) (*domain.Reservation, error) {
	s.logger.Info("GetReservation: actor=%d, reservation=%d", rc.ActorID(), id)

	r, err := s.load(ctx, id)
	if err != nil {
		s.logFailure("GetReservation", id, err)
		return nil, err
	}

	if !canView(rc, r) {
		s.logger.Warn("GetReservation: access denied for actor=%d to reservation id=%d", rc.ActorID(), id)
		return nil, ErrAccessDenied
	}

	return r, nil
}

// ListByClient получает историю бронирований клиента, опционально по статусу
func (s *Service) ListByClient(ctx context.Context, rc domain.RequestContext, clientID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	s.logger.Info("ListClientReservations: actor=%d, client=%d", rc.ActorID(), clientID)

	if !rc.IsAdmin() && rc.ActorID() != clientID {
		s.logger.Warn("ListClientReservations: access denied for actor=%d to client=%d", rc.ActorID(), clientID)
		return nil, ErrAccessDenied
	}

	list, err := s.reservationRepo.List(ctx, domain.ReservationFilter{ClientID: &clientID, Status: status})
	if err != nil {
		s.logger.Error("ListClientReservations: repository error for client=%d: %v", clientID, err)
		return nil, fmt.Errorf("%w: ListByClient - repository error: %v", ErrInternal, err)
	}

	return list, nil
}

// WorkerAgenda получает рабочий день мастера: окно, отсутствие и активные записи
func (s *Service) WorkerAgenda(ctx context.Context, rc domain.RequestContext, workerID int64, date time.Time) (*domain.Agenda, error) {
	s.logger.Info("WorkerAgenda: actor=%d, worker=%d, date=%s", rc.ActorID(), workerID, date.Format(domain.DateFormat))

	if !rc.IsAdmin() && !rc.ActsAsWorker(workerID) {
		s.logger.Warn("WorkerAgenda: access denied for actor=%d to worker=%d", rc.ActorID(), workerID)
		return nil, ErrAccessDenied
	}

	worker, err := s.loadWorker(ctx, workerID)
	if err != nil {
		s.logFailure("WorkerAgenda", workerID, err)
		return nil, err
	}

	absent, err := s.absences.HasApprovedOn(ctx, workerID, date)
	if err != nil {
		s.logger.Error("WorkerAgenda: failed to check absence for worker=%d: %v", workerID, err)
		return nil, fmt.Errorf("%w: WorkerAgenda - absence check: %v", ErrInternal, err)
	}

	list, err := s.reservationRepo.List(ctx, domain.ReservationFilter{WorkerID: &workerID, Date: &date, ActiveOnly: true})
	if err != nil {
		s.logger.Error("WorkerAgenda: repository error for worker=%d: %v", workerID, err)
		return nil, fmt.Errorf("%w: WorkerAgenda - repository error: %v", ErrInternal, err)
	}

	agenda := &domain.Agenda{
		WorkerID:     workerID,
		Date:         date,
		Absent:       absent,
		Reservations: list,
	}
	if window, ok := worker.Schedule.For(date); ok {
		agenda.WorkingHours = &window
	}

	return agenda, nil
}

// Accept подтверждает бронирование назначенным мастером
func (s *Service) Accept(ctx context.Context, rc domain.RequestContext, id int64) (*domain.Reservation, error) {
	s.logger.Info("AcceptReservation: actor=%d, reservation=%d", rc.ActorID(), id)

	workerID, err := actingWorker(rc)
	if err != nil {
		s.logger.Warn("AcceptReservation: actor=%d has no worker profile", rc.ActorID())
		return nil, err
	}

	return s.transition(ctx, rc, id, "AcceptReservation", events.ReservationConfirmed,
		func(txCtx context.Context, r *domain.Reservation, now time.Time) error {
			// 1. Статус и назначенный мастер
			if err := r.CheckAccept(workerID); err != nil {
				return err
			}
			// 2. Повторная проверка квалификации
			if err := s.ensureQualified(txCtx, workerID, r.ServiceID); err != nil {
				return err
			}
			return r.Accept(workerID, now)
		})
}

// Reject отклоняет бронирование назначенным мастером; мотив обязателен
func (s *Service) Reject(ctx context.Context, rc domain.RequestContext, id int64, motive string) (*domain.Reservation, error) {
	s.logger.Info("RejectReservation: actor=%d, reservation=%d", rc.ActorID(), id)

	workerID, err := actingWorker(rc)
	if err != nil {
		s.logger.Warn("RejectReservation: actor=%d has no worker profile", rc.ActorID())
		return nil, err
	}

	return s.transition(ctx, rc, id, "RejectReservation", events.ReservationRejected,
		func(txCtx context.Context, r *domain.Reservation, now time.Time) error {
			if err := r.CheckReject(workerID, motive); err != nil {
				return err
			}
			if err := s.ensureQualified(txCtx, workerID, r.ServiceID); err != nil {
				return err
			}
			return r.Reject(workerID, motive, now)
		})
}

// Cancel отменяет активное будущее бронирование
// Клиент отменяет только свои записи, персонал - любые. Штраф рассчитывается по политике.
func (s *Service) Cancel(ctx context.Context, rc domain.RequestContext, id int64, motive string, policyName *string) (*domain.Reservation, error) {
	s.logger.Info("CancelReservation: actor=%d, role=%s, reservation=%d", rc.ActorID(), rc.Role(), id)

	policy := s.cfg.DefaultPolicy
	if policyName != nil && *policyName != "" {
		p, err := domain.ParseCancellationPolicy(*policyName)
		if err != nil {
			s.logger.Warn("CancelReservation: %v", err)
			return nil, err
		}
		policy = p
	}

	return s.transition(ctx, rc, id, "CancelReservation", events.ReservationCancelled,
		func(_ context.Context, r *domain.Reservation, now time.Time) error {
			// 1. Статус, права, время и мотив
			if err := r.CheckCancel(rc, motive, now, s.cfg.Location); err != nil {
				return err
			}
			// 2. Штраф по политике
			amount, err := s.penalty.PenaltyFor(r, policy, now)
			if err != nil {
				return err
			}
			return r.Cancel(rc, domain.Cancellation{Motive: motive, Policy: policy, Penalty: amount}, now, s.cfg.Location)
		})
}

// Claim назначает неназначенное бронирование мастеру, который решил его взять
// Квалификация, расписание, отсутствия и пересечения проверяются заново под блокировкой агенды мастера
func (s *Service) Claim(ctx context.Context, rc domain.RequestContext, id int64) (*domain.Reservation, error) {
	s.logger.Info("ClaimReservation: actor=%d, reservation=%d", rc.ActorID(), id)

	workerID, err := actingWorker(rc)
	if err != nil {
		s.logger.Warn("ClaimReservation: actor=%d has no worker profile", rc.ActorID())
		return nil, err
	}

	// Дата нужна до транзакции, чтобы взять блокировку агенды мастера
	current, err := s.load(ctx, id)
	if err != nil {
		s.logFailure("ClaimReservation", id, err)
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, lock.WorkerDayKey(workerID, current.Date))
	if err != nil {
		s.logger.Error("ClaimReservation: failed to lock agenda of worker=%d: %v", workerID, err)
		return nil, fmt.Errorf("%w: Claim - lock: %v", ErrInternal, err)
	}
	defer release()

	return s.transition(ctx, rc, id, "ClaimReservation", events.ReservationClaimed,
		func(txCtx context.Context, r *domain.Reservation, now time.Time) error {
			if err := r.CheckAssign(); err != nil {
				return err
			}
			worker, err := s.loadWorker(txCtx, workerID)
			if err != nil {
				return err
			}
			service, err := s.loadService(txCtx, r.ServiceID)
			if err != nil {
				return err
			}
			if !domain.CanPerform(worker, service) {
				return domain.ErrNotQualified
			}
			if err := s.ensureWorksAt(txCtx, worker, r); err != nil {
				return err
			}
			if err := s.guard.EnsureWorkerFree(txCtx, workerID, r.Date, r.StartTime, r.DurationMinutes); err != nil {
				return err
			}
			return r.AssignWorker(workerID, now)
		})
}

// Complete завершает бронирование (назначенный мастер или администратор)
func (s *Service) Complete(ctx context.Context, rc domain.RequestContext, id int64) (*domain.Reservation, error) {
	s.logger.Info("CompleteReservation: actor=%d, reservation=%d", rc.ActorID(), id)

	return s.transition(ctx, rc, id, "CompleteReservation", events.ReservationCompleted,
		func(_ context.Context, r *domain.Reservation, now time.Time) error {
			// Ошибка перехода важнее ошибки прав
			if !r.Status.IsTerminal() && !canComplete(rc, r) {
				return ErrAccessDenied
			}
			return r.Complete(now)
		})
}

// transition выполняет переход в сериализуемой транзакции, затем пишет метрику и публикует событие
func (s *Service) transition(
	ctx context.Context,
	rc domain.RequestContext,
	id int64,
	op string,
	eventType events.Type,
	apply func(txCtx context.Context, r *domain.Reservation, now time.Time) error,
) (*domain.Reservation, error) {
	now := s.timeProvider.Now()
	var result *domain.Reservation

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		r, err := s.load(txCtx, id)
		if err != nil {
			return err
		}

		if err := apply(txCtx, r, now); err != nil {
			return err
		}

		if err := s.reservationRepo.Update(txCtx, r); err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				return slotTakenConflict(r)
			}
			return fmt.Errorf("%w: failed to save reservation: %w", ErrInternal, err)
		}

		result = r
		return nil
	})

	s.observe(eventType, err)
	if err != nil {
		s.logFailure(op, id, err)
		return nil, err
	}

	s.logger.Info("%s: reservation id=%d is now %s", op, result.ID, result.Status)
	s.publish(ctx, events.NewReservationEvent(eventType, result, rc.ActorID(), now))

	return result, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
	}
	return r, nil
}

func (s *Service) loadWorker(ctx context.Context, id int64) (*domain.Worker, error) {
	w, err := s.workerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, workerRepo.ErrWorkerNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("%w: failed to get worker: %w", ErrInternal, err)
	}
	return w, nil
}

func (s *Service) loadService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.catalogRepo.GetServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}
	return svc, nil
}

func (s *Service) ensureQualified(ctx context.Context, workerID, serviceID int64) error {
	worker, err := s.loadWorker(ctx, workerID)
	if err != nil {
		return err
	}
	service, err := s.loadService(ctx, serviceID)
	if err != nil {
		return err
	}
	if !domain.CanPerform(worker, service) {
		return domain.ErrNotQualified
	}
	return nil
}

func (s *Service) ensureWorksAt(ctx context.Context, worker *domain.Worker, r *domain.Reservation) error {
	if !worker.WorksAt(r.Date, r.StartTime, r.DurationMinutes) {
		return fmt.Errorf("%w: outside working hours", ErrWorkerUnavailable)
	}
	absent, err := s.absences.HasApprovedOn(ctx, worker.ID, r.Date)
	if err != nil {
		return fmt.Errorf("%w: failed to check absence: %w", ErrInternal, err)
	}
	if absent {
		return fmt.Errorf("%w: approved absence", ErrWorkerUnavailable)
	}
	return nil
}

func (s *Service) observe(eventType events.Type, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncTransition(string(eventType), resultLabel(err))
}

func (s *Service) logFailure(op string, id int64, err error) {
	if errors.Is(err, domain.ErrInfrastructure) {
		s.logger.Error("%s: id=%d: %v", op, id, err)
		return
	}
	s.logger.Warn("%s: id=%d: %v", op, id, err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Events: %v", err)
	}
}

func actingWorker(rc domain.RequestContext) (int64, error) {
	workerID, ok := rc.WorkerID()
	if !ok || !rc.IsStaff() {
		return 0, ErrNotAWorker
	}
	return workerID, nil
}

func canView(rc domain.RequestContext, r *domain.Reservation) bool {
	switch {
	case rc.IsAdmin():
		return true
	case rc.IsClient():
		return r.ClientID == rc.ActorID()
	default:
		workerID, ok := rc.WorkerID()
		return ok && (r.WorkerID == nil || r.IsAssignedTo(workerID))
	}
}

func canComplete(rc domain.RequestContext, r *domain.Reservation) bool {
	if rc.IsAdmin() {
		return true
	}
	workerID, ok := rc.WorkerID()
	return rc.IsStaff() && ok && r.IsAssignedTo(workerID)
}

func slotTakenConflict(r *domain.Reservation) error {
	var workerID int64
	if r.WorkerID != nil {
		workerID = *r.WorkerID
	}
	return &domain.ConflictError{
		Scope:    domain.ConflictScopeWorker,
		OwnerID:  workerID,
		Date:     r.Date,
		Start:    r.StartTime,
		Duration: r.DurationMinutes,
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return "invalid_state"
	case errors.Is(err, domain.ErrPermission):
		return "denied"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
