package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
)

// UseCase use case для расчета доступности мастеров на дату для услуги
type UseCase struct {
	catalogRepo     CatalogRepository
	workerRepo      WorkerRepository
	absences        AbsenceRegistry
	reservationRepo ReservationRepository
	cfg             Config
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	workerRepo WorkerRepository,
	absences AbsenceRegistry,
	reservationRepo ReservationRepository,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.SlotStepMinutes <= 0 {
		cfg.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		catalogRepo:     catalogRepo,
		workerRepo:      workerRepo,
		absences:        absences,
		reservationRepo: reservationRepo,
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

// Execute выполняет use case получения доступности
// Если ни у одного мастера нет свободного слота, возвращается *domain.NoAvailabilityError со сводкой причин
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Availability, error) {
	uc.logger.Info("GetAvailability: user=%d, service=%d, date=%s",
		req.UserID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем дату относительно текущего дня салона
	now := uc.timeProvider.Now().In(uc.cfg.Location)
	today := dateOf(now)
	date := dateOf(req.Date)
	if err := validateDate(date, today, uc.cfg.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailability: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем услугу
	service, err := uc.catalogRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailability: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 4. Получаем активных мастеров
	workers, err := uc.workerRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list workers: %v", err)
		return nil, fmt.Errorf("%w: failed to list workers: %v", ErrInternal, err)
	}

	// Для сегодняшнего дня отбрасываем уже начавшиеся слоты
	notBefore := -1
	if date.Equal(today) {
		notBefore = now.Hour()*60 + now.Minute()
	}

	// 5. Рассчитываем доступность каждого мастера
	result := &domain.Availability{
		Service: service,
		Date:    date,
		Workers: make([]domain.WorkerAvailability, 0, len(workers)),
	}
	for _, worker := range workers {
		wa, err := uc.resolveWorker(ctx, worker, service, date, notBefore)
		if err != nil {
			uc.logger.Error("GetAvailability: worker id=%d: %v", worker.ID, err)
			return nil, fmt.Errorf("%w: resolve worker %d: %v", ErrInternal, worker.ID, err)
		}
		result.Workers = append(result.Workers, wa)
		result.Summary.Add(wa)
	}

	// 6. Никто не может принять услугу в эту дату
	if result.Summary.Available == 0 {
		uc.logger.Warn("GetAvailability: no availability for service=%d on %s (workers=%d, capacity=%d, absent=%d, schedule=%d, slots=%d)",
			service.ID, date.Format(domain.DateFormat), result.Summary.Workers,
			result.Summary.NoCapacity, result.Summary.Absent, result.Summary.NoSchedule, result.Summary.NoSlots)
		return nil, &domain.NoAvailabilityError{Date: date, ServiceID: service.ID, Summary: result.Summary}
	}

	uc.logger.Info("GetAvailability: %d of %d worker(s) available for service=%d on %s",
		result.Summary.Available, result.Summary.Workers, service.ID, date.Format(domain.DateFormat))

	return result, nil
}

// resolveWorker проверки идут в порядке: квалификация, отсутствие, расписание, свободные слоты
func (uc *UseCase) resolveWorker(
	ctx context.Context,
	worker *domain.Worker,
	service *domain.Service,
	date time.Time,
	notBefore int,
) (domain.WorkerAvailability, error) {
	wa := domain.WorkerAvailability{Worker: worker}

	if !domain.CanPerform(worker, service) {
		wa.Reason = domain.ReasonNoCapacity
		return wa, nil
	}

	absent, err := uc.absences.IsAbsent(ctx, worker.ID, date)
	if err != nil {
		return wa, fmt.Errorf("absence check: %w", err)
	}
	if absent {
		wa.Reason = domain.ReasonAbsent
		return wa, nil
	}

	window, ok := worker.Schedule.For(date)
	if !ok {
		wa.Reason = domain.ReasonNoSchedule
		return wa, nil
	}
	wa.WorkingHours = &window

	workerID := worker.ID
	reservations, err := uc.reservationRepo.List(ctx, domain.ReservationFilter{
		WorkerID:   &workerID,
		Date:       &date,
		ActiveOnly: true,
	})
	if err != nil {
		return wa, fmt.Errorf("load reservations: %w", err)
	}

	slots, err := generateSlots(window, uc.cfg.SlotStepMinutes, service.DurationMinutes, reservations, notBefore)
	if err != nil {
		return wa, fmt.Errorf("generate slots: %w", err)
	}

	wa.Slots = slots
	if len(slots) == 0 {
		wa.Reason = domain.ReasonNoSlots
	}
	return wa, nil
}
