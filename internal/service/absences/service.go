package absences

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	absenceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/absence"
	workerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/worker"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
)

// RequestInput заявка на отсутствие
type RequestInput struct {
	WorkerID  int64
	Type      domain.AbsenceType
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Service реестр отсутствий мастеров
type Service struct {
	absenceRepo  AbsenceRepository
	workerRepo   WorkerRepository
	txManager    TransactionManager
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса отсутствий
func NewService(
	absenceRepo AbsenceRepository,
	workerRepo WorkerRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		absenceRepo:  absenceRepo,
		workerRepo:   workerRepo,
		txManager:    txManager,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Request создает заявку мастера на отсутствие в состоянии pending
// Мастер оформляет заявку только на себя, администратор - на любого мастера
func (s *Service) Request(ctx context.Context, rc domain.RequestContext, in RequestInput) (*domain.Absence, error) {
	s.logger.Info("RequestAbsence: actor=%d, worker=%d, type=%s, %s..%s",
		rc.ActorID(), in.WorkerID, in.Type, in.StartDate.Format(domain.DateFormat), in.EndDate.Format(domain.DateFormat))

	// 1. Права доступа
	if !rc.IsAdmin() && !rc.ActsAsWorker(in.WorkerID) {
		s.logger.Warn("RequestAbsence: actor=%d cannot request absence for worker=%d", rc.ActorID(), in.WorkerID)
		return nil, ErrAccessDenied
	}

	// 2. Валидация
	if err := validateRequest(in); err != nil {
		s.logger.Warn("RequestAbsence: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем мастера
	if _, err := s.workerRepo.GetByID(ctx, in.WorkerID); err != nil {
		if errors.Is(err, workerRepo.ErrWorkerNotFound) {
			s.logger.Warn("RequestAbsence: worker id=%d not found", in.WorkerID)
			return nil, ErrWorkerNotFound
		}
		s.logger.Error("RequestAbsence: failed to get worker id=%d: %v", in.WorkerID, err)
		return nil, fmt.Errorf("%w: failed to get worker: %v", ErrInternal, err)
	}

	var created *domain.Absence

	// 4. Проверка пересечений и вставка в одной транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		overlapping, err := s.absenceRepo.ListOverlapping(txCtx, in.WorkerID, in.StartDate, in.EndDate)
		if err != nil {
			return fmt.Errorf("%w: failed to list absences: %w", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			s.logger.Warn("RequestAbsence: worker=%d already has absence id=%d in the period", in.WorkerID, overlapping[0].ID)
			return ErrOverlappingAbsence
		}

		created, err = s.absenceRepo.Create(txCtx, &domain.Absence{
			WorkerID:  in.WorkerID,
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			Type:      in.Type,
			Reason:    strings.TrimSpace(in.Reason),
			State:     domain.AbsencePending,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create absence: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInfrastructure) {
			s.logger.Error("RequestAbsence: %v", err)
		}
		return nil, err
	}

	s.logger.Info("RequestAbsence: created absence id=%d for worker=%d", created.ID, created.WorkerID)
	s.publish(ctx, events.NewAbsenceEvent(events.AbsenceRequested, created, rc.ActorID(), s.timeProvider.Now()))

	return created, nil
}

// Decide одобряет или отклоняет заявку (только администратор)
func (s *Service) Decide(ctx context.Context, rc domain.RequestContext, absenceID int64, approve bool) (*domain.Absence, error) {
	s.logger.Info("DecideAbsence: actor=%d, absence=%d, approve=%t", rc.ActorID(), absenceID, approve)

	if !rc.IsAdmin() {
		s.logger.Warn("DecideAbsence: actor=%d is not an administrator", rc.ActorID())
		return nil, ErrAccessDenied
	}

	now := s.timeProvider.Now()
	var absence *domain.Absence

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		absence, err = s.absenceRepo.GetByID(txCtx, absenceID)
		if err != nil {
			if errors.Is(err, absenceRepo.ErrAbsenceNotFound) {
				return ErrAbsenceNotFound
			}
			return fmt.Errorf("%w: failed to get absence: %w", ErrInternal, err)
		}

		if approve {
			err = absence.Approve(rc.ActorID(), now)
		} else {
			err = absence.Reject(rc.ActorID(), now)
		}
		if err != nil {
			return err
		}

		if err := s.absenceRepo.UpdateDecision(txCtx, absence); err != nil {
			return fmt.Errorf("%w: failed to save decision: %w", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInfrastructure) {
			s.logger.Error("DecideAbsence: absence id=%d: %v", absenceID, err)
		} else {
			s.logger.Warn("DecideAbsence: absence id=%d: %v", absenceID, err)
		}
		return nil, err
	}

	eventType := events.AbsenceRejected
	if approve {
		eventType = events.AbsenceApproved
	}
	s.logger.Info("DecideAbsence: absence id=%d is now %s", absence.ID, absence.State)
	s.publish(ctx, events.NewAbsenceEvent(eventType, absence, rc.ActorID(), now))

	return absence, nil
}

// ListByWorker возвращает отсутствия мастера; клиентам недоступно
func (s *Service) ListByWorker(ctx context.Context, rc domain.RequestContext, workerID int64) ([]*domain.Absence, error) {
	if !rc.IsAdmin() && !rc.ActsAsWorker(workerID) {
		s.logger.Warn("ListAbsences: actor=%d cannot view absences of worker=%d", rc.ActorID(), workerID)
		return nil, ErrAccessDenied
	}

	list, err := s.absenceRepo.ListByWorker(ctx, workerID)
	if err != nil {
		s.logger.Error("ListAbsences: worker=%d: %v", workerID, err)
		return nil, fmt.Errorf("%w: failed to list absences: %v", ErrInternal, err)
	}

	return list, nil
}

// IsAbsent true, если одобренное отсутствие покрывает дату
func (s *Service) IsAbsent(ctx context.Context, workerID int64, date time.Time) (bool, error) {
	absent, err := s.absenceRepo.HasApprovedOn(ctx, workerID, date)
	if err != nil {
		s.logger.Error("IsAbsent: worker=%d, date=%s: %v", workerID, date.Format(domain.DateFormat), err)
		return false, fmt.Errorf("%w: failed to check absence: %v", ErrInternal, err)
	}
	return absent, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Events: %v", err)
	}
}

func validateRequest(in RequestInput) error {
	if in.WorkerID <= 0 {
		return fmt.Errorf("%w: workerId must be positive", ErrInvalidInput)
	}
	if !in.Type.IsValid() {
		return fmt.Errorf("%w: unknown absence type %q", ErrInvalidInput, in.Type)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if in.EndDate.Before(in.StartDate) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	if len([]rune(in.Reason)) > domain.MaxMotiveLength {
		return fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}
	return nil
}
