package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Service)
	return s, args.Error(1)
}

type staticWorkers []*domain.Worker

func (w staticWorkers) ListActive(context.Context) ([]*domain.Worker, error) { return w, nil }

// absenceRanges одобренные отсутствия мастера: [from, to] включительно
type absenceRanges map[int64][2]time.Time

func (a absenceRanges) IsAbsent(_ context.Context, workerID int64, date time.Time) (bool, error) {
	r, ok := a[workerID]
	if !ok {
		return false, nil
	}
	return !date.Before(r[0]) && !date.After(r[1]), nil
}

type staticReservations []*domain.Reservation

func (s staticReservations) List(_ context.Context, f domain.ReservationFilter) ([]*domain.Reservation, error) {
	var out []*domain.Reservation
	for _, r := range s {
		if f.WorkerID != nil && !r.IsAssignedTo(*f.WorkerID) {
			continue
		}
		if f.Date != nil && r.Date.Format(domain.DateFormat) != f.Date.Format(domain.DateFormat) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func window(t *testing.T, start, end string) domain.TimeRange {
	t.Helper()
	r, err := domain.NewTimeRange(start, end)
	require.NoError(t, err)
	return r
}

func service(duration int, category domain.ServiceCategory) *domain.Service {
	return &domain.Service{ID: 1, Name: "Servicio", Category: category, DurationMinutes: duration, Active: true}
}

func newUseCase(
	svc *domain.Service,
	workers staticWorkers,
	absences absenceRanges,
	reservations staticReservations,
	now time.Time,
	cfg Config,
) *UseCase {
	catalog := &mockCatalog{}
	catalog.On("GetServiceByID", mock.Anything, svc.ID).Return(svc, nil)
	catalog.On("GetServiceByID", mock.Anything, mock.Anything).Return(nil, catalogRepo.ErrServiceNotFound)
	return NewUseCase(catalog, workers, absences, reservations, cfg, nopLogger{}).
		WithTimeProvider(fixedTime{t: now})
}

func TestExecute_ExcludesBookedSlot(t *testing.T) {
	monday := day(2025, 6, 9)
	worker := &domain.Worker{
		ID:         7,
		Categories: domain.NewCategorySet(domain.CategoryHairdressing),
		Schedule:   domain.WeeklySchedule{time.Monday: window(t, "09:00", "13:00")},
	}
	booked := &domain.Reservation{
		ID: 1, ClientID: 3, WorkerID: ptr.Ptr(int64(7)), Date: monday,
		StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed,
	}
	uc := newUseCase(service(60, domain.CategoryHairdressing), staticWorkers{worker}, absenceRanges{},
		staticReservations{booked}, day(2025, 6, 1), Config{SlotStepMinutes: 60})

	res, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)
	require.Len(t, res.Workers, 1)
	assert.Equal(t, []types.TimeString{"09:00", "11:00", "12:00"}, res.Workers[0].Slots)
	assert.Empty(t, res.Workers[0].Reason)
	assert.Equal(t, 1, res.Summary.Available)
}

func TestExecute_DefaultStepNeverOffersCollidingSlot(t *testing.T) {
	monday := day(2025, 6, 9)
	worker := &domain.Worker{
		ID:         7,
		Categories: domain.NewCategorySet(domain.CategoryHairdressing),
		Schedule:   domain.WeeklySchedule{time.Monday: window(t, "09:00", "13:00")},
	}
	booked := &domain.Reservation{
		ID: 1, WorkerID: ptr.Ptr(int64(7)), Date: monday,
		StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusPending,
	}
	uc := newUseCase(service(60, domain.CategoryHairdressing), staticWorkers{worker}, absenceRanges{},
		staticReservations{booked}, day(2025, 6, 1), Config{})

	res, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)
	// 09:30 пересекается с 10:00, 12:30 не помещается в окно
	assert.Equal(t, []types.TimeString{"09:00", "11:00", "11:30", "12:00"}, res.Workers[0].Slots)
}

func TestExecute_ReasonsAndSummary(t *testing.T) {
	date := day(2025, 7, 5) // суббота
	hair := domain.NewCategorySet(domain.CategoryHairdressing)
	workers := staticWorkers{
		{ID: 1, Categories: domain.NewCategorySet(domain.CategoryAesthetics),
			Schedule: domain.WeeklySchedule{time.Saturday: window(t, "09:00", "13:00")}},
		{ID: 2, Categories: hair, Schedule: domain.WeeklySchedule{time.Saturday: window(t, "09:00", "13:00")}},
		{ID: 3, Categories: hair, Schedule: domain.WeeklySchedule{time.Monday: window(t, "09:00", "13:00")}},
		{ID: 4, Categories: hair, Schedule: domain.WeeklySchedule{time.Saturday: window(t, "09:00", "09:30")}},
		{ID: 5, Categories: hair, Schedule: domain.WeeklySchedule{time.Saturday: window(t, "10:00", "11:00")}},
	}
	absences := absenceRanges{2: {day(2025, 7, 1), day(2025, 7, 10)}}
	uc := newUseCase(service(60, domain.CategoryHairdressing), workers, absences, nil, day(2025, 6, 1), Config{})

	res, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})
	require.NoError(t, err)

	reasons := map[int64]domain.UnavailableReason{}
	for _, wa := range res.Workers {
		reasons[wa.Worker.ID] = wa.Reason
	}
	assert.Equal(t, domain.ReasonNoCapacity, reasons[1])
	assert.Equal(t, domain.ReasonAbsent, reasons[2])
	assert.Equal(t, domain.ReasonNoSchedule, reasons[3])
	assert.Equal(t, domain.ReasonNoSlots, reasons[4])
	assert.Empty(t, reasons[5])
	assert.Equal(t, domain.AvailabilitySummary{
		Workers: 5, Available: 1, NoCapacity: 1, Absent: 1, NoSchedule: 1, NoSlots: 1,
	}, res.Summary)
}

func TestExecute_NoAvailability(t *testing.T) {
	date := day(2025, 7, 5)
	worker := &domain.Worker{
		ID:         2,
		Categories: domain.NewCategorySet(domain.CategoryHairdressing),
		Schedule:   domain.WeeklySchedule{time.Saturday: window(t, "09:00", "13:00")},
	}
	uc := newUseCase(service(30, domain.CategoryHairdressing), staticWorkers{worker},
		absenceRanges{2: {day(2025, 7, 1), day(2025, 7, 10)}}, nil, day(2025, 6, 1), Config{})

	_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: date})

	var noAvail *domain.NoAvailabilityError
	require.ErrorAs(t, err, &noAvail)
	assert.ErrorIs(t, err, domain.ErrNoAvailability)
	assert.Equal(t, 1, noAvail.Summary.Absent)
	assert.Equal(t, 0, noAvail.Summary.Available)
}

func TestExecute_TodayDropsStartedSlots(t *testing.T) {
	monday := day(2025, 6, 9)
	worker := &domain.Worker{
		ID:         7,
		Categories: domain.NewCategorySet(domain.CategoryHairdressing),
		Schedule:   domain.WeeklySchedule{time.Monday: window(t, "09:00", "12:00")},
	}
	now := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	uc := newUseCase(service(30, domain.CategoryHairdressing), staticWorkers{worker}, absenceRanges{}, nil, now, Config{})

	res, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: monday})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"10:30", "11:00", "11:30"}, res.Workers[0].Slots)
}

func TestExecute_DateValidation(t *testing.T) {
	svc := service(30, domain.CategoryHairdressing)
	now := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)

	t.Run("past", func(t *testing.T) {
		uc := newUseCase(svc, nil, absenceRanges{}, nil, now, Config{})
		_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: day(2025, 6, 8)})
		assert.ErrorIs(t, err, ErrInvalidDate)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("advance window", func(t *testing.T) {
		uc := newUseCase(svc, nil, absenceRanges{}, nil, now, Config{AdvanceBookingDays: 7})
		_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: day(2025, 6, 17)})
		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("salon timezone decides today", func(t *testing.T) {
		// 23:30 UTC 8 июня - уже 9 июня в UTC+2
		late := time.Date(2025, 6, 8, 23, 30, 0, 0, time.UTC)
		uc := newUseCase(svc, nil, absenceRanges{}, nil, late, Config{Location: time.FixedZone("CEST", 2*3600)})
		_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: day(2025, 6, 8)})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("missing service id", func(t *testing.T) {
		uc := newUseCase(svc, nil, absenceRanges{}, nil, now, Config{})
		_, err := uc.Execute(context.Background(), &Request{Date: day(2025, 6, 10)})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_ServiceLookup(t *testing.T) {
	now := day(2025, 6, 1)

	t.Run("unknown", func(t *testing.T) {
		uc := newUseCase(service(30, domain.CategoryHairdressing), nil, absenceRanges{}, nil, now, Config{})
		_, err := uc.Execute(context.Background(), &Request{ServiceID: 99, Date: day(2025, 6, 10)})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("inactive", func(t *testing.T) {
		svc := service(30, domain.CategoryHairdressing)
		svc.Active = false
		uc := newUseCase(svc, nil, absenceRanges{}, nil, now, Config{})
		_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: day(2025, 6, 10)})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		catalog := &mockCatalog{}
		catalog.On("GetServiceByID", mock.Anything, int64(1)).Return(nil, errors.New("connection refused"))
		uc := NewUseCase(catalog, nil, absenceRanges{}, nil, Config{}, nopLogger{}).WithTimeProvider(fixedTime{t: now})
		_, err := uc.Execute(context.Background(), &Request{ServiceID: 1, Date: day(2025, 6, 10)})
		assert.ErrorIs(t, err, ErrInternal)
		assert.ErrorIs(t, err, domain.ErrInfrastructure)
	})
}

func TestGenerateSlots_TouchingReservationIsFree(t *testing.T) {
	booked := []*domain.Reservation{{StartTime: "10:00", DurationMinutes: 30, Status: domain.StatusConfirmed}}
	slots, err := generateSlots(window(t, "09:30", "11:00"), 30, 30, booked, -1)
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"09:30", "10:30"}, slots)
}
