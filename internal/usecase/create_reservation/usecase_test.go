package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/lock"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	reservationRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/reservation"
	workerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/worker"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/service/conflicts"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type directTx struct{}

func (directTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type countingMetrics struct {
	mu      sync.Mutex
	created map[string]int
}

func (m *countingMetrics) IncReservationCreated(category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created[category]++
}

// memStore хранилище бронирований с тем же уникальным ограничением, что и индекс uq_reservations_worker_slot
type memStore struct {
	mu     sync.Mutex
	items  []*domain.Reservation
	nextID int64
}

func (s *memStore) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.Status.IsActive() && r.WorkerID != nil && e.IsAssignedTo(*r.WorkerID) &&
			e.Date.Equal(r.Date) && e.StartTime == r.StartTime {
			return nil, fmt.Errorf("%w: duplicate key", reservationRepo.ErrSlotTaken)
		}
	}
	s.nextID++
	cp := *r
	cp.ID = s.nextID
	s.items = append(s.items, &cp)
	return &cp, nil
}

func (s *memStore) List(_ context.Context, f domain.ReservationFilter) ([]*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Reservation
	for _, r := range s.items {
		if f.ClientID != nil && r.ClientID != *f.ClientID {
			continue
		}
		if f.WorkerID != nil && !r.IsAssignedTo(*f.WorkerID) {
			continue
		}
		if f.Date != nil && !r.Date.Equal(*f.Date) {
			continue
		}
		if f.ActiveOnly && !r.Status.IsActive() {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

type memCatalog map[int64]*domain.Service

func (m memCatalog) GetServiceByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := m[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

type memWorkers map[int64]*domain.Worker

func (m memWorkers) GetByID(_ context.Context, id int64) (*domain.Worker, error) {
	w, ok := m[id]
	if !ok {
		return nil, workerRepo.ErrWorkerNotFound
	}
	return w, nil
}

type absentSet map[int64]bool

func (a absentSet) IsAbsent(_ context.Context, workerID int64, _ time.Time) (bool, error) {
	return a[workerID], nil
}

// freeGuard пропускает любые проверки, чтобы проверить уникальный индекс хранилища
type freeGuard struct{}

func (freeGuard) EnsureWorkerFree(context.Context, int64, time.Time, types.TimeString, int) error {
	return nil
}

func (freeGuard) EnsureClientFree(context.Context, int64, time.Time, types.TimeString, int) error {
	return nil
}

var (
	day = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC) // вторник
	now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	haircut = &domain.Service{ID: 1, Name: "Corte", Category: domain.CategoryHairdressing,
		DurationMinutes: 30, Price: decimal.RequireFromString("25.00"), Active: true}
	facial = &domain.Service{ID: 2, Name: "Limpieza facial", Category: domain.CategoryAesthetics,
		DurationMinutes: 30, Price: decimal.RequireFromString("40.00"), Active: true}
	retired = &domain.Service{ID: 3, Name: "Permanente", Category: domain.CategoryHairdressing,
		DurationMinutes: 60, Active: false}

	client = domain.NewRequestContext(3, domain.RoleClient, nil)
	admin  = domain.NewRequestContext(1, domain.RoleAdmin, nil)
)

func staff(id int64, categories ...domain.ServiceCategory) *domain.Worker {
	window, _ := domain.NewTimeRange("09:00", "18:00")
	return &domain.Worker{
		ID:         id,
		Name:       fmt.Sprintf("worker-%d", id),
		Categories: domain.NewCategorySet(categories...),
		Schedule:   domain.WeeklySchedule{time.Tuesday: window},
		Active:     true,
	}
}

type fixture struct {
	store   *memStore
	workers memWorkers
	absent  absentSet
	pub     *recordingPublisher
	metrics *countingMetrics
	uc      *UseCase
}

func newFixture(guard ConflictGuard, cfg Config) *fixture {
	f := &fixture{
		store: &memStore{},
		workers: memWorkers{
			1: staff(1, domain.CategoryHairdressing),
			2: staff(2, domain.CategoryAesthetics),
			3: staff(3, domain.CategoryHairdressing, domain.CategoryAesthetics),
		},
		absent:  absentSet{},
		pub:     &recordingPublisher{},
		metrics: &countingMetrics{created: map[string]int{}},
	}
	if guard == nil {
		guard = conflicts.NewGuard(f.store, nil, nopLogger{})
	}
	f.uc = NewUseCase(
		f.store,
		memCatalog{haircut.ID: haircut, facial.ID: facial, retired.ID: retired},
		f.workers,
		f.absent,
		guard,
		lock.NewLocal(),
		directTx{},
		f.pub,
		f.metrics,
		cfg,
		nopLogger{},
	).WithTimeProvider(fixedTime{t: now})
	return f
}

func request(clientID, serviceID, workerID int64, start string) *Request {
	return &Request{ClientID: clientID, ServiceID: serviceID, WorkerID: workerID, Date: day, StartTime: types.TimeString(start)}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(nil, Config{})

	r, err := f.uc.Execute(context.Background(), client, &Request{
		ClientID: 3, ServiceID: 1, WorkerID: 1, Date: day, StartTime: "11:00", Notes: "  flequillo  ",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), r.ID)
	assert.Equal(t, domain.StatusPending, r.Status)
	assert.Equal(t, ptr.Ptr(int64(1)), r.WorkerID)
	assert.Equal(t, "Corte", r.ServiceName)
	assert.Equal(t, "25.00", r.ServicePrice.StringFixed(2))
	assert.Equal(t, 30, r.DurationMinutes)
	assert.Equal(t, "flequillo", r.Notes)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.ReservationCreated, f.pub.events[0].Type)
	assert.Equal(t, 1, f.metrics.created["peluqueria"])
}

func TestExecute_ClientConflictAcrossWorkers(t *testing.T) {
	f := newFixture(nil, Config{})
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, client, request(3, haircut.ID, 1, "11:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, client, request(3, facial.ID, 2, "11:15"))

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.ConflictScopeClient, conflict.Scope)
	assert.Equal(t, int64(3), conflict.OwnerID)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, int64(1), conflict.Conflicts[0].ID)
	assert.Equal(t, 1, f.store.count())
}

func TestExecute_WorkerConflictCheckedFirst(t *testing.T) {
	f := newFixture(nil, Config{})
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, client, request(3, haircut.ID, 1, "11:00"))
	require.NoError(t, err)

	// Пересекается и с агендой мастера, и с агендой клиента
	_, err = f.uc.Execute(ctx, client, request(3, haircut.ID, 1, "11:15"))
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.ConflictScopeWorker, conflict.Scope)

	// Граничащая запись не конфликтует
	_, err = f.uc.Execute(ctx, client, request(3, haircut.ID, 1, "11:30"))
	assert.NoError(t, err)
}

func TestExecute_Rejections(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		rc    domain.RequestContext
		req   *Request
		setup func(f *fixture)
		want  error
	}{
		{name: "specialty mismatch", rc: client, req: request(3, facial.ID, 1, "11:00"), want: domain.ErrNotQualified},
		{name: "unknown service", rc: client, req: request(3, 99, 1, "11:00"), want: ErrServiceNotFound},
		{name: "inactive service", rc: client, req: request(3, retired.ID, 1, "11:00"), want: ErrServiceNotFound},
		{name: "unknown worker", rc: client, req: request(3, haircut.ID, 42, "11:00"), want: ErrWorkerNotFound},
		{
			name: "inactive worker", rc: client, req: request(3, haircut.ID, 1, "11:00"),
			setup: func(f *fixture) { f.workers[1].Active = false },
			want:  ErrWorkerNotFound,
		},
		{name: "outside working hours", rc: client, req: request(3, haircut.ID, 1, "17:45"), want: ErrWorkerUnavailable},
		{
			name: "approved absence", rc: client, req: request(3, haircut.ID, 1, "11:00"),
			setup: func(f *fixture) { f.absent[1] = true },
			want:  ErrWorkerUnavailable,
		},
		{name: "booking for another client", rc: client, req: request(4, haircut.ID, 1, "11:00"), want: ErrAccessDenied},
		{name: "malformed start", rc: client, req: request(3, haircut.ID, 1, "25:00"), want: ErrInvalidInput},
		{
			name: "start in the past", rc: client,
			req:  &Request{ClientID: 3, ServiceID: 1, WorkerID: 1, Date: now, StartTime: "11:30"},
			want: ErrInvalidDate,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(nil, Config{})
			if tc.setup != nil {
				tc.setup(f)
			}
			_, err := f.uc.Execute(ctx, tc.rc, tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, f.store.count())
			assert.Empty(t, f.pub.events)
		})
	}
}

func TestExecute_AdminBooksForClient(t *testing.T) {
	f := newFixture(nil, Config{})
	r, err := f.uc.Execute(context.Background(), admin, request(9, facial.ID, 3, "10:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), r.ClientID)
	assert.Equal(t, int64(1), f.pub.events[0].ActorID)
}

func TestExecute_AdvanceWindow(t *testing.T) {
	f := newFixture(nil, Config{AdvanceBookingDays: 5})
	_, err := f.uc.Execute(context.Background(), client, request(3, haircut.ID, 1, "11:00"))
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_UniqueIndexReportedAsWorkerConflict(t *testing.T) {
	f := newFixture(freeGuard{}, Config{})
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, client, request(3, haircut.ID, 1, "11:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, domain.NewRequestContext(5, domain.RoleClient, nil), request(5, haircut.ID, 1, "11:00"))
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, domain.ConflictScopeWorker, conflict.Scope)
	assert.Equal(t, int64(1), conflict.OwnerID)
}

func TestExecute_ConcurrentSameSlotExactlyOneWins(t *testing.T) {
	f := newFixture(nil, Config{})
	ctx := context.Background()

	const attempts = 20
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		conflicted int
		other      []error
	)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		clientID := int64(100 + i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			// Разные клиенты и разные, но пересекающиеся начала
			begin := "11:00"
			if clientID%2 == 0 {
				begin = "11:15"
			}
			rc := domain.NewRequestContext(clientID, domain.RoleClient, nil)
			_, err := f.uc.Execute(ctx, rc, request(clientID, haircut.ID, 1, begin))

			mu.Lock()
			defer mu.Unlock()
			var conflict *domain.ConflictError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &conflict):
				conflicted++
			default:
				other = append(other, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
	assert.Equal(t, 1, f.store.count())
}
