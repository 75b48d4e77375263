package conflicts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	reservations []*domain.Reservation
	err          error
	filters      []domain.ReservationFilter
}

func (f *fakeRepo) List(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Reservation
	for _, r := range f.reservations {
		if filter.WorkerID != nil && !r.IsAssignedTo(*filter.WorkerID) {
			continue
		}
		if filter.ClientID != nil && r.ClientID != *filter.ClientID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

type countingMetrics struct{ scopes []string }

func (m *countingMetrics) IncConflict(scope string) { m.scopes = append(m.scopes, scope) }

var day = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

func existing(id, clientID, workerID int64, start string, duration int, status domain.ReservationStatus) *domain.Reservation {
	return &domain.Reservation{
		ID:              id,
		ClientID:        clientID,
		WorkerID:        ptr.Ptr(workerID),
		Date:            day,
		StartTime:       types.TimeString(start),
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestCheckWorkerConflict(t *testing.T) {
	repo := &fakeRepo{reservations: []*domain.Reservation{
		existing(1, 3, 7, "10:00", 60, domain.StatusConfirmed),
		existing(2, 4, 7, "12:00", 30, domain.StatusCancelled),
		existing(3, 5, 8, "10:00", 60, domain.StatusPending),
	}}
	g := NewGuard(repo, nil, nopLogger{})

	res, err := g.CheckWorkerConflict(context.Background(), 7, day, "10:30", 60)
	require.NoError(t, err)
	assert.False(t, res.Available)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, int64(1), res.Conflicts[0].ID)

	res, err = g.CheckWorkerConflict(context.Background(), 7, day, "11:00", 60)
	require.NoError(t, err)
	assert.True(t, res.Available, "back-to-back and cancelled reservations do not conflict")

	require.NotEmpty(t, repo.filters)
	assert.True(t, repo.filters[0].ActiveOnly)
	assert.Equal(t, day, *repo.filters[0].Date)
}

// Клиент с записью 11:00 (30 мин) у мастера A не может записаться на 11:15 к мастеру B
func TestEnsureClientFree_AcrossWorkers(t *testing.T) {
	repo := &fakeRepo{reservations: []*domain.Reservation{
		existing(1, 3, 7, "11:00", 30, domain.StatusPending),
	}}
	m := &countingMetrics{}
	g := NewGuard(repo, m, nopLogger{})

	require.NoError(t, g.EnsureWorkerFree(context.Background(), 8, day, "11:15", 30))

	err := g.EnsureClientFree(context.Background(), 3, day, "11:15", 30)
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, domain.ConflictScopeClient, conflict.Scope)
	assert.Equal(t, int64(3), conflict.OwnerID)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, int64(1), conflict.Conflicts[0].ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, []string{"client"}, m.scopes)
}

func TestCheck_RepositoryError(t *testing.T) {
	g := NewGuard(&fakeRepo{err: errors.New("connection refused")}, nil, nopLogger{})

	_, err := g.CheckClientConflict(context.Background(), 3, day, "11:00", 30)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, domain.ErrInfrastructure)
}

func TestCheck_InvalidInput(t *testing.T) {
	repo := &fakeRepo{reservations: []*domain.Reservation{existing(1, 3, 7, "11:00", 30, domain.StatusPending)}}
	g := NewGuard(repo, nil, nopLogger{})

	_, err := g.CheckWorkerConflict(context.Background(), 7, day, "11:00", 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
