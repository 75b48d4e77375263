package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

var (
	testLoc = time.UTC
	now     = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
)

func newPending(workerID *int64) *Reservation {
	return &Reservation{
		ID:              10,
		ClientID:        3,
		WorkerID:        workerID,
		ServiceID:       1,
		Date:            time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "11:00",
		DurationMinutes: 30,
		Status:          StatusPending,
	}
}

func assertTransitionError(t *testing.T, err error, action string) {
	t.Helper()
	var stateErr *InvalidStateTransitionError
	require.True(t, errors.As(err, &stateErr), "expected InvalidStateTransitionError, got %v", err)
	assert.Equal(t, action, stateErr.Action)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestReservation_AcceptOnce(t *testing.T) {
	r := newPending(ptr.Ptr(int64(7)))

	require.NoError(t, r.Accept(7, now))
	assert.Equal(t, StatusConfirmed, r.Status)

	err := r.Accept(7, now)
	assertTransitionError(t, err, "accept")
	assert.Equal(t, StatusConfirmed, r.Status)
}

func TestReservation_AcceptByOtherWorker(t *testing.T) {
	r := newPending(ptr.Ptr(int64(7)))
	assert.ErrorIs(t, r.Accept(8, now), ErrNotAssignedWorker)
	assert.ErrorIs(t, r.Accept(8, now), ErrPermission)

	unassigned := newPending(nil)
	assert.ErrorIs(t, unassigned.Accept(7, now), ErrNotAssignedWorker)
}

func TestReservation_Reject(t *testing.T) {
	r := newPending(ptr.Ptr(int64(7)))

	assert.ErrorIs(t, r.Reject(7, "   ", now), ErrMotiveRequired)
	assert.Equal(t, StatusPending, r.Status)

	require.NoError(t, r.Reject(7, " Agenda completa ", now))
	assert.Equal(t, StatusRejected, r.Status)
	assert.Equal(t, "Agenda completa", r.RejectionReason)
	assert.Equal(t, "[2025-06-10T08:00:00Z] worker#7 rejected: Agenda completa", r.InternalNotes)

	assertTransitionError(t, r.Accept(7, now), "accept")
}

func TestReservation_Cancel(t *testing.T) {
	owner := NewRequestContext(3, RoleClient, nil)

	r := newPending(ptr.Ptr(int64(7)))
	c := Cancellation{Motive: "viaje", Policy: PolicyModerate, Penalty: decimal.NewFromInt(5)}
	require.NoError(t, r.Cancel(owner, c, now, testLoc))

	assert.Equal(t, StatusCancelled, r.Status)
	assert.Equal(t, "viaje", r.CancellationReason)
	assert.Equal(t, PolicyModerate, r.CancellationPolicy)
	assert.True(t, decimal.NewFromInt(5).Equal(r.Penalty))
	require.NotNil(t, r.CancelledAt)
	assert.Equal(t, now, *r.CancelledAt)

	assertTransitionError(t, r.Cancel(owner, c, now, testLoc), "cancel")
}

func TestReservation_CancelGuards(t *testing.T) {
	owner := NewRequestContext(3, RoleClient, nil)
	stranger := NewRequestContext(4, RoleClient, nil)
	admin := NewRequestContext(1, RoleAdmin, nil)
	c := Cancellation{Motive: "no puedo", Policy: PolicyFlexible}

	t.Run("other client", func(t *testing.T) {
		r := newPending(nil)
		assert.ErrorIs(t, r.Cancel(stranger, c, now, testLoc), ErrNotReservationOwner)
	})

	t.Run("admin cancels any", func(t *testing.T) {
		r := newPending(nil)
		assert.NoError(t, r.Cancel(admin, c, now, testLoc))
	})

	t.Run("appointment already started", func(t *testing.T) {
		r := newPending(nil)
		started := time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)
		assert.ErrorIs(t, r.Cancel(owner, c, started, testLoc), ErrAppointmentNotInFuture)
		assert.Equal(t, StatusPending, r.Status)
	})

	t.Run("past appointment", func(t *testing.T) {
		r := newPending(nil)
		err := r.Cancel(owner, c, now.AddDate(0, 0, 2), testLoc)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("rejected reservation", func(t *testing.T) {
		r := newPending(nil)
		r.Status = StatusRejected
		assertTransitionError(t, r.Cancel(owner, c, now.AddDate(0, 0, 2), testLoc), "cancel")
	})

	t.Run("missing motive", func(t *testing.T) {
		r := newPending(nil)
		assert.ErrorIs(t, r.Cancel(owner, Cancellation{Policy: PolicyFlexible}, now, testLoc), ErrMotiveRequired)
	})
}

func TestReservation_StartsAtUsesLocation(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)

	r := newPending(nil)
	assert.Equal(t, time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC), r.StartsAt(loc).UTC())
}

func TestReservation_AssignWorker(t *testing.T) {
	r := newPending(nil)
	require.NoError(t, r.AssignWorker(7, now))
	assert.True(t, r.IsAssignedTo(7))
	assert.Contains(t, r.InternalNotes, "worker#7 claimed")

	assertTransitionError(t, r.AssignWorker(8, now), "claim")
	assert.True(t, r.IsAssignedTo(7))
}

func TestReservation_Complete(t *testing.T) {
	for _, status := range []ReservationStatus{StatusPending, StatusConfirmed} {
		r := newPending(ptr.Ptr(int64(7)))
		r.Status = status
		require.NoError(t, r.Complete(now))
		assert.Equal(t, StatusCompleted, r.Status)
	}

	for _, status := range TerminalStatuses {
		r := newPending(ptr.Ptr(int64(7)))
		r.Status = status
		assertTransitionError(t, r.Complete(now), "complete")
		assertTransitionError(t, r.Accept(7, now), "accept")
		assertTransitionError(t, r.Reject(7, "x", now), "reject")
		assertTransitionError(t, r.AssignWorker(7, now), "claim")
	}
}

func TestReservationStatus(t *testing.T) {
	for _, s := range ActiveStatuses {
		assert.True(t, s.IsActive())
		assert.False(t, s.IsTerminal())
	}
	for _, s := range TerminalStatuses {
		assert.False(t, s.IsActive())
		assert.True(t, s.IsTerminal())
	}

	_, err := ParseReservationStatus("archived")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
