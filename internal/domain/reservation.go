package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// ErrUnknownStatus returned for an unknown reservation status filter
var ErrUnknownStatus = fmt.Errorf("%w: unknown reservation status", ErrValidation)

// ParseReservationStatus converts a status name
func ParseReservationStatus(raw string) (ReservationStatus, error) {
	s := ReservationStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// IsActive reports whether the status counts toward overlap checks
func (s ReservationStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether no transition can leave the status
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// Reservation represents an appointment of a client for a service
type Reservation struct {
	ID                 int64
	ClientID           int64
	WorkerID           *int64 // nil until assigned
	ServiceID          int64
	ServiceName        string
	ServicePrice       decimal.Decimal
	ServiceCategory    ServiceCategory
	Date               time.Time
	StartTime          types.TimeString
	DurationMinutes    int // copied from the service at creation
	Status             ReservationStatus
	Notes              string
	InternalNotes      string // staff only
	RejectionReason    string
	CancellationReason string
	CancellationPolicy CancellationPolicy
	Penalty            decimal.Decimal
	CancelledAt        *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// StartMinutes minutes since midnight of the start time
func (r *Reservation) StartMinutes() int {
	return r.StartTime.Minutes()
}

// EndMinutes minutes since midnight of the exclusive end
func (r *Reservation) EndMinutes() int {
	return r.StartTime.Minutes() + r.DurationMinutes
}

// StartsAt returns the appointment start instant in loc
func (r *Reservation) StartsAt(loc *time.Location) time.Time {
	y, m, d := r.Date.Date()
	return r.StartTime.On(time.Date(y, m, d, 0, 0, 0, 0, loc))
}

// IsAssignedTo reports whether workerID is the assigned worker
func (r *Reservation) IsAssignedTo(workerID int64) bool {
	return r.WorkerID != nil && *r.WorkerID == workerID
}

// OverlapsWith reports whether the reservation intersects [start, start+duration) on the same day
func (r *Reservation) OverlapsWith(start types.TimeString, duration int) (bool, error) {
	return OverlapsAt(r.StartTime, r.DurationMinutes, start, duration)
}

// CheckAccept validates that workerID may accept the reservation
func (r *Reservation) CheckAccept(workerID int64) error {
	return r.checkDecision("accept", workerID)
}

// CheckReject validates that workerID may reject the reservation with motive
func (r *Reservation) CheckReject(workerID int64, motive string) error {
	if err := r.checkDecision("reject", workerID); err != nil {
		return err
	}
	_, err := normalizeMotive(motive)
	return err
}

func (r *Reservation) checkDecision(action string, workerID int64) error {
	if r.Status != StatusPending {
		return r.transitionError(action)
	}
	if !r.IsAssignedTo(workerID) {
		return ErrNotAssignedWorker
	}
	return nil
}

// Accept confirms a pending reservation on behalf of the assigned worker
func (r *Reservation) Accept(workerID int64, at time.Time) error {
	if err := r.CheckAccept(workerID); err != nil {
		return err
	}

	r.Status = StatusConfirmed
	r.UpdatedAt = at
	return nil
}

// Reject rejects a pending reservation on behalf of the assigned worker.
// The motive is kept for the client and an audit entry goes to the internal notes.
func (r *Reservation) Reject(workerID int64, motive string, at time.Time) error {
	if err := r.CheckReject(workerID, motive); err != nil {
		return err
	}
	motive, _ = normalizeMotive(motive)

	r.Status = StatusRejected
	r.RejectionReason = motive
	r.appendInternalNote(fmt.Sprintf("worker#%d rejected: %s", workerID, motive), at)
	r.UpdatedAt = at
	return nil
}

// Cancellation holds the data recorded on cancel
type Cancellation struct {
	Motive  string
	Policy  CancellationPolicy
	Penalty decimal.Decimal
}

// CheckCancel validates that actor may cancel the reservation at now
func (r *Reservation) CheckCancel(actor RequestContext, motive string, now time.Time, loc *time.Location) error {
	if !r.Status.IsActive() {
		return r.transitionError("cancel")
	}
	if actor.IsClient() && actor.ActorID() != r.ClientID {
		return ErrNotReservationOwner
	}
	if !now.Before(r.StartsAt(loc)) {
		return ErrAppointmentNotInFuture
	}
	if _, err := normalizeMotive(motive); err != nil {
		return err
	}
	return nil
}

// Cancel cancels an active future reservation
func (r *Reservation) Cancel(actor RequestContext, c Cancellation, now time.Time, loc *time.Location) error {
	if err := r.CheckCancel(actor, c.Motive, now, loc); err != nil {
		return err
	}
	motive, _ := normalizeMotive(c.Motive)

	r.Status = StatusCancelled
	r.CancellationReason = motive
	r.CancellationPolicy = c.Policy
	r.Penalty = c.Penalty
	r.CancelledAt = &now
	r.appendInternalNote(fmt.Sprintf("%s#%d cancelled (%s): %s", actor.Role(), actor.ActorID(), c.Policy, motive), now)
	r.UpdatedAt = now
	return nil
}

// CheckAssign validates that the reservation can still be claimed
func (r *Reservation) CheckAssign() error {
	if r.Status != StatusPending || r.WorkerID != nil {
		return r.transitionError("claim")
	}
	return nil
}

// AssignWorker claims an unassigned pending reservation for workerID
func (r *Reservation) AssignWorker(workerID int64, at time.Time) error {
	if err := r.CheckAssign(); err != nil {
		return err
	}

	r.WorkerID = &workerID
	r.appendInternalNote(fmt.Sprintf("worker#%d claimed the reservation", workerID), at)
	r.UpdatedAt = at
	return nil
}

// Complete marks a non-terminal reservation as completed
func (r *Reservation) Complete(at time.Time) error {
	if r.Status.IsTerminal() {
		return r.transitionError("complete")
	}

	r.Status = StatusCompleted
	r.CompletedAt = &at
	r.UpdatedAt = at
	return nil
}

func (r *Reservation) transitionError(action string) error {
	return &InvalidStateTransitionError{Entity: "reservation", ID: r.ID, From: string(r.Status), Action: action}
}

func (r *Reservation) appendInternalNote(entry string, at time.Time) {
	line := fmt.Sprintf("[%s] %s", at.UTC().Format(time.RFC3339), entry)
	if r.InternalNotes == "" {
		r.InternalNotes = line
		return
	}
	r.InternalNotes += "\n" + line
}

func normalizeMotive(motive string) (string, error) {
	motive = strings.TrimSpace(motive)
	if motive == "" {
		return "", ErrMotiveRequired
	}
	if len([]rune(motive)) > MaxMotiveLength {
		return "", ErrMotiveTooLong
	}
	return motive, nil
}

// ReservationFilter selects reservations for listing
type ReservationFilter struct {
	ClientID   *int64
	WorkerID   *int64
	Date       *time.Time
	Status     *ReservationStatus
	ActiveOnly bool // ignored when Status is set
}

// Agenda is a worker's day: working window, absence flag and active reservations
type Agenda struct {
	WorkerID     int64
	Date         time.Time
	WorkingHours *TimeRange
	Absent       bool
	Reservations []*Reservation
}
