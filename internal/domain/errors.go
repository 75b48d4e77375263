package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Error kinds. Every error returned by the booking core wraps exactly one of them.
var (
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("not found")
	ErrPermission             = errors.New("permission denied")
	ErrConflict               = errors.New("scheduling conflict")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrNoAvailability         = errors.New("no availability")
	ErrInfrastructure         = errors.New("infrastructure error")
)

// kindError is a named sentinel that belongs to one error kind
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NewError creates a package sentinel that matches kind with errors.Is
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

var (
	// ErrInvalidInterval returned for malformed time/duration input
	ErrInvalidInterval = fmt.Errorf("%w: invalid time interval", ErrValidation)

	// ErrMotiveRequired returned when a mandatory motive is missing
	ErrMotiveRequired = fmt.Errorf("%w: motive is required", ErrValidation)

	// ErrMotiveTooLong returned when a motive exceeds MaxMotiveLength
	ErrMotiveTooLong = fmt.Errorf("%w: motive is too long", ErrValidation)

	// ErrAppointmentNotInFuture returned when the appointment start instant has already passed
	ErrAppointmentNotInFuture = fmt.Errorf("%w: appointment start is not in the future", ErrValidation)

	// ErrNotQualified returned when a worker's categories do not cover the service
	ErrNotQualified = fmt.Errorf("%w: worker is not qualified for this service", ErrValidation)

	// ErrNotAssignedWorker returned when the acting worker is not the assigned one
	ErrNotAssignedWorker = fmt.Errorf("%w: reservation is not assigned to this worker", ErrPermission)

	// ErrNotReservationOwner returned when a client acts on someone else's reservation
	ErrNotReservationOwner = fmt.Errorf("%w: reservation belongs to another client", ErrPermission)

	// ErrUnknownCategory returned for a category that is not part of the catalog
	ErrUnknownCategory = fmt.Errorf("%w: unknown service category", ErrValidation)

	// ErrUnknownPolicy returned for an unknown cancellation policy name
	ErrUnknownPolicy = fmt.Errorf("%w: unknown cancellation policy", ErrValidation)

	// ErrInvalidSchedule returned when a stored weekly schedule cannot be decoded
	ErrInvalidSchedule = fmt.Errorf("%w: invalid weekly schedule", ErrValidation)
)

// ConflictScope tells whose agenda produced the overlap
type ConflictScope string

const (
	ConflictScopeWorker ConflictScope = "worker"
	ConflictScopeClient ConflictScope = "client"
)

// ConflictError is returned when a prospective booking overlaps active reservations
type ConflictError struct {
	Scope     ConflictScope
	OwnerID   int64 // worker ID or client ID depending on Scope
	Date      time.Time
	Start     types.TimeString
	Duration  int
	Conflicts []*Reservation
}

func (e *ConflictError) Error() string {
	ids := make([]string, 0, len(e.Conflicts))
	for _, r := range e.Conflicts {
		ids = append(ids, fmt.Sprintf("%d", r.ID))
	}
	return fmt.Sprintf("%s conflict: %s=%d on %s at %s (%d min) overlaps reservation(s) [%s]",
		e.Scope, e.Scope, e.OwnerID, e.Date.Format(DateFormat), e.Start, e.Duration, strings.Join(ids, ","))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// InvalidStateTransitionError is returned for an illegal lifecycle move
type InvalidStateTransitionError struct {
	Entity string
	ID     int64
	From   string
	Action string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s %s id=%d in status %q", e.Action, e.Entity, e.ID, e.From)
}

func (e *InvalidStateTransitionError) Unwrap() error {
	return ErrInvalidStateTransition
}

// NoAvailabilityError is an expected business outcome: nobody can take the service on that date
type NoAvailabilityError struct {
	Date      time.Time
	ServiceID int64
	Summary   AvailabilitySummary
}

func (e *NoAvailabilityError) Error() string {
	return fmt.Sprintf("no availability for service=%d on %s (capacity=%d, absence=%d, schedule=%d, slots=%d)",
		e.ServiceID, e.Date.Format(DateFormat),
		e.Summary.NoCapacity, e.Summary.Absent, e.Summary.NoSchedule, e.Summary.NoSlots)
}

func (e *NoAvailabilityError) Unwrap() error {
	return ErrNoAvailability
}
