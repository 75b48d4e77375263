package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// UnavailableReason explains why a worker has no bookable slot
type UnavailableReason string

const (
	ReasonNoCapacity UnavailableReason = "no-capacity"
	ReasonAbsent     UnavailableReason = "absent"
	ReasonNoSchedule UnavailableReason = "no-schedule"
	ReasonNoSlots    UnavailableReason = "no-slots"
)

// WorkerAvailability is the free slots of one worker for a service on a date
type WorkerAvailability struct {
	Worker       *Worker
	WorkingHours *TimeRange
	Slots        []types.TimeString
	Reason       UnavailableReason // empty when Slots is not empty
}

// AvailabilitySummary aggregates per-reason counts
type AvailabilitySummary struct {
	Workers    int
	Available  int
	NoCapacity int
	Absent     int
	NoSchedule int
	NoSlots    int
}

// Add accounts one worker outcome
func (s *AvailabilitySummary) Add(wa WorkerAvailability) {
	s.Workers++
	switch wa.Reason {
	case ReasonNoCapacity:
		s.NoCapacity++
	case ReasonAbsent:
		s.Absent++
	case ReasonNoSchedule:
		s.NoSchedule++
	case ReasonNoSlots:
		s.NoSlots++
	default:
		s.Available++
	}
}

// Availability is the resolved availability for a service on a date
type Availability struct {
	Service *Service
	Date    time.Time
	Workers []WorkerAvailability
	Summary AvailabilitySummary
}
