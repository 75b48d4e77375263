package domain

// Default configuration values
const (
	DefaultSlotStepMinutes    = 30
	DefaultAdvanceBookingDays = 0 // 0 = unlimited
)

// Business validation constants
const (
	MaxNotesLength  = 500
	MaxMotiveLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that count toward overlap checks
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses statuses without any outgoing transition
var TerminalStatuses = []ReservationStatus{
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
}
