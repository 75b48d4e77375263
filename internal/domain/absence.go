package domain

import "time"

// AbsenceType reason family of a worker absence
type AbsenceType string

const (
	AbsenceVacation AbsenceType = "vacation"
	AbsenceSick     AbsenceType = "sick"
	AbsencePersonal AbsenceType = "personal"
	AbsenceTraining AbsenceType = "training"
	AbsenceOther    AbsenceType = "other"
)

// IsValid reports whether t is a known absence type
func (t AbsenceType) IsValid() bool {
	switch t {
	case AbsenceVacation, AbsenceSick, AbsencePersonal, AbsenceTraining, AbsenceOther:
		return true
	}
	return false
}

// AbsenceState approval state of an absence
type AbsenceState string

const (
	AbsencePending  AbsenceState = "pending"
	AbsenceApproved AbsenceState = "approved"
	AbsenceRejected AbsenceState = "rejected"
)

// Absence is a worker leave period over inclusive calendar dates
type Absence struct {
	ID        int64
	WorkerID  int64
	StartDate time.Time
	EndDate   time.Time
	Type      AbsenceType
	Reason    string
	State     AbsenceState
	DecidedBy *int64
	DecidedAt *time.Time
	CreatedAt time.Time
}

// Covers reports whether an approved absence blocks the given date
func (a *Absence) Covers(date time.Time) bool {
	if a.State != AbsenceApproved {
		return false
	}
	d := truncateDate(date)
	return !d.Before(truncateDate(a.StartDate)) && !d.After(truncateDate(a.EndDate))
}

// Approve moves a pending absence to approved
func (a *Absence) Approve(adminID int64, at time.Time) error {
	return a.decide(AbsenceApproved, "approve", adminID, at)
}

// Reject moves a pending absence to rejected
func (a *Absence) Reject(adminID int64, at time.Time) error {
	return a.decide(AbsenceRejected, "reject", adminID, at)
}

func (a *Absence) decide(to AbsenceState, action string, adminID int64, at time.Time) error {
	if a.State != AbsencePending {
		return &InvalidStateTransitionError{Entity: "absence", ID: a.ID, From: string(a.State), Action: action}
	}
	a.State = to
	a.DecidedBy = &adminID
	a.DecidedAt = &at
	return nil
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
