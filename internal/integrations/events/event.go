package events

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Type тип события жизненного цикла
type Type string

const (
	ReservationCreated   Type = "reservation.created"
	ReservationConfirmed Type = "reservation.confirmed"
	ReservationRejected  Type = "reservation.rejected"
	ReservationCancelled Type = "reservation.cancelled"
	ReservationClaimed   Type = "reservation.claimed"
	ReservationCompleted Type = "reservation.completed"

	AbsenceRequested Type = "absence.requested"
	AbsenceApproved  Type = "absence.approved"
	AbsenceRejected  Type = "absence.rejected"
)

// Event событие, публикуемое после фиксации изменения
type Event struct {
	ID          string      `json:"event_id"`
	Type        Type        `json:"event_type"`
	AggregateID int64       `json:"aggregate_id"`
	ActorID     int64       `json:"actor_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Payload     interface{} `json:"payload"`
}

// ReservationPayload снимок бронирования в событии
type ReservationPayload struct {
	ID                 int64  `json:"id"`
	ClientID           int64  `json:"client_id"`
	WorkerID           *int64 `json:"worker_id,omitempty"`
	ServiceID          int64  `json:"service_id"`
	Date               string `json:"date"`
	StartTime          string `json:"start_time"`
	DurationMinutes    int    `json:"duration_minutes"`
	Status             string `json:"status"`
	RejectionReason    string `json:"rejection_reason,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	CancellationPolicy string `json:"cancellation_policy,omitempty"`
	Penalty            string `json:"penalty,omitempty"`
}

// AbsencePayload снимок отсутствия в событии
type AbsencePayload struct {
	ID        int64  `json:"id"`
	WorkerID  int64  `json:"worker_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Type      string `json:"type"`
	State     string `json:"state"`
}

// NewReservationEvent создает событие по бронированию
func NewReservationEvent(t Type, r *domain.Reservation, actorID int64, at time.Time) Event {
	payload := ReservationPayload{
		ID:                 r.ID,
		ClientID:           r.ClientID,
		WorkerID:           r.WorkerID,
		ServiceID:          r.ServiceID,
		Date:               r.Date.Format(domain.DateFormat),
		StartTime:          r.StartTime.String(),
		DurationMinutes:    r.DurationMinutes,
		Status:             string(r.Status),
		RejectionReason:    r.RejectionReason,
		CancellationReason: r.CancellationReason,
		CancellationPolicy: string(r.CancellationPolicy),
	}
	if r.Status == domain.StatusCancelled {
		payload.Penalty = r.Penalty.StringFixed(2)
	}

	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		AggregateID: r.ID,
		ActorID:     actorID,
		OccurredAt:  at.UTC(),
		Payload:     payload,
	}
}

// NewAbsenceEvent создает событие по отсутствию
func NewAbsenceEvent(t Type, a *domain.Absence, actorID int64, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        t,
		AggregateID: a.ID,
		ActorID:     actorID,
		OccurredAt:  at.UTC(),
		Payload: AbsencePayload{
			ID:        a.ID,
			WorkerID:  a.WorkerID,
			StartDate: a.StartDate.Format(domain.DateFormat),
			EndDate:   a.EndDate.Format(domain.DateFormat),
			Type:      string(a.Type),
			State:     string(a.State),
		},
	}
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
