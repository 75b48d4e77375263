package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID              int64  `json:"id"`
	ClientID        int64  `json:"clientId"`
	WorkerID        *int64 `json:"workerId,omitempty"`
	ServiceID       int64  `json:"serviceId"`
	Date            string `json:"date"`      // "2025-06-10"
	StartTime       string `json:"startTime"` // "11:00"
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные услуги
	ServiceName     string `json:"serviceName"`
	ServicePrice    string `json:"servicePrice"`
	ServiceCategory string `json:"serviceCategory"`

	Notes           string `json:"notes,omitempty"`
	InternalNotes   string `json:"internalNotes,omitempty"` // только для персонала
	RejectionReason string `json:"rejectionReason,omitempty"`

	CancellationReason string  `json:"cancellationReason,omitempty"`
	CancellationPolicy string  `json:"cancellationPolicy,omitempty"`
	Penalty            *string `json:"penalty,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601
	CompletedAt        *string `json:"completedAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// AgendaResponse агенда мастера на дату
type AgendaResponse struct {
	WorkerID     int64                 `json:"workerId"`
	Date         string                `json:"date"`
	WorkingHours *WorkingHours         `json:"workingHours,omitempty"`
	Absent       bool                  `json:"absent"`
	Reservations []ReservationResponse `json:"reservations"`
}

// WorkingHours рабочее окно мастера
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FromDomainReservation конвертирует domain модель в DTO
// Внутренние заметки попадают в ответ только для персонала
func FromDomainReservation(r *domain.Reservation, staff bool) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                 r.ID,
		ClientID:           r.ClientID,
		WorkerID:           r.WorkerID,
		ServiceID:          r.ServiceID,
		Date:               r.Date.Format(domain.DateFormat),
		StartTime:          r.StartTime.String(),
		DurationMinutes:    r.DurationMinutes,
		Status:             string(r.Status),
		ServiceName:        r.ServiceName,
		ServicePrice:       r.ServicePrice.StringFixed(2),
		ServiceCategory:    r.ServiceCategory.Label(),
		Notes:              r.Notes,
		RejectionReason:    r.RejectionReason,
		CancellationReason: r.CancellationReason,
		CancellationPolicy: string(r.CancellationPolicy),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	if staff {
		resp.InternalNotes = r.InternalNotes
	}

	if r.CancelledAt != nil {
		cancelledStr := r.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
		penalty := r.Penalty.StringFixed(2)
		resp.Penalty = &penalty
	}
	if r.CompletedAt != nil {
		completedStr := r.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completedStr
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation, staff bool) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}
	for _, r := range reservations {
		resp.Reservations = append(resp.Reservations, *FromDomainReservation(r, staff))
	}
	return resp
}

// FromDomainAgenda конвертирует агенду мастера в DTO
func FromDomainAgenda(a *domain.Agenda) *AgendaResponse {
	resp := &AgendaResponse{
		WorkerID:     a.WorkerID,
		Date:         a.Date.Format(domain.DateFormat),
		Absent:       a.Absent,
		Reservations: FromDomainReservationList(a.Reservations, true).Reservations,
	}
	if a.WorkingHours != nil {
		resp.WorkingHours = &WorkingHours{Start: a.WorkingHours.Start.String(), End: a.WorkingHours.End.String()}
	}
	return resp
}
