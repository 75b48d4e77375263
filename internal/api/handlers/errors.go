package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	msgConflict        = "el horario se solapa con otra reserva"
	msgInvalidState    = "la operación no es válida en el estado actual"
	msgNoAvailability  = "no hay disponibilidad para la fecha seleccionada"
	msgValidation      = "datos de entrada no válidos"
	msgNotFound        = "recurso no encontrado"
	msgForbidden       = "acceso denegado"
	codeWorkerConflict = "worker_conflict"
	codeClientConflict = "client_conflict"
	codeInvalidState   = "invalid_state_transition"
	codeNoAvailability = "no_availability"
)

// ConflictDetails детали пересечения для клиента
type ConflictDetails struct {
	Scope           string                   `json:"scope"`
	OwnerID         int64                    `json:"ownerId"`
	Date            string                   `json:"date"`
	StartTime       string                   `json:"startTime"`
	DurationMinutes int                      `json:"durationMinutes"`
	Conflicts       []ConflictingReservation `json:"conflicts"`
}

// ConflictingReservation бронирование, с которым пересекается запрос
type ConflictingReservation struct {
	ID              int64  `json:"id"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
}

// TransitionDetails детали недопустимого перехода
type TransitionDetails struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
	From   string `json:"from"`
	Action string `json:"action"`
}

// AvailabilityDetails сводка причин отсутствия доступности
type AvailabilityDetails struct {
	Date       string `json:"date"`
	ServiceID  int64  `json:"serviceId"`
	Workers    int    `json:"workers"`
	NoCapacity int    `json:"noCapacity"`
	Absent     int    `json:"absent"`
	NoSchedule int    `json:"noSchedule"`
	NoSlots    int    `json:"noSlots"`
}

// RespondConflict 409 с перечнем пересекающихся бронирований
func RespondConflict(w http.ResponseWriter, e *domain.ConflictError) {
	details := ConflictDetails{
		Scope:           string(e.Scope),
		OwnerID:         e.OwnerID,
		Date:            e.Date.Format(domain.DateFormat),
		StartTime:       e.Start.String(),
		DurationMinutes: e.Duration,
		Conflicts:       make([]ConflictingReservation, 0, len(e.Conflicts)),
	}
	for _, r := range e.Conflicts {
		details.Conflicts = append(details.Conflicts, ConflictingReservation{
			ID:              r.ID,
			StartTime:       r.StartTime.String(),
			DurationMinutes: r.DurationMinutes,
			Status:          string(r.Status),
		})
	}

	code := codeWorkerConflict
	if e.Scope == domain.ConflictScopeClient {
		code = codeClientConflict
	}
	RespondErrorWithDetails(w, http.StatusConflict, code, msgConflict, details)
}

// RespondInvalidTransition 409 для устаревшего представления клиента
func RespondInvalidTransition(w http.ResponseWriter, e *domain.InvalidStateTransitionError) {
	RespondErrorWithDetails(w, http.StatusConflict, codeInvalidState, msgInvalidState, TransitionDetails{
		Entity: e.Entity,
		ID:     e.ID,
		From:   e.From,
		Action: e.Action,
	})
}

// RespondNoAvailability 422 со сводкой по причинам
func RespondNoAvailability(w http.ResponseWriter, e *domain.NoAvailabilityError) {
	RespondErrorWithDetails(w, http.StatusUnprocessableEntity, codeNoAvailability, msgNoAvailability, AvailabilityDetails{
		Date:       e.Date.Format(domain.DateFormat),
		ServiceID:  e.ServiceID,
		Workers:    e.Summary.Workers,
		NoCapacity: e.Summary.NoCapacity,
		Absent:     e.Summary.Absent,
		NoSchedule: e.Summary.NoSchedule,
		NoSlots:    e.Summary.NoSlots,
	})
}

// RespondDomainError отвечает по виду доменной ошибки
// Возвращает false для инфраструктурных ошибок, они логируются вызывающим как Error
func RespondDomainError(w http.ResponseWriter, err error) bool {
	var (
		conflict   *domain.ConflictError
		transition *domain.InvalidStateTransitionError
		noAvail    *domain.NoAvailabilityError
	)

	switch {
	case errors.As(err, &conflict):
		RespondConflict(w, conflict)
	case errors.As(err, &transition):
		RespondInvalidTransition(w, transition)
	case errors.As(err, &noAvail):
		RespondNoAvailability(w, noAvail)
	case errors.Is(err, domain.ErrInvalidStateTransition):
		RespondErrorWithDetails(w, http.StatusConflict, codeInvalidState, msgInvalidState, nil)
	case errors.Is(err, domain.ErrConflict):
		RespondError(w, http.StatusConflict, msgConflict)
	case errors.Is(err, domain.ErrPermission):
		RespondForbidden(w, msgForbidden)
	case errors.Is(err, domain.ErrNotFound):
		RespondNotFound(w, msgNotFound)
	case errors.Is(err, domain.ErrValidation):
		RespondErrorWithDetails(w, http.StatusBadRequest, "", msgValidation, err.Error())
	default:
		RespondInternalError(w)
		return false
	}
	return true
}
