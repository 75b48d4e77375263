package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations/models"
	createReservation "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_reservation"
)

const (
	msgMissingUserID      = "falta el identificador de usuario"
	msgInvalidRequestBody = "cuerpo de la solicitud no válido"
	msgInvalidDateTime    = "fecha u hora no válidas, se espera YYYY-MM-DD y HH:MM"
	msgServiceNotFound    = "servicio no encontrado"
	msgWorkerNotFound     = "empleado no encontrado"
	msgSpecialtyMismatch  = "el empleado no realiza este tipo de servicio"
	msgWorkerUnavailable  = "el empleado no trabaja en ese horario"
	msgPastAppointment    = "no se puede reservar en el pasado"
	msgDateTooFar         = "la fecha supera el plazo máximo de reserva"
	msgForbidden          = "no puede reservar en nombre de otro cliente"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rc, ok := middleware.GetRequestContext(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing request context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(rc.ActorID())
	if err != nil {
		h.logger.Warn("POST /reservations - Invalid date/time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), rc, useCaseReq)
	if err != nil {
		var conflict *domain.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /reservations - Conflict: scope=%s, owner=%d, conflicts=%d",
				conflict.Scope, conflict.OwnerID, len(conflict.Conflicts))
			handlers.RespondConflict(w, conflict)

		case errors.Is(err, createReservation.ErrServiceNotFound):
			h.logger.Warn("POST /reservations - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createReservation.ErrWorkerNotFound):
			h.logger.Warn("POST /reservations - Worker not found: worker_id=%d", req.WorkerID)
			handlers.RespondNotFound(w, msgWorkerNotFound)

		case errors.Is(err, domain.ErrNotQualified):
			h.logger.Warn("POST /reservations - Specialty mismatch: worker_id=%d, service_id=%d", req.WorkerID, req.ServiceID)
			handlers.RespondUnprocessable(w, msgSpecialtyMismatch)

		case errors.Is(err, createReservation.ErrWorkerUnavailable):
			h.logger.Warn("POST /reservations - Worker unavailable: worker_id=%d, date=%s, start=%s", req.WorkerID, req.Date, req.StartTime)
			handlers.RespondUnprocessable(w, msgWorkerUnavailable)

		case errors.Is(err, createReservation.ErrInvalidDate):
			h.logger.Warn("POST /reservations - Appointment in the past: date=%s, start=%s", req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgPastAppointment)

		case errors.Is(err, createReservation.ErrDateTooFarInFuture):
			h.logger.Warn("POST /reservations - Date too far: %s", req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations - Access denied: actor=%d, client=%d", rc.ActorID(), useCaseReq.ClientID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			if !handlers.RespondDomainError(w, err) {
				h.logger.Error("POST /reservations - Failed to create reservation: actor=%d, error=%v", rc.ActorID(), err)
			}
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, client=%d, worker=%d",
		result.ID, result.ClientID, req.WorkerID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainReservation(result, rc.IsStaff()))
}
