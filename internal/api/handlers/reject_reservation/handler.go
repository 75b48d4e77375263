package reject_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations/models"
)

const (
	msgInvalidReservationID = "ID de reserva no válido"
	msgInvalidRequestBody   = "cuerpo de la solicitud no válido"
	msgMissingUserID        = "falta el identificador de usuario"
	msgNotFound             = "reserva no encontrada"
	msgNotAWorker           = "solo un empleado puede rechazar reservas"
	msgNotAssigned          = "la reserva está asignada a otro empleado"
	msgMotiveRequired       = "el motivo del rechazo es obligatorio"
	msgMotiveTooLong        = "el motivo es demasiado largo"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/reject
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/reject - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	rc, ok := middleware.GetRequestContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/reject - Missing request context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RejectReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/reject - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	reservation, err := h.service.Reject(r.Context(), rc, reservationID, req.Motive)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/reject - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrNotAWorker):
			h.logger.Warn("PATCH /reservations/{id}/reject - Actor is not a worker: actor=%d", rc.ActorID())
			handlers.RespondForbidden(w, msgNotAWorker)

		case errors.Is(err, domain.ErrNotAssignedWorker):
			h.logger.Warn("PATCH /reservations/{id}/reject - Not the assigned worker: reservation_id=%d, actor=%d",
				reservationID, rc.ActorID())
			handlers.RespondForbidden(w, msgNotAssigned)

		case errors.Is(err, domain.ErrMotiveRequired):
			h.logger.Warn("PATCH /reservations/{id}/reject - Missing motive: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgMotiveRequired)

		case errors.Is(err, domain.ErrMotiveTooLong):
			h.logger.Warn("PATCH /reservations/{id}/reject - Motive too long: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgMotiveTooLong)

		default:
			if !handlers.RespondDomainError(w, err) {
				h.logger.Error("PATCH /reservations/{id}/reject - Failed to reject reservation: reservation_id=%d, error=%v",
					reservationID, err)
			}
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/reject - Reservation rejected successfully: reservation_id=%d, actor=%d",
		reservationID, rc.ActorID())
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(reservation, true))
}
