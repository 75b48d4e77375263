package cancel_reservation

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
	msgNotOwner             = "solo puede cancelar sus propias reservas"
	msgNotInFuture          = "la cita ya ha comenzado o ha pasado"
	msgMotiveRequired       = "el motivo de la cancelación es obligatorio"
	msgMotiveTooLong        = "el motivo es demasiado largo"
	msgUnknownPolicy        = "política de cancelación desconocida"
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

// Handle PATCH /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	rc, ok := middleware.GetRequestContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Missing request context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	reservation, err := h.service.Cancel(r.Context(), rc, reservationID, req.Motive, req.Policy)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrNotReservationOwner):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Access denied: reservation_id=%d, actor=%d",
				reservationID, rc.ActorID())
			handlers.RespondForbidden(w, msgNotOwner)

		case errors.Is(err, domain.ErrAppointmentNotInFuture):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Appointment already started: reservation_id=%d", reservationID)
			handlers.RespondUnprocessable(w, msgNotInFuture)

		case errors.Is(err, domain.ErrMotiveRequired):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Missing motive: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgMotiveRequired)

		case errors.Is(err, domain.ErrMotiveTooLong):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Motive too long: reservation_id=%d", reservationID)
			handlers.RespondBadRequest(w, msgMotiveTooLong)

		case errors.Is(err, domain.ErrUnknownPolicy):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Unknown policy: %v", err)
			handlers.RespondBadRequest(w, msgUnknownPolicy)

		default:
			if !handlers.RespondDomainError(w, err) {
				h.logger.Error("PATCH /reservations/{id}/cancel - Failed to cancel reservation: reservation_id=%d, error=%v",
					reservationID, err)
			}
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel - Reservation cancelled successfully: reservation_id=%d, actor=%d, penalty=%s",
		reservationID, rc.ActorID(), reservation.Penalty.StringFixed(2))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(reservation, rc.IsStaff()))
}
