package accept_reservation

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
	msgMissingUserID        = "falta el identificador de usuario"
	msgNotFound             = "reserva no encontrada"
	msgNotAWorker           = "solo un empleado puede aceptar reservas"
	msgNotAssigned          = "la reserva está asignada a otro empleado"
	msgNotQualified         = "el empleado ya no realiza este tipo de servicio"
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

// Handle PATCH /api/v1/reservations/{reservationId}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/accept - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	rc, ok := middleware.GetRequestContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/accept - Missing request context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	reservation, err := h.service.Accept(r.Context(), rc, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/accept - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrNotAWorker):
			h.logger.Warn("PATCH /reservations/{id}/accept - Actor is not a worker: actor=%d", rc.ActorID())
			handlers.RespondForbidden(w, msgNotAWorker)

		case errors.Is(err, domain.ErrNotAssignedWorker):
			h.logger.Warn("PATCH /reservations/{id}/accept - Not the assigned worker: reservation_id=%d, actor=%d",
				reservationID, rc.ActorID())
			handlers.RespondForbidden(w, msgNotAssigned)

		case errors.Is(err, domain.ErrNotQualified):
			h.logger.Warn("PATCH /reservations/{id}/accept - Worker not qualified: reservation_id=%d", reservationID)
			handlers.RespondUnprocessable(w, msgNotQualified)

		default:
			if !handlers.RespondDomainError(w, err) {
				h.logger.Error("PATCH /reservations/{id}/accept - Failed to accept reservation: reservation_id=%d, error=%v",
					reservationID, err)
			}
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/accept - Reservation accepted successfully: reservation_id=%d, actor=%d",
		reservationID, rc.ActorID())
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(reservation, true))
}
