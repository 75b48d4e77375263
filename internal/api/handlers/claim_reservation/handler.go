package claim_reservation

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
	msgNotAWorker           = "solo un empleado puede tomar reservas"
	msgNotQualified         = "el empleado no realiza este tipo de servicio"
	msgWorkerUnavailable    = "el empleado no trabaja en ese horario"
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

// Handle PATCH /api/v1/reservations/{reservationId}/claim
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/claim - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	rc, ok := middleware.GetRequestContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/claim - Missing request context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	reservation, err := h.service.Claim(r.Context(), rc, reservationID)
	if err != nil {
		var conflict *domain.ConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("PATCH /reservations/{id}/claim - Worker agenda conflict: reservation_id=%d, conflicts=%d",
				reservationID, len(conflict.Conflicts))
			handlers.RespondConflict(w, conflict)

		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/claim - Reservation not found: reservation_id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrNotAWorker):
			h.logger.Warn("PATCH /reservations/{id}/claim - Actor is not a worker: actor=%d", rc.ActorID())
			handlers.RespondForbidden(w, msgNotAWorker)

		case errors.Is(err, domain.ErrNotQualified):
			h.logger.Warn("PATCH /reservations/{id}/claim - Worker not qualified: reservation_id=%d", reservationID)
			handlers.RespondUnprocessable(w, msgNotQualified)

		case errors.Is(err, reservations.ErrWorkerUnavailable):
			h.logger.Warn("PATCH /reservations/{id}/claim - Worker unavailable: reservation_id=%d, error=%v", reservationID, err)
			handlers.RespondUnprocessable(w, msgWorkerUnavailable)

		default:
			if !handlers.RespondDomainError(w, err) {
				h.logger.Error("PATCH /reservations/{id}/claim - Failed to claim reservation: reservation_id=%d, error=%v",
					reservationID, err)
			}
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/claim - Reservation claimed successfully: reservation_id=%d, actor=%d",
		reservationID, rc.ActorID())
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainReservation(reservation, true))
}
