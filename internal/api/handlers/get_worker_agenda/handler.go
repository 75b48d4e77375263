package get_worker_agenda

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations/models"
)

const (
	msgInvalidWorkerID = "ID de empleado no válido"
	msgMissingUserID   = "falta el identificador de usuario"
	msgMissingDate     = "la fecha es obligatoria"
	msgInvalidDate     = "formato de fecha no válido, se espera YYYY-MM-DD"
	msgWorkerNotFound  = "empleado no encontrado"
	msgForbidden       = "acceso denegado"
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

// Handle GET /api/v1/workers/{workerId}/agenda
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workerID, err := handlers.PathID(r, "workerId")
	if err != nil {
		h.logger.Warn("GET /workers/{id}/agenda - Invalid worker ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWorkerID)
		return
	}

	rc, ok := middleware.GetRequestContext(r.Context())
	if !ok {
		h.logger.Warn("GET /workers/{id}/agenda - Missing request context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /workers/{id}/agenda - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /workers/{id}/agenda - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	agenda, err := h.service.WorkerAgenda(r.Context(), rc, workerID, date)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrWorkerNotFound):
			h.logger.Warn("GET /workers/{id}/agenda - Worker not found: worker_id=%d", workerID)
			handlers.RespondNotFound(w, msgWorkerNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /workers/{id}/agenda - Access denied: worker_id=%d, actor=%d", workerID, rc.ActorID())
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /workers/{id}/agenda - Failed to get agenda: worker_id=%d, error=%v", workerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /workers/{id}/agenda - Agenda retrieved successfully: worker_id=%d, date=%s, reservations=%d",
		workerID, dateStr, len(agenda.Reservations))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAgenda(agenda))
}
