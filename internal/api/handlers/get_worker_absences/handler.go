package get_worker_absences

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/absences"
	"github.com/m04kA/SMC-SalonBooking/internal/service/absences/models"
)

const (
	msgInvalidWorkerID = "ID de empleado no válido"
	msgMissingUserID   = "falta el identificador de usuario"
	msgForbidden       = "acceso denegado"
)

type Handler struct {
	service AbsenceService
	logger  Logger
}

func NewHandler(service AbsenceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/workers/{workerId}/absences
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workerID, err := handlers.PathID(r, "workerId")
	if err != nil {
		h.logger.Warn("GET /workers/{id}/absences - Invalid worker ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWorkerID)
		return
	}

	rc, ok := middleware.GetRequestContext(r.Context())
	if !ok {
		h.logger.Warn("GET /workers/{id}/absences - Missing request context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	list, err := h.service.ListByWorker(r.Context(), rc, workerID)
	if err != nil {
		if errors.Is(err, absences.ErrAccessDenied) {
			h.logger.Warn("GET /workers/{id}/absences - Access denied: worker_id=%d, actor=%d", workerID, rc.ActorID())
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /workers/{id}/absences - Failed to list absences: worker_id=%d, error=%v", workerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /workers/{id}/absences - Absences retrieved successfully: worker_id=%d, count=%d", workerID, len(list))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAbsenceList(list))
}
