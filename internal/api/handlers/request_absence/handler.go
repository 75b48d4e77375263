package request_absence

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/absences"
	"github.com/m04kA/SMC-SalonBooking/internal/service/absences/models"
)

const (
	msgInvalidWorkerID    = "ID de empleado no válido"
	msgInvalidRequestBody = "cuerpo de la solicitud no válido"
	msgInvalidDate        = "formato de fecha no válido, se espera YYYY-MM-DD"
	msgMissingUserID      = "falta el identificador de usuario"
	msgWorkerNotFound     = "empleado no encontrado"
	msgForbidden          = "solo puede solicitar ausencias para sí mismo"
	msgOverlapping        = "ya existe una ausencia en ese periodo"
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

// Handle POST /api/v1/workers/{workerId}/absences
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	workerID, err := handlers.PathID(r, "workerId")
	if err != nil {
		h.logger.Warn("POST /workers/{id}/absences - Invalid worker ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWorkerID)
		return
	}

	rc, ok := middleware.GetRequestContext(r.Context())
	if !ok {
		h.logger.Warn("POST /workers/{id}/absences - Missing request context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RequestAbsenceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /workers/{id}/absences - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	input, err := req.ToServiceInput(workerID)
	if err != nil {
		h.logger.Warn("POST /workers/{id}/absences - %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	absence, err := h.service.Request(r.Context(), rc, input)
	if err != nil {
		switch {
		case errors.Is(err, absences.ErrWorkerNotFound):
			h.logger.Warn("POST /workers/{id}/absences - Worker not found: worker_id=%d", workerID)
			handlers.RespondNotFound(w, msgWorkerNotFound)

		case errors.Is(err, absences.ErrAccessDenied):
			h.logger.Warn("POST /workers/{id}/absences - Access denied: worker_id=%d, actor=%d", workerID, rc.ActorID())
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, absences.ErrInvalidInput):
			h.logger.Warn("POST /workers/{id}/absences - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, absences.ErrOverlappingAbsence):
			h.logger.Warn("POST /workers/{id}/absences - Overlapping absence: worker_id=%d", workerID)
			handlers.RespondError(w, http.StatusConflict, msgOverlapping)

		default:
			h.logger.Error("POST /workers/{id}/absences - Failed to request absence: worker_id=%d, error=%v", workerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /workers/{id}/absences - Absence requested successfully: absence_id=%d, worker_id=%d",
		absence.ID, workerID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAbsence(absence))
}
