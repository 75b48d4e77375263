package decide_absence

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/absences"
	"github.com/m04kA/SMC-SalonBooking/internal/service/absences/models"
)

const (
	msgInvalidAbsenceID   = "ID de ausencia no válido"
	msgInvalidRequestBody = "cuerpo de la solicitud no válido"
	msgMissingDecision    = "el campo approve es obligatorio"
	msgMissingUserID      = "falta el identificador de usuario"
	msgNotFound           = "ausencia no encontrada"
	msgForbidden          = "solo un administrador puede resolver ausencias"
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

// Handle PATCH /api/v1/absences/{absenceId}/decision
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	absenceID, err := handlers.PathID(r, "absenceId")
	if err != nil {
		h.logger.Warn("PATCH /absences/{id}/decision - Invalid absence ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAbsenceID)
		return
	}

	rc, ok := middleware.GetRequestContext(r.Context())
	if !ok {
		h.logger.Warn("PATCH /absences/{id}/decision - Missing request context")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req DecideAbsenceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /absences/{id}/decision - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Approve == nil {
		h.logger.Warn("PATCH /absences/{id}/decision - Missing decision: absence_id=%d", absenceID)
		handlers.RespondBadRequest(w, msgMissingDecision)
		return
	}

	absence, err := h.service.Decide(r.Context(), rc, absenceID, *req.Approve)
	if err != nil {
		switch {
		case errors.Is(err, absences.ErrAbsenceNotFound):
			h.logger.Warn("PATCH /absences/{id}/decision - Absence not found: absence_id=%d", absenceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, absences.ErrAccessDenied):
			h.logger.Warn("PATCH /absences/{id}/decision - Access denied: actor=%d", rc.ActorID())
			handlers.RespondForbidden(w, msgForbidden)

		default:
			if !handlers.RespondDomainError(w, err) {
				h.logger.Error("PATCH /absences/{id}/decision - Failed to decide absence: absence_id=%d, error=%v",
					absenceID, err)
			}
		}
		return
	}

	h.logger.Info("PATCH /absences/{id}/decision - Absence decided successfully: absence_id=%d, state=%s",
		absenceID, absence.State)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAbsence(absence))
}
