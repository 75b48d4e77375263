package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_availability"
)

const (
	msgMissingServiceID = "el ID del servicio es obligatorio"
	msgInvalidServiceID = "ID de servicio no válido"
	msgMissingDate      = "la fecha es obligatoria"
	msgInvalidDate      = "formato de fecha no válido, se espera YYYY-MM-DD"
	msgPastDate         = "no se puede consultar una fecha pasada"
	msgDateTooFar       = "la fecha supera el plazo máximo de reserva"
	msgServiceNotFound  = "servicio no encontrado"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Пользователь опционален, используется только для логов
	var userID int64
	if rc, ok := middleware.GetRequestContext(r.Context()); ok {
		userID = rc.ActorID()
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /availability - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(userID, serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var noAvail *domain.NoAvailabilityError
		switch {
		case errors.As(err, &noAvail):
			h.logger.Info("GET /availability - No availability: service_id=%d, date=%s", serviceID, dateStr)
			handlers.RespondNoAvailability(w, noAvail)

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrInvalidDate):
			h.logger.Warn("GET /availability - Past date: %s", dateStr)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getAvailability.ErrDateTooFarInFuture):
			h.logger.Warn("GET /availability - Date too far: %s", dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		default:
			if !handlers.RespondDomainError(w, err) {
				h.logger.Error("GET /availability - Failed to resolve availability: service_id=%d, date=%s, error=%v",
					serviceID, dateStr, err)
			}
		}
		return
	}

	h.logger.Info("GET /availability - Availability resolved: service_id=%d, date=%s, available_workers=%d",
		serviceID, dateStr, result.Summary.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
