package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createReservation "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ClientID  *int64  `json:"clientId,omitempty"` // по умолчанию текущий пользователь
	ServiceID int64   `json:"serviceId"`
	WorkerID  int64   `json:"workerId"`
	Date      string  `json:"date"`      // "2025-06-10"
	StartTime string  `json:"startTime"` // "11:15"
	Notes     *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(actorID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("startTime: %w", err)
	}

	return &createReservation.Request{
		ClientID:  ptr.Deref(r.ClientID, actorID),
		ServiceID: r.ServiceID,
		WorkerID:  r.WorkerID,
		Date:      date,
		StartTime: start,
		Notes:     ptr.Deref(r.Notes, ""),
	}, nil
}
