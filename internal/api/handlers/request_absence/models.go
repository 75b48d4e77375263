package request_absence

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/absences"
)

// RequestAbsenceRequest HTTP request model
type RequestAbsenceRequest struct {
	Type      string `json:"type"`      // vacation | sick | personal | training | other
	StartDate string `json:"startDate"` // "2025-07-01"
	EndDate   string `json:"endDate"`   // включительно
	Reason    string `json:"reason,omitempty"`
}

// ToServiceInput конвертирует HTTP запрос во входные данные сервиса
func (r *RequestAbsenceRequest) ToServiceInput(workerID int64) (absences.RequestInput, error) {
	start, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return absences.RequestInput{}, fmt.Errorf("invalid startDate: %w", err)
	}
	end, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return absences.RequestInput{}, fmt.Errorf("invalid endDate: %w", err)
	}

	return absences.RequestInput{
		WorkerID:  workerID,
		Type:      domain.AbsenceType(r.Type),
		StartDate: start,
		EndDate:   end,
		Reason:    r.Reason,
	}, nil
}
