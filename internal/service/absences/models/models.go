package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AbsenceResponse ответ с данными отсутствия
type AbsenceResponse struct {
	ID        int64   `json:"id"`
	WorkerID  int64   `json:"workerId"`
	StartDate string  `json:"startDate"` // "2025-07-01"
	EndDate   string  `json:"endDate"`   // включительно
	Type      string  `json:"type"`
	Reason    string  `json:"reason,omitempty"`
	State     string  `json:"state"`
	DecidedBy *int64  `json:"decidedBy,omitempty"`
	DecidedAt *string `json:"decidedAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
}

// AbsenceListResponse ответ со списком отсутствий
type AbsenceListResponse struct {
	Absences []AbsenceResponse `json:"absences"`
}

// FromDomainAbsence конвертирует domain модель в DTO
func FromDomainAbsence(a *domain.Absence) *AbsenceResponse {
	if a == nil {
		return nil
	}

	resp := &AbsenceResponse{
		ID:        a.ID,
		WorkerID:  a.WorkerID,
		StartDate: a.StartDate.Format(domain.DateFormat),
		EndDate:   a.EndDate.Format(domain.DateFormat),
		Type:      string(a.Type),
		Reason:    a.Reason,
		State:     string(a.State),
		DecidedBy: a.DecidedBy,
		CreatedAt: a.CreatedAt,
	}
	if a.DecidedAt != nil {
		decidedStr := a.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decidedStr
	}

	return resp
}

// FromDomainAbsenceList конвертирует список domain моделей в DTO
func FromDomainAbsenceList(absences []*domain.Absence) *AbsenceListResponse {
	resp := &AbsenceListResponse{Absences: make([]AbsenceResponse, 0, len(absences))}
	for _, a := range absences {
		resp.Absences = append(resp.Absences, *FromDomainAbsence(a))
	}
	return resp
}
