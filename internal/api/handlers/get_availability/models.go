package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date    string               `json:"date"`
	Service ServiceInfo          `json:"service"`
	Workers []WorkerAvailability `json:"workers"`
	Summary Summary              `json:"summary"`
}

// ServiceInfo данные услуги
type ServiceInfo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           string `json:"price"`
}

// WorkerAvailability свободные слоты мастера
type WorkerAvailability struct {
	WorkerID          int64    `json:"workerId"`
	Name              string   `json:"name"`
	WorkingHoursStart *string  `json:"workingHoursStart,omitempty"`
	WorkingHoursEnd   *string  `json:"workingHoursEnd,omitempty"`
	Slots             []string `json:"slots"`
	UnavailableReason string   `json:"unavailableReason,omitempty"`
}

// Summary счетчики по причинам
type Summary struct {
	Workers    int `json:"workers"`
	Available  int `json:"available"`
	NoCapacity int `json:"noCapacity"`
	Absent     int `json:"absent"`
	NoSchedule int `json:"noSchedule"`
	NoSlots    int `json:"noSlots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(a *domain.Availability) *AvailabilityResponse {
	workers := make([]WorkerAvailability, 0, len(a.Workers))
	for _, wa := range a.Workers {
		item := WorkerAvailability{
			WorkerID:          wa.Worker.ID,
			Name:              wa.Worker.Name,
			Slots:             make([]string, 0, len(wa.Slots)),
			UnavailableReason: string(wa.Reason),
		}
		if wa.WorkingHours != nil {
			start, end := wa.WorkingHours.Start.String(), wa.WorkingHours.End.String()
			item.WorkingHoursStart, item.WorkingHoursEnd = &start, &end
		}
		for _, slot := range wa.Slots {
			item.Slots = append(item.Slots, slot.String())
		}
		workers = append(workers, item)
	}

	return &AvailabilityResponse{
		Date: a.Date.Format(domain.DateFormat),
		Service: ServiceInfo{
			ID:              a.Service.ID,
			Name:            a.Service.Name,
			Category:        a.Service.Category.Label(),
			DurationMinutes: a.Service.DurationMinutes,
			Price:           a.Service.Price.StringFixed(2),
		},
		Workers: workers,
		Summary: Summary{
			Workers:    a.Summary.Workers,
			Available:  a.Summary.Available,
			NoCapacity: a.Summary.NoCapacity,
			Absent:     a.Summary.Absent,
			NoSchedule: a.Summary.NoSchedule,
			NoSlots:    a.Summary.NoSlots,
		},
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(userID, serviceID int64, dateStr string) (*getAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailability.Request{
		UserID:    userID,
		ServiceID: serviceID,
		Date:      date,
	}, nil
}
