package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Worker represents a salon employee able to take reservations
type Worker struct {
	ID          int64
	UserID      int64
	Name        string
	Categories  CategorySet
	Specialties []string // free text, informational only
	Schedule    WeeklySchedule
	Active      bool
}

// CanPerform reports whether the worker is qualified for the service.
// Qualification is category membership; specialties are never consulted.
func CanPerform(w *Worker, s *Service) bool {
	if w == nil || s == nil {
		return false
	}
	return w.Categories.Contains(s.Category)
}

// WorksAt reports whether [start, start+duration) on date lies inside the worker's window for that weekday
func (w *Worker) WorksAt(date time.Time, start types.TimeString, duration int) bool {
	window, ok := w.Schedule.For(date)
	if !ok || start.Validate() != nil || duration <= 0 {
		return false
	}
	return window.Fits(start.Minutes(), duration)
}
