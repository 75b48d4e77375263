package decide_absence

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type AbsenceService interface {
	Decide(ctx context.Context, rc domain.RequestContext, absenceID int64, approve bool) (*domain.Absence, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
