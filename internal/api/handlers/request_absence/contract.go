package request_absence

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/absences"
)

type AbsenceService interface {
	Request(ctx context.Context, rc domain.RequestContext, in absences.RequestInput) (*domain.Absence, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
