package get_worker_absences

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type AbsenceService interface {
	ListByWorker(ctx context.Context, rc domain.RequestContext, workerID int64) ([]*domain.Absence, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
