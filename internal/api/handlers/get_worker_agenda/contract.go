package get_worker_agenda

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type ReservationService interface {
	WorkerAgenda(ctx context.Context, rc domain.RequestContext, workerID int64, date time.Time) (*domain.Agenda, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
