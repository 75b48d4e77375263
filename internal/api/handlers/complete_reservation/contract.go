package complete_reservation

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

type ReservationService interface {
	Complete(ctx context.Context, rc domain.RequestContext, id int64) (*domain.Reservation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
