package get_availability

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = domain.NewError(domain.ErrNotFound, "get_availability: service not found")

	// ErrInvalidDate возвращается для даты в прошлом
	ErrInvalidDate = domain.NewError(domain.ErrValidation, "get_availability: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = domain.NewError(domain.ErrValidation, "get_availability: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = domain.NewError(domain.ErrInfrastructure, "get_availability: internal error")
)
