package create_reservation

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = domain.NewError(domain.ErrNotFound, "create_reservation: service not found")

	// ErrWorkerNotFound возвращается, когда мастер не найден или неактивен
	ErrWorkerNotFound = domain.NewError(domain.ErrNotFound, "create_reservation: worker not found")

	// ErrAccessDenied возвращается, когда клиент бронирует от имени другого клиента
	ErrAccessDenied = domain.NewError(domain.ErrPermission, "create_reservation: access denied")

	// ErrInvalidDate возвращается для даты или времени начала в прошлом
	ErrInvalidDate = domain.NewError(domain.ErrValidation, "create_reservation: appointment is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = domain.NewError(domain.ErrValidation, "create_reservation: date is too far in the future")

	// ErrWorkerUnavailable возвращается, когда мастер не работает в это время или отсутствует
	ErrWorkerUnavailable = domain.NewError(domain.ErrValidation, "create_reservation: worker is not available at this time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = domain.NewError(domain.ErrInfrastructure, "create_reservation: internal error")
)
