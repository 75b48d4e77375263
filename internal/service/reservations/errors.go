package reservations

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = domain.NewError(domain.ErrNotFound, "reservations: reservation not found")

	// ErrWorkerNotFound возвращается, когда мастер не найден
	ErrWorkerNotFound = domain.NewError(domain.ErrNotFound, "reservations: worker not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = domain.NewError(domain.ErrNotFound, "reservations: service not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = domain.NewError(domain.ErrPermission, "reservations: access denied")

	// ErrNotAWorker возвращается, когда действие требует профиля мастера
	ErrNotAWorker = domain.NewError(domain.ErrPermission, "reservations: actor has no worker profile")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "reservations: invalid input data")

	// ErrWorkerUnavailable возвращается, когда мастер не работает в это время или отсутствует
	ErrWorkerUnavailable = domain.NewError(domain.ErrValidation, "reservations: worker is not available at this time")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = domain.NewError(domain.ErrInfrastructure, "reservations: internal error")
)
