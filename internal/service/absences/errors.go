package absences

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

var (
	// ErrAbsenceNotFound возвращается, когда отсутствие не найдено
	ErrAbsenceNotFound = domain.NewError(domain.ErrNotFound, "absences: absence not found")

	// ErrWorkerNotFound возвращается, когда мастер не найден
	ErrWorkerNotFound = domain.NewError(domain.ErrNotFound, "absences: worker not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = domain.NewError(domain.ErrPermission, "absences: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.ErrValidation, "absences: invalid input data")

	// ErrOverlappingAbsence возвращается, когда период пересекается с другой заявкой мастера
	ErrOverlappingAbsence = domain.NewError(domain.ErrConflict, "absences: period overlaps an existing absence")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = domain.NewError(domain.ErrInfrastructure, "absences: internal error")
)
