package conflicts

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

var (
	// ErrInternal возвращается при ошибках чтения агенды
	ErrInternal = domain.NewError(domain.ErrInfrastructure, "conflicts: internal error")
)
