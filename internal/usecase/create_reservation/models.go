package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID  int64            // ID клиента, для которого создается запись
	ServiceID int64            // ID услуги
	WorkerID  int64            // ID мастера, выбранного клиентом
	Date      time.Time        // Дата (без времени)
	StartTime types.TimeString // Время начала (HH:MM)
	Notes     string           // Комментарий клиента
}

// Config параметры создания бронирования
type Config struct {
	Location           *time.Location // часовой пояс салона
	AdvanceBookingDays int            // 0 - без ограничений
}
