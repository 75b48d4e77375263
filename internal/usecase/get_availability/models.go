package get_availability

import "time"

// Request модель запроса доступности
type Request struct {
	UserID    int64     // ID пользователя (для логирования, не влияет на результат)
	ServiceID int64     // ID услуги
	Date      time.Time // Дата (без времени)
}

// Config параметры генерации слотов
type Config struct {
	Location           *time.Location // часовой пояс салона
	SlotStepMinutes    int            // шаг сетки слотов
	AdvanceBookingDays int            // 0 - без ограничений
}
