package get_availability

import (
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// generateSlots генерирует свободные начала записей в окне мастера
// Слот длительностью duration доступен, если целиком лежит в [start, end)
// и не пересекается ни с одним активным бронированием
// notBefore - минуты от начала дня; слоты, начинающиеся не позже, отбрасываются (для сегодняшнего дня), -1 без ограничения
func generateSlots(
	window domain.TimeRange,
	step int,
	duration int,
	reservations []*domain.Reservation,
	notBefore int,
) ([]types.TimeString, error) {
	slots := make([]types.TimeString, 0)

	for start := window.StartMinutes(); start+duration <= window.EndMinutes(); start += step {
		if start <= notBefore {
			continue
		}

		busy, err := overlapsAny(start, duration, reservations)
		if err != nil {
			return nil, err
		}
		if busy {
			continue
		}

		slot, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// overlapsAny проверяет пересечение кандидата с активными бронированиями
// Граничащие интервалы (конец одного = начало другого) не пересекаются
func overlapsAny(start, duration int, reservations []*domain.Reservation) (bool, error) {
	for _, r := range reservations {
		if !r.Status.IsActive() {
			continue
		}
		overlaps, err := domain.Overlaps(start, duration, r.StartMinutes(), r.DurationMinutes)
		if err != nil {
			return false, err
		}
		if overlaps {
			return true, nil
		}
	}
	return false, nil
}
