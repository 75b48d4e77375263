package penalty

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Strategy считает штраф за отмену бронирования
// hoursBefore - сколько часов остается до начала записи в момент отмены
type Strategy interface {
	Penalty(r *domain.Reservation, hoursBefore float64) decimal.Decimal
}

// ZeroStrategy штраф не взимается
type ZeroStrategy struct{}

func (ZeroStrategy) Penalty(*domain.Reservation, float64) decimal.Decimal {
	return decimal.Zero
}

// ThresholdStrategy процент от цены услуги при отмене позже чем за ThresholdHours
type ThresholdStrategy struct {
	ThresholdHours float64
	Percent        decimal.Decimal
}

func (s ThresholdStrategy) Penalty(r *domain.Reservation, hoursBefore float64) decimal.Decimal {
	if hoursBefore >= s.ThresholdHours {
		return decimal.Zero
	}
	return r.ServicePrice.Mul(s.Percent).Div(hundred).Round(2)
}
