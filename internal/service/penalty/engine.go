package penalty

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Engine выбирает стратегию по имени политики
// Политика без явной стратегии не штрафует
type Engine struct {
	strategies map[domain.CancellationPolicy]Strategy
	loc        *time.Location
}

// NewEngine создает движок штрафов; loc - часовой пояс салона
func NewEngine(loc *time.Location, strategies map[domain.CancellationPolicy]Strategy) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	s := make(map[domain.CancellationPolicy]Strategy, 3)
	for _, p := range []domain.CancellationPolicy{domain.PolicyFlexible, domain.PolicyModerate, domain.PolicyStrict} {
		s[p] = ZeroStrategy{}
	}
	for p, strategy := range strategies {
		s[p] = strategy
	}
	return &Engine{strategies: s, loc: loc}
}

// PenaltyFor возвращает сумму штрафа за отмену бронирования в момент at
func (e *Engine) PenaltyFor(r *domain.Reservation, policy domain.CancellationPolicy, at time.Time) (decimal.Decimal, error) {
	strategy, ok := e.strategies[policy]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrUnknownPolicy, policy)
	}

	hoursBefore := r.StartsAt(e.loc).Sub(at).Hours()
	return strategy.Penalty(r, hoursBefore), nil
}

// TieredStrategies ступенчатые пороги 24/48/72 часа с процентами 10/25/50
func TieredStrategies() map[domain.CancellationPolicy]Strategy {
	return map[domain.CancellationPolicy]Strategy{
		domain.PolicyFlexible: ThresholdStrategy{ThresholdHours: 24, Percent: decimal.NewFromInt(10)},
		domain.PolicyModerate: ThresholdStrategy{ThresholdHours: 48, Percent: decimal.NewFromInt(25)},
		domain.PolicyStrict:   ThresholdStrategy{ThresholdHours: 72, Percent: decimal.NewFromInt(50)},
	}
}
