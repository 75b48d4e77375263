package penalty

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

func reservation() *domain.Reservation {
	return &domain.Reservation{
		ID:              1,
		Date:            time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "11:00",
		DurationMinutes: 60,
		ServicePrice:    decimal.RequireFromString("30.00"),
	}
}

func TestEngine_DefaultIsZero(t *testing.T) {
	e := NewEngine(time.UTC, nil)
	at := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	for _, p := range []domain.CancellationPolicy{domain.PolicyFlexible, domain.PolicyModerate, domain.PolicyStrict} {
		amount, err := e.PenaltyFor(reservation(), p, at)
		require.NoError(t, err)
		assert.True(t, amount.IsZero(), p)
	}
}

func TestEngine_UnknownPolicy(t *testing.T) {
	e := NewEngine(time.UTC, nil)
	_, err := e.PenaltyFor(reservation(), "lenient", time.Now())
	assert.ErrorIs(t, err, domain.ErrUnknownPolicy)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEngine_Tiered(t *testing.T) {
	e := NewEngine(time.UTC, TieredStrategies())
	start := time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		policy domain.CancellationPolicy
		before time.Duration
		want   string
	}{
		{name: "flexible early", policy: domain.PolicyFlexible, before: 25 * time.Hour, want: "0"},
		{name: "flexible exactly at threshold", policy: domain.PolicyFlexible, before: 24 * time.Hour, want: "0"},
		{name: "flexible late", policy: domain.PolicyFlexible, before: 2 * time.Hour, want: "3"},
		{name: "moderate late", policy: domain.PolicyModerate, before: 47 * time.Hour, want: "7.5"},
		{name: "strict late", policy: domain.PolicyStrict, before: 71 * time.Hour, want: "15"},
		{name: "strict early", policy: domain.PolicyStrict, before: 80 * time.Hour, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := e.PenaltyFor(reservation(), tt.policy, start.Add(-tt.before))
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(amount), "got %s", amount)
		})
	}
}

func TestEngine_CustomStrategyWithoutCallSiteChanges(t *testing.T) {
	e := NewEngine(time.UTC, map[domain.CancellationPolicy]Strategy{
		domain.PolicyStrict: ThresholdStrategy{ThresholdHours: 1000, Percent: decimal.NewFromInt(100)},
	})

	amount, err := e.PenaltyFor(reservation(), domain.PolicyStrict, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("30").Equal(amount))

	amount, err = e.PenaltyFor(reservation(), domain.PolicyFlexible, time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
}
