package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart int
		aDur   int
		bStart int
		bDur   int
		want   bool
	}{
		{name: "same interval", aStart: 600, aDur: 60, bStart: 600, bDur: 60, want: true},
		{name: "back to back", aStart: 600, aDur: 60, bStart: 660, bDur: 30, want: false},
		{name: "b ends where a starts", aStart: 660, aDur: 30, bStart: 600, bDur: 60, want: false},
		{name: "partial overlap", aStart: 660, aDur: 30, bStart: 675, bDur: 30, want: true},
		{name: "contained", aStart: 540, aDur: 240, bStart: 600, bDur: 15, want: true},
		{name: "disjoint", aStart: 540, aDur: 30, bStart: 720, bDur: 30, want: false},
		{name: "last minute of day", aStart: 1439, aDur: 1, bStart: 1430, bDur: 10, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Overlaps(tt.aStart, tt.aDur, tt.bStart, tt.bDur)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverlaps_SymmetricAndTouching(t *testing.T) {
	for s1 := 0; s1 < 24*60; s1 += 37 {
		for d1 := 1; d1 <= 180; d1 += 29 {
			for s2 := 0; s2 < 24*60; s2 += 41 {
				for d2 := 1; d2 <= 180; d2 += 31 {
					ab, err := Overlaps(s1, d1, s2, d2)
					require.NoError(t, err)
					ba, err := Overlaps(s2, d2, s1, d1)
					require.NoError(t, err)
					require.Equal(t, ab, ba, "s1=%d d1=%d s2=%d d2=%d", s1, d1, s2, d2)
				}
			}

			if s1+d1 < 24*60 {
				touching, err := Overlaps(s1, d1, s1+d1, 30)
				require.NoError(t, err)
				require.False(t, touching, "s1=%d d1=%d", s1, d1)
			}
		}
	}
}

func TestOverlaps_InvalidInput(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aDur, bStart, bDur int
	}{
		{name: "negative start", aStart: -1, aDur: 30, bStart: 600, bDur: 30},
		{name: "start past midnight", aStart: 600, aDur: 30, bStart: 1440, bDur: 30},
		{name: "zero duration", aStart: 600, aDur: 0, bStart: 600, bDur: 30},
		{name: "negative duration", aStart: 600, aDur: 30, bStart: 600, bDur: -15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Overlaps(tt.aStart, tt.aDur, tt.bStart, tt.bDur)
			assert.ErrorIs(t, err, ErrInvalidInterval)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestOverlapsAt(t *testing.T) {
	got, err := OverlapsAt("11:00", 30, "11:15", 30)
	require.NoError(t, err)
	assert.True(t, got)

	_, err = OverlapsAt("null", 30, "11:15", 30)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
