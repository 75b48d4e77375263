package domain

import (
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Overlaps reports whether half-open minute intervals [aStart, aStart+aDuration)
// and [bStart, bStart+bDuration) intersect. Touching intervals do not overlap.
// Starts must be minutes since midnight within 00:00-23:59, durations must be positive.
func Overlaps(aStart, aDuration, bStart, bDuration int) (bool, error) {
	if err := validateInterval(aStart, aDuration); err != nil {
		return false, err
	}
	if err := validateInterval(bStart, bDuration); err != nil {
		return false, err
	}

	aEnd := aStart + aDuration
	bEnd := bStart + bDuration

	return aStart < bEnd && bStart < aEnd, nil
}

// OverlapsAt is Overlaps for HH:MM start times
func OverlapsAt(aStart types.TimeString, aDuration int, bStart types.TimeString, bDuration int) (bool, error) {
	if err := aStart.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	if err := bStart.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	return Overlaps(aStart.Minutes(), aDuration, bStart.Minutes(), bDuration)
}

func validateInterval(start, duration int) error {
	if start < 0 || start >= types.MinutesPerDay {
		return fmt.Errorf("%w: start %d is outside 00:00-23:59", ErrInvalidInterval, start)
	}
	if duration <= 0 {
		return fmt.Errorf("%w: duration %d must be positive", ErrInvalidInterval, duration)
	}
	return nil
}
