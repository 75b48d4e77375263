package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// TimeRange is a validated working window [Start, End) within a single day
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// NewTimeRange parses strict HH:MM bounds and requires Start < End
func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := types.NewTimeStringFromString(start)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: start: %v", ErrInvalidInterval, err)
	}
	e, err := types.NewTimeStringFromString(end)
	if err != nil {
		return TimeRange{}, fmt.Errorf("%w: end: %v", ErrInvalidInterval, err)
	}
	if !s.IsBefore(e) {
		return TimeRange{}, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidInterval, s, e)
	}
	return TimeRange{Start: s, End: e}, nil
}

// StartMinutes minutes since midnight
func (r TimeRange) StartMinutes() int { return r.Start.Minutes() }

// EndMinutes minutes since midnight
func (r TimeRange) EndMinutes() int { return r.End.Minutes() }

// Fits reports whether [start, start+duration) lies fully inside the range
func (r TimeRange) Fits(start, duration int) bool {
	return start >= r.StartMinutes() && start+duration <= r.EndMinutes()
}

// WeeklySchedule maps a weekday to the worker's window on that day.
// A missing weekday means the worker does not work that day.
type WeeklySchedule map[time.Weekday]TimeRange

// For returns the window for the weekday of date
func (s WeeklySchedule) For(date time.Time) (TimeRange, bool) {
	r, ok := s[date.Weekday()]
	return r, ok
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "domingo": time.Sunday,
	"monday": time.Monday, "lunes": time.Monday,
	"tuesday": time.Tuesday, "martes": time.Tuesday,
	"wednesday": time.Wednesday, "miercoles": time.Wednesday, "miércoles": time.Wednesday,
	"thursday": time.Thursday, "jueves": time.Thursday,
	"friday": time.Friday, "viernes": time.Friday,
	"saturday": time.Saturday, "sabado": time.Saturday, "sábado": time.Saturday,
}

type scheduleDay struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseWeeklySchedule decodes the stored JSON schedule, e.g.
//
//	{"monday": {"start": "09:00", "end": "17:00"}, "saturday": null}
//
// A document that is not a JSON object or has an unknown weekday key is an error.
// An empty, null or otherwise invalid per-day value means the worker is off that day.
func ParseWeeklySchedule(raw []byte) (WeeklySchedule, error) {
	schedule := make(WeeklySchedule)

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return schedule, nil
	}

	var days map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &days); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	for key, value := range days {
		weekday, ok := weekdayNames[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, key)
		}

		var day scheduleDay
		if err := json.Unmarshal(value, &day); err != nil {
			// "", "null" and other scalars mean a day off
			continue
		}
		r, err := NewTimeRange(day.Start, day.End)
		if err != nil {
			continue
		}
		schedule[weekday] = r
	}

	return schedule, nil
}

// MarshalJSON encodes the schedule with English weekday keys
func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	out := make(map[string]scheduleDay, len(s))
	for wd, r := range s {
		out[strings.ToLower(wd.String())] = scheduleDay{Start: r.Start.String(), End: r.End.String()}
	}
	return json.Marshal(out)
}
