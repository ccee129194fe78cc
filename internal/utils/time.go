package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// CalendarDate returns midnight UTC of the calendar day t falls on in its own location.
// Two instants compare by calendar day regardless of the hour or DST shifts between them.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from earlier to later.
// The result is negative when later falls on an earlier day.
func DaysBetween(later, earlier time.Time) int {
	return int(CalendarDate(later).Sub(CalendarDate(earlier)).Hours() / 24)
}

// ParseCompletionTime accepts either an RFC 3339 timestamp or a bare date (YYYY-MM-DD).
// Bare dates resolve to noon in loc so that the calendar day is unambiguous.
func ParseCompletionTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	d, err := time.ParseInLocation(constants.DateFormat, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected RFC3339 or YYYY-MM-DD)", value)
	}
	return d.Add(12 * time.Hour), nil
}
