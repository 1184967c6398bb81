package lunch

import "time"

const (
	// DefaultTimezone is used whenever the configured zone is unset or
	// fails to load.
	DefaultTimezone = "Asia/Seoul"

	dayKeyFormat = "2006-01-02"
)

// Location resolves an IANA timezone name, falling back to the default
// zone, then UTC.
func Location(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// ClampHour bounds a deadline hour to [0, 23].
func ClampHour(hour int) int {
	if hour < 0 {
		return 0
	}
	if hour > 23 {
		return 23
	}
	return hour
}

// DayKey returns the calendar date of now in loc. Round identity always
// uses the configured zone's calendar, never the server's local date.
func DayKey(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(dayKeyFormat)
}

// DeadlineAt returns the absolute instant of hour o'clock on the given
// day key, interpreted in loc.
func DeadlineAt(dayKey string, hour int, loc *time.Location) time.Time {
	day, err := time.ParseInLocation(dayKeyFormat, dayKey, loc)
	if err != nil {
		day = time.Now().In(loc).Truncate(24 * time.Hour)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), ClampHour(hour), 0, 0, 0, loc)
}

// PastDeadline reports whether now has reached the deadline instant.
// Submissions and votes are accepted strictly before the deadline.
func PastDeadline(now, deadline time.Time) bool {
	return !now.Before(deadline)
}
