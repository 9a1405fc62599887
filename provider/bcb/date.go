package bcb

import "time"

// ResolveBusinessDay returns the weekday whose rate sheet applies to the given date.
// Saturdays map to the preceding Friday (-1 day), Sundays to the preceding Friday (-2 days),
// and weekdays are returned unchanged
func ResolveBusinessDay(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, -2)
	default:
		return t
	}
}
