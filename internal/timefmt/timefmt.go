// Package timefmt holds the pure time formatting helpers used to display
// messages and date dividers. All day arithmetic uses the local calendar so
// that divider boundaries match the user's wall-clock day.
package timefmt

import "time"

const bucketKeyLayout = "2006-01-02"

// FormatClockTime returns a 12-hour clock time with an AM/PM suffix, in the
// local timezone regardless of the timestamp's own location.
// Returns "" for a missing timestamp.
func FormatClockTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("3:04 PM")
}

// DayBucketKey returns the local calendar day of t as a YYYY-MM-DD key.
// Returns "" for a missing timestamp.
func DayBucketKey(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format(bucketKeyLayout)
}

// DividerLabel converts a day bucket key into a human divider label:
// "Today", "Yesterday", or an abbreviated "Mon D, YYYY" date.
// Returns "" for an empty or malformed key.
func DividerLabel(key string) string {
	return dividerLabelAt(key, time.Now())
}

func dividerLabelAt(key string, now time.Time) string {
	if key == "" {
		return ""
	}
	day, err := time.ParseInLocation(bucketKeyLayout, key, time.Local)
	if err != nil {
		return ""
	}

	// Comparison is on calendar days, never on elapsed hours.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return day.Format("Jan 2, 2006")
	}
}
