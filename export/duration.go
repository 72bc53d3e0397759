package export

import (
	"math"
	"strings"
	"time"
)

// timestampLayouts are the representations accepted from forms and query
// strings, tried in order.
var timestampLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// FormatDuration returns the elapsed time between start and end as a
// human-readable string. A zero start or end yields "" and an end before
// start yields the locale's invalid-duration sentinel.
func FormatDuration(start, end time.Time, loc Locale) string {
	if start.IsZero() || end.IsZero() {
		return ""
	}
	return loc.FormatMinutes(ElapsedMinutes(start, end))
}

// ElapsedMinutes is floor((end - start) / 1 minute). It is negative when end
// precedes start, including by less than a minute.
func ElapsedMinutes(start, end time.Time) int64 {
	return int64(math.Floor(end.Sub(start).Minutes()))
}

// FormatDurationStrings is FormatDuration over raw form values. Blank input
// means the duration is not known yet; unparseable input is reported as an
// invalid duration rather than an error.
func FormatDurationStrings(start, end string, loc Locale) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return ""
	}

	s, err := ParseTimestamp(start, loc.location())
	if err != nil {
		return loc.InvalidDuration
	}
	e, err := ParseTimestamp(end, loc.location())
	if err != nil {
		return loc.InvalidDuration
	}
	return FormatDuration(s, e, loc)
}

// ParseTimestamp parses a datetime-local or RFC 3339 value. Values without
// an offset are interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)

	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
