// Package valueobject contains domain value objects for the clinic finance backend.
package valueobject

import (
	"math"
	"strings"
	"time"
)

// DayDuration is the length of one day used for day counting.
const DayDuration = 24 * time.Hour

var dateOnlyLayouts = []string{
	"2006-01-02",
	"02/01/2006",
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParsedInstant is a raw date value interpreted in the clinic timezone.
type ParsedInstant struct {
	Time     time.Time
	HasClock bool
}

// ParseInstant interprets a raw date value. Strings without an offset are read as
// clinic wall-clock time and date-only strings as calendar dates. A time.Time is
// always an instant; readers hand DATE columns over as "YYYY-MM-DD" strings.
func ParseInstant(v any, loc *time.Location) (ParsedInstant, bool) {
	switch val := v.(type) {
	case time.Time:
		if val.IsZero() {
			return ParsedInstant{}, false
		}
		return ParsedInstant{Time: val.In(loc), HasClock: true}, true
	case *time.Time:
		if val == nil {
			return ParsedInstant{}, false
		}
		return ParseInstant(*val, loc)
	}

	s := ToString(v)
	if s == "" {
		return ParsedInstant{}, false
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ParsedInstant{Time: t}, true
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ParsedInstant{Time: t.In(loc), HasClock: true}, true
		}
	}
	return ParsedInstant{}, false
}

// CalendarDate returns midnight of t's own year, month and day in loc.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfDay returns midnight of the day containing t, as seen in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	return CalendarDate(t.In(loc), loc)
}

// ClockOf formats the wall-clock time of day of t as HH:MM.
func ClockOf(t time.Time) string {
	return t.Format("15:04")
}

// NormalizeClock accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM".
func NormalizeClock(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04", "15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), true
		}
	}
	return "", false
}

// DaysBetween returns the whole days elapsed between date and now, rounded up.
func DaysBetween(date, now time.Time) int {
	diff := now.Sub(date)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(DayDuration)))
}
