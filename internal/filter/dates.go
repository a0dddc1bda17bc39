package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/now"
)

const (
	// Unix timestamps below this value are seconds, at or above it milliseconds
	unixMillisThreshold = 1_000_000_000_000
	// 100,000,000 days after the epoch, the last instant a timestamp may name
	maxUnixMillis = 8_640_000_000_000_000
)

var (
	isoLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}

	monthNameLayouts = []string{
		"January 2, 2006",
		"Jan 2, 2006",
		"January 02, 2006",
		"Jan 02, 2006",
	}

	slashLayouts = []string{
		"01/02/2006",
		"1/2/2006",
	}
)

// ParseDate parses the date encodings the transactions API is known to return.
// Formats are tried in a fixed order: Unix seconds or milliseconds, ISO-8601,
// long month names, MM/DD/YYYY and finally generic parsing. The first valid
// result wins. Values without a zone are read as local time.
//
// All-digit values are always timestamps. They are not bound to the four-digit
// years the textual formats accept, so "999999999999" is a date in year 33658.
//
// ok is false when nothing matched; callers treat that as "exclude this record".
func ParseDate(raw string) (t time.Time, ok bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	if isAllDigits(value) {
		return parseUnix(value)
	}

	for _, group := range [][]string{isoLayouts, monthNameLayouts, slashLayouts} {
		if t, ok := parseLayouts(value, group); ok {
			return t, true
		}
	}

	if t, err := dateparse.ParseIn(value, time.Local); err == nil && isValidDate(t) {
		return t, true
	}

	return time.Time{}, false
}

// NormalizeToDate returns local midnight of the calendar day t falls on, so that
// day-level comparisons ignore the time of day.
func NormalizeToDate(t time.Time) time.Time {
	return now.With(t.In(time.Local)).BeginningOfDay()
}

// SameDay reports whether a and b fall on the same local calendar day
func SameDay(a, b time.Time) bool {
	return NormalizeToDate(a).Equal(NormalizeToDate(b))
}

func parseUnix(value string) (time.Time, bool) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	var t time.Time
	switch {
	case n < unixMillisThreshold:
		t = time.Unix(n, 0)
	case n <= maxUnixMillis:
		t = time.UnixMilli(n)
	default:
		return time.Time{}, false
	}
	return t.In(time.Local), true
}

func parseLayouts(value string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil && isValidDate(t) {
			return t, true
		}
	}
	return time.Time{}, false
}

func isValidDate(t time.Time) bool {
	year := t.Year()
	return year >= 1 && year <= 9999
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
