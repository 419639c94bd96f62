// Package dateparse handles the flexible departure date/time formats the
// mobile clients send, all Brazilian day-first notation plus ISO-8601.
package dateparse

import (
	"strings"
	"time"

	apperrors "github.com/rotacerta/rideshare/pkg/errors"
)

// ExampleFormats is shown to users when an input cannot be parsed.
var ExampleFormats = []string{
	"18/08/2025 20:30 (DD/MM/YYYY HH:MM)",
	"18/08/2025 (DD/MM/YYYY)",
	"18/08 - 20:30 (DD/MM - HH:MM, current year)",
	"18/08 (DD/MM, current year)",
	"2025-08-18T20:30 (YYYY-MM-DDTHH:MM)",
	"2025-08-18 (YYYY-MM-DD)",
}

// attempts are tried in order; the first successful parse wins. Layouts with
// currentYear set carry no year of their own and assume the current one.
var attempts = []struct {
	layout      string
	currentYear bool
}{
	{"2/1 - 15:04", true},
	{"2/1/2006 15:04", false},
	{"2/1/2006", false},
	{"2/1", true},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-1-2", false},
}

// Parse converts a free-form date/time string into a timestamp. It returns
// a BadRequest AppError listing the accepted formats when nothing matches.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	for _, a := range attempts {
		t, err := time.Parse(a.layout, raw)
		if err != nil {
			continue
		}
		if a.currentYear {
			t = time.Date(time.Now().Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
		}
		return t.UTC(), nil
	}

	return time.Time{}, apperrors.BadRequest(
		"Unrecognized date/time format. Accepted examples: "+strings.Join(ExampleFormats, ", "), nil)
}

// HasClock reports whether the raw input carried a time-of-day component.
// Trip search treats inputs with a clock as exact-timestamp filters and
// bare dates as whole-day filters.
func HasClock(raw string) bool {
	return strings.Contains(raw, ":")
}

// DayWindow returns the [start, end) bounds of the calendar day of t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// Format renders a timestamp the way clients display departures.
func Format(t time.Time) string {
	return t.Format("02/01 - 15:04")
}
