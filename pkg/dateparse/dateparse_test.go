package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rotacerta/rideshare/pkg/errors"
)

// TestParse_AcceptedFormats tests every documented input shape
func TestParse_AcceptedFormats(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "day/month with clock, current year",
			input:    "18/08 - 20:30",
			expected: time.Date(year, time.August, 18, 20, 30, 0, 0, time.UTC),
		},
		{
			name:     "full date with clock",
			input:    "18/08/2025 20:30",
			expected: time.Date(2025, time.August, 18, 20, 30, 0, 0, time.UTC),
		},
		{
			name:     "full date only",
			input:    "18/08/2025",
			expected: time.Date(2025, time.August, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "day/month only, current year at midnight",
			input:    "18/08",
			expected: time.Date(year, time.August, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "ISO date-time without seconds",
			input:    "2025-08-18T20:30",
			expected: time.Date(2025, time.August, 18, 20, 30, 0, 0, time.UTC),
		},
		{
			name:     "ISO date-time with seconds",
			input:    "2025-08-18T20:30:15",
			expected: time.Date(2025, time.August, 18, 20, 30, 15, 0, time.UTC),
		},
		{
			name:     "bare ISO date",
			input:    "2025-08-18",
			expected: time.Date(2025, time.August, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  18/08/2025 20:30  ",
			expected: time.Date(2025, time.August, 18, 20, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %v, got %v", tt.expected, got)
		})
	}
}

// TestParse_Unparseable tests that garbage input yields a typed error, never a panic
func TestParse_Unparseable(t *testing.T) {
	for _, input := range []string{"not-a-date", "", "99/99/9999", "18-08-2025", "tomorrow"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)

			appErr := apperrors.GetAppError(err)
			assert.Equal(t, "BAD_REQUEST", appErr.Code)
			assert.Contains(t, appErr.Message, "18/08/2025 20:30", "error should list accepted examples")
		})
	}
}

// TestFormat_RoundTrip tests that parsing then formatting matches the display format
func TestFormat_RoundTrip(t *testing.T) {
	parsed, err := Parse("18/08/2025 20:30")
	require.NoError(t, err)
	assert.Equal(t, "18/08 - 20:30", Format(parsed))
}

func TestHasClock(t *testing.T) {
	assert.True(t, HasClock("18/08/2025 20:30"))
	assert.True(t, HasClock("2025-08-18T20:30"))
	assert.False(t, HasClock("18/08/2025"))
	assert.False(t, HasClock("18/08"))
}

func TestDayWindow(t *testing.T) {
	ts := time.Date(2025, time.August, 18, 20, 30, 0, 0, time.UTC)
	start, end := DayWindow(ts)

	assert.Equal(t, time.Date(2025, time.August, 18, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.August, 19, 0, 0, 0, 0, time.UTC), end)
}
