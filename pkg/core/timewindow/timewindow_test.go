package timewindow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock_24Hour(t *testing.T) {
	cases := map[string]int{
		"9:00":    540,
		"09:00":   540,
		"17:30":   1050,
		"0:00":    0,
		"23:59":   1439,
		" 12:15 ": 735,
	}
	for input, want := range cases {
		got, err := ParseClock(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParseClock_12Hour(t *testing.T) {
	cases := map[string]int{
		"9 AM":     540,
		"9am":      540,
		"9:30 PM":  1290,
		"12 AM":    0,
		"12 PM":    720,
		"12:45 am": 45,
		" 5 pm ":   1020,
	}
	for input, want := range cases {
		got, err := ParseClock(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "25:00", "9:60", "13 PM", "0 AM", "9:xx", "PM"} {
		_, err := ParseClock(input)
		require.Error(t, err, "input %q", input)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", input)
	}
}

func TestParseWindow_EquivalentForms(t *testing.T) {
	// "09:00-17:00" and "9 AM - 5 PM" must yield identical windows.
	w24, err := ParseWindow("09:00-17:00")
	require.NoError(t, err)
	w12, err := ParseWindow("9 AM - 5 PM")
	require.NoError(t, err)

	assert.Equal(t, Window{Start: 540, End: 1020}, w24)
	assert.Equal(t, w24, w12)
}

func TestParseWindow_OvernightWrap(t *testing.T) {
	w, err := ParseWindow("10 PM - 2 AM")
	require.NoError(t, err)

	assert.Equal(t, 1320, w.Start)
	assert.Equal(t, 1320+240, w.End)
	assert.Greater(t, w.End, w.Start, "close must never precede open after wrap")
	assert.Equal(t, 240, w.Duration())
}

func TestParseWindow_MidnightClose(t *testing.T) {
	// "8 PM - 12 AM" closes at midnight, which wraps to end of day.
	w, err := ParseWindow("8 PM - 12 AM")
	require.NoError(t, err)

	assert.Equal(t, Window{Start: 1200, End: 1440}, w)
}

func TestParseWindow_Invalid(t *testing.T) {
	for _, input := range []string{"", "9:00", "9:00 to 17:00", "- 17:00", "9:00 -", "9:xx-17:00"} {
		_, err := ParseWindow(input)
		require.Error(t, err, "input %q", input)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr, "input %q", input)
		assert.NotEmpty(t, parseErr.Input)
	}
}

func TestWindow_OverlapsAndContains(t *testing.T) {
	morning := Window{Start: 540, End: 720}  // 09:00 - 12:00
	midday := Window{Start: 660, End: 780}   // 11:00 - 13:00
	evening := Window{Start: 1020, End: 1200} // 17:00 - 20:00

	assert.True(t, morning.Overlaps(midday))
	assert.True(t, midday.Overlaps(morning))
	assert.False(t, morning.Overlaps(evening))

	// Touching windows do not overlap.
	assert.False(t, Window{Start: 540, End: 660}.Overlaps(Window{Start: 660, End: 780}))

	assert.True(t, Window{Start: 540, End: 1020}.Contains(morning))
	assert.False(t, morning.Contains(midday))
}

func TestWindow_Label(t *testing.T) {
	assert.Equal(t, "09:00 - 17:00", Window{Start: 540, End: 1020}.Label())
	// Overnight windows render the wrapped clock time.
	assert.Equal(t, "22:00 - 02:00", Window{Start: 1320, End: 1560}.Label())
}

func TestIsClosed(t *testing.T) {
	assert.True(t, IsClosed(""))
	assert.True(t, IsClosed("closed"))
	assert.True(t, IsClosed(" Closed "))
	assert.True(t, IsClosed("CLOSED"))
	assert.False(t, IsClosed("9:00-17:00"))
}
