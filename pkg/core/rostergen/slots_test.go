package rostergen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmorten/rostergen/pkg/core/timewindow"
)

func TestFixedSlots_ExactPartition(t *testing.T) {
	// 09:00 - 17:00 in 120-minute slots: exactly four, no remainder.
	window := timewindow.Window{Start: 540, End: 1020}
	slots := FixedSlots(time.Monday, time.Time{}, window, 120)

	require.Len(t, slots, 4)
	for i, slot := range slots {
		assert.Equal(t, 120, slot.Window.Duration(), "slot %d", i)
		assert.Equal(t, time.Monday, slot.Day)
	}
	assert.Equal(t, "09:00 - 11:00", slots[0].Label)
	assert.Equal(t, "15:00 - 17:00", slots[3].Label)
}

func TestFixedSlots_RemainderDropped(t *testing.T) {
	// 09:00 - 13:30 in 120-minute slots: the trailing 30 minutes are
	// discarded, not emitted as a short slot.
	window := timewindow.Window{Start: 540, End: 810}
	slots := FixedSlots(time.Tuesday, time.Time{}, window, 120)

	require.Len(t, slots, 2)
	assert.Equal(t, 660, slots[0].Window.End)
	assert.Equal(t, 780, slots[1].Window.End)
}

func TestFixedSlots_CountAndContiguity(t *testing.T) {
	cases := []struct {
		open, close, length int
	}{
		{540, 1020, 180},
		{720, 1440, 240},
		{840, 1440, 180}, // 2 PM - 12 AM
		{600, 960, 90},
		{1320, 1560, 120}, // overnight 10 PM - 2 AM
	}

	for _, tc := range cases {
		window := timewindow.Window{Start: tc.open, End: tc.close}
		slots := FixedSlots(time.Friday, time.Time{}, window, tc.length)

		expected := (tc.close - tc.open) / tc.length
		require.Len(t, slots, expected, "window %v length %d", window, tc.length)

		for i, slot := range slots {
			assert.Equal(t, tc.length, slot.Window.Duration())
			if i > 0 {
				// Start times strictly increasing, no gaps and no overlaps.
				assert.Equal(t, slots[i-1].Window.End, slot.Window.Start)
				assert.Greater(t, slot.Window.Start, slots[i-1].Window.Start)
			}
		}
	}
}

func TestFixedSlots_WindowShorterThanSlot(t *testing.T) {
	window := timewindow.Window{Start: 540, End: 600}
	slots := FixedSlots(time.Monday, time.Time{}, window, 120)
	assert.Empty(t, slots)
}

func TestTableSlots_ParsesLabelsInOrder(t *testing.T) {
	labels := []string{"2 PM - 5 PM", "5 PM - 8 PM", "8 PM - 12 AM"}
	slots, err := TableSlots(time.Monday, time.Time{}, labels)
	require.NoError(t, err)

	require.Len(t, slots, 3)
	assert.Equal(t, "14:00 - 17:00", slots[0].Label)
	assert.Equal(t, "17:00 - 20:00", slots[1].Label)
	assert.Equal(t, "20:00 - 00:00", slots[2].Label)
	assert.Equal(t, 1440, slots[2].Window.End)
}

func TestTableSlots_OverlapIsConfigError(t *testing.T) {
	_, err := TableSlots(time.Monday, time.Time{}, []string{"2 PM - 6 PM", "5 PM - 8 PM"})
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTableSlots_OutOfOrderIsConfigError(t *testing.T) {
	_, err := TableSlots(time.Monday, time.Time{}, []string{"5 PM - 8 PM", "2 PM - 4 PM"})
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTableSlots_BadLabelIsParseError(t *testing.T) {
	_, err := TableSlots(time.Monday, time.Time{}, []string{"2 PM - 5 PM", "whenever"})
	require.Error(t, err)

	var parseErr *timewindow.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
