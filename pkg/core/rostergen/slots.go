package rostergen

import (
	"fmt"
	"time"

	"github.com/calebmorten/rostergen/pkg/core/timewindow"
)

// SlotMode selects how a day's operating window is partitioned into slots.
type SlotMode string

const (
	// SlotModeFixedDuration cuts the window into consecutive slots of one
	// fixed length, discarding any remainder shorter than that length.
	SlotModeFixedDuration SlotMode = "fixed-duration"

	// SlotModeExplicitTable uses a per-day list of shift labels, each
	// parsed independently, for workplaces with irregular shift boundaries.
	SlotModeExplicitTable SlotMode = "explicit-table"
)

// ConfigError reports conflicting or missing engine configuration. It is
// fatal to the whole run and raised before any assignment begins.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Detail
}

// FixedSlots partitions an operating window into consecutive slots of
// exactly slotLength minutes. The count is floor(duration/slotLength);
// a remainder shorter than slotLength is dropped rather than emitted as
// a degenerate short shift, keeping total staffed time deterministic.
func FixedSlots(day time.Weekday, date time.Time, window timewindow.Window, slotLength int) []Slot {
	if slotLength <= 0 {
		return nil
	}

	count := window.Duration() / slotLength
	slots := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		w := timewindow.Window{
			Start: window.Start + i*slotLength,
			End:   window.Start + (i+1)*slotLength,
		}
		slots = append(slots, Slot{
			Day:    day,
			Date:   date,
			Window: w,
			Label:  w.Label(),
		})
	}
	return slots
}

// TableSlots parses an explicit ordered list of shift labels for one day.
// Labels must be in non-decreasing start order and must not overlap;
// either is a configuration error surfaced to the caller, never silently
// merged. A label that fails to parse returns the parse error so the
// caller can skip the day and continue with the rest of the week.
func TableSlots(day time.Weekday, date time.Time, labels []string) ([]Slot, error) {
	slots := make([]Slot, 0, len(labels))
	for _, label := range labels {
		w, err := timewindow.ParseWindow(label)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{
			Day:    day,
			Date:   date,
			Window: w,
			Label:  w.Label(),
		})
	}

	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		if cur.Window.Start < prev.Window.Start {
			return nil, &ConfigError{Detail: fmt.Sprintf(
				"%s slots out of order: %q starts before %q", day, labels[i], labels[i-1])}
		}
		if cur.Window.Overlaps(prev.Window) {
			return nil, &ConfigError{Detail: fmt.Sprintf(
				"%s slots overlap: %q and %q", day, labels[i-1], labels[i])}
		}
	}

	return slots, nil
}
