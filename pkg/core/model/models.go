package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekdays lists the seven weekday names in calendar order starting Sunday.
// Matches time.Weekday numbering.
var Weekdays = []time.Weekday{
	time.Sunday,
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
}

// ParseWeekday resolves a weekday name, case-insensitively. Three-letter
// abbreviations ("Mon", "tue") are accepted since imported spreadsheets
// use both forms.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, day := range Weekdays {
		full := strings.ToLower(day.String())
		if name == full || (len(name) == 3 && name == full[:3]) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// WorkerRecord is one row of the imported worker table. Records are
// immutable once loaded; a fresh import replaces the set wholesale.
type WorkerRecord struct {
	ID        string
	FirstName string
	LastName  string
	Email     string

	// DaysAvailable is the set of weekdays the worker can be scheduled.
	DaysAvailable map[time.Weekday]bool

	// AvailableWindows holds per-day time-available strings ("9:00-17:00").
	// Absence of a day means the worker is available the whole day.
	// Kept raw so a bad string fails that worker's day, not the load.
	AvailableWindows map[time.Weekday][]string

	// UnavailableWindows holds per-day explicit "not available" strings.
	// An exclusion overlapping a slot wins over general availability.
	UnavailableWindows map[time.Weekday][]string

	// MaxShiftMinutes caps the length of a single shift. Zero means no cap.
	MaxShiftMinutes int

	// MaxShiftsPerDay and MaxShiftsPerWeek override the run-level caps for
	// this worker. Zero means the run default applies.
	MaxShiftsPerDay  int
	MaxShiftsPerWeek int
}

// DisplayName returns the worker's full name for rendering.
func (w WorkerRecord) DisplayName() string {
	return strings.TrimSpace(w.FirstName + " " + w.LastName)
}

// OperatingHours maps each weekday to its raw hours string. A missing day
// or a closed sentinel means the workplace does not operate that day.
type OperatingHours map[time.Weekday]string
