// Package rostergen generates a week's shift roster from a worker table,
// operating hours, and a constraint configuration. The engine is
// single-threaded per run; concurrent runs must each build their own
// Engine and AvailabilityIndex.
package rostergen

import (
	"time"

	"github.com/calebmorten/rostergen/pkg/core/timewindow"
)

// UnfilledReason explains why a slot ended a run with no assigned workers.
// Unfilled slots are ordinary, reportable outcomes, never errors.
type UnfilledReason string

const (
	// ReasonNoEligibleWorker means nobody passed the availability rules.
	ReasonNoEligibleWorker UnfilledReason = "no eligible worker"

	// ReasonCapacityExhausted means eligible workers existed but all were
	// at their cap and backfill was disabled.
	ReasonCapacityExhausted UnfilledReason = "capacity exhausted"
)

// CapKind identifies which assignment cap an over-cap backfill exceeded.
type CapKind string

const (
	CapPerDay  CapKind = "per-day"
	CapPerWeek CapKind = "per-week"
)

// Slot is one shift interval requiring coverage on a specific day.
type Slot struct {
	Day    time.Weekday
	Date   time.Time
	Window timewindow.Window
	Label  string
}

// AssignedWorker is one worker placed on a slot. OverCap marks a backfill
// assignment that exceeded the worker's caps; ExceededCaps lists every cap
// that was exceeded rather than hiding one behind the other.
type AssignedWorker struct {
	WorkerID     string
	OverCap      bool
	ExceededCaps []CapKind
}

// SlotAssignment records the outcome for one slot.
type SlotAssignment struct {
	Slot    Slot
	Workers []AssignedWorker

	// Reason is set only when Workers is empty.
	Reason UnfilledReason

	// UnderMinimum marks a slot that ended the run below the configured
	// minimum staff count.
	UnderMinimum bool
}

// WorkerSkip reports a worker excluded from one day because their
// availability string for that day could not be parsed.
type WorkerSkip struct {
	WorkerID string
	Day      time.Weekday
	Detail   string
}

// RosterDay is one calendar day of the roster.
type RosterDay struct {
	Day    time.Weekday
	Date   time.Time
	Closed bool

	// HoursErr carries the parse failure for this day's hours string.
	// The day has no slots; other days continue.
	HoursErr string

	Slots []SlotAssignment
}

// Roster is the completed output of one engine run, ordered by calendar
// day from the configured week start. A new run produces a new Roster;
// prior rosters are never mutated.
type Roster struct {
	RunID       string
	GeneratedAt time.Time
	WeekStart   time.Weekday
	Days        []RosterDay
	Skipped     []WorkerSkip
}

// Unfilled returns every slot assignment that ended with no workers.
func (r *Roster) Unfilled() []SlotAssignment {
	var out []SlotAssignment
	for _, day := range r.Days {
		for _, sa := range day.Slots {
			if len(sa.Workers) == 0 {
				out = append(out, sa)
			}
		}
	}
	return out
}

// AssignmentCounts returns the number of slots each worker was assigned.
func (r *Roster) AssignmentCounts() map[string]int {
	counts := make(map[string]int)
	for _, day := range r.Days {
		for _, sa := range day.Slots {
			for _, w := range sa.Workers {
				counts[w.WorkerID]++
			}
		}
	}
	return counts
}

// SameOutcome compares two rosters ignoring run metadata (RunID,
// GeneratedAt). Used to assert the determinism law: identical input,
// configuration, and seed must produce identical outcomes.
func (r *Roster) SameOutcome(o *Roster) bool {
	if r.WeekStart != o.WeekStart || len(r.Days) != len(o.Days) || len(r.Skipped) != len(o.Skipped) {
		return false
	}
	for i := range r.Skipped {
		if r.Skipped[i] != o.Skipped[i] {
			return false
		}
	}
	for i := range r.Days {
		a, b := r.Days[i], o.Days[i]
		if a.Day != b.Day || !a.Date.Equal(b.Date) || a.Closed != b.Closed || a.HoursErr != b.HoursErr || len(a.Slots) != len(b.Slots) {
			return false
		}
		for j := range a.Slots {
			if !sameSlotAssignment(a.Slots[j], b.Slots[j]) {
				return false
			}
		}
	}
	return true
}

func sameSlotAssignment(a, b SlotAssignment) bool {
	if a.Slot.Day != b.Slot.Day || a.Slot.Window != b.Slot.Window || a.Slot.Label != b.Slot.Label {
		return false
	}
	if a.Reason != b.Reason || a.UnderMinimum != b.UnderMinimum || len(a.Workers) != len(b.Workers) {
		return false
	}
	for i := range a.Workers {
		if a.Workers[i].WorkerID != b.Workers[i].WorkerID || a.Workers[i].OverCap != b.Workers[i].OverCap {
			return false
		}
		if len(a.Workers[i].ExceededCaps) != len(b.Workers[i].ExceededCaps) {
			return false
		}
		for j := range a.Workers[i].ExceededCaps {
			if a.Workers[i].ExceededCaps[j] != b.Workers[i].ExceededCaps[j] {
				return false
			}
		}
	}
	return true
}
