package rostergen

import (
	"time"

	"github.com/calebmorten/rostergen/pkg/core/model"
	"github.com/calebmorten/rostergen/pkg/core/timewindow"
)

// AvailabilityIndex answers which workers are eligible for a (day, slot)
// pair. It is built once per run and is read-only afterwards; day-level
// facts are computed lazily and cached per (worker, day), while the
// per-slot overlap checks run against each query's concrete window.
type AvailabilityIndex struct {
	workers []model.WorkerRecord
	days    map[dayKey]*workerDay
	skipped []WorkerSkip
}

type dayKey struct {
	worker int
	day    time.Weekday
}

// workerDay holds one worker's parsed facts for one weekday.
type workerDay struct {
	available   bool
	windows     []timewindow.Window // nil means the whole day
	exclusions  []timewindow.Window
	parseFailed bool
}

// NewAvailabilityIndex builds an index over the worker table. Table order
// is preserved; it is the tie-break order for every assignment policy.
func NewAvailabilityIndex(workers []model.WorkerRecord) *AvailabilityIndex {
	return &AvailabilityIndex{
		workers: workers,
		days:    make(map[dayKey]*workerDay),
	}
}

// Workers returns the underlying table in original order.
func (ix *AvailabilityIndex) Workers() []model.WorkerRecord {
	return ix.workers
}

// Skipped returns the workers excluded from individual days because an
// availability string failed to parse. Populated as days are evaluated.
func (ix *AvailabilityIndex) Skipped() []WorkerSkip {
	return ix.skipped
}

// Eligible returns the table indices of every worker eligible for the
// given day and slot window, in table order. A worker is eligible iff:
//  1. they list the day among their available days;
//  2. no explicit not-available window for the day overlaps the slot
//     (exclusion wins over general availability);
//  3. when they declare available windows for the day, the slot falls
//     entirely within at least one (no declared windows means the whole
//     day is available);
//  4. the slot does not exceed their declared maximum shift length.
func (ix *AvailabilityIndex) Eligible(day time.Weekday, slot timewindow.Window) []int {
	var eligible []int
	for i := range ix.workers {
		if ix.isEligible(i, day, slot) {
			eligible = append(eligible, i)
		}
	}
	return eligible
}

func (ix *AvailabilityIndex) isEligible(worker int, day time.Weekday, slot timewindow.Window) bool {
	wd := ix.workerDayFacts(worker, day)
	if !wd.available || wd.parseFailed {
		return false
	}

	for _, excl := range wd.exclusions {
		if excl.Overlaps(slot) {
			return false
		}
	}

	if wd.windows != nil {
		contained := false
		for _, w := range wd.windows {
			if w.Contains(slot) {
				contained = true
				break
			}
		}
		if !contained {
			return false
		}
	}

	if max := ix.workers[worker].MaxShiftMinutes; max > 0 && slot.Duration() > max {
		return false
	}

	return true
}

// workerDayFacts parses and caches one worker's windows for one day.
func (ix *AvailabilityIndex) workerDayFacts(worker int, day time.Weekday) *workerDay {
	key := dayKey{worker: worker, day: day}
	if cached, ok := ix.days[key]; ok {
		return cached
	}

	record := ix.workers[worker]
	wd := &workerDay{available: record.DaysAvailable[day]}

	if wd.available {
		var err error
		wd.windows, err = parseWindowList(record.AvailableWindows[day])
		if err == nil {
			wd.exclusions, err = parseWindowList(record.UnavailableWindows[day])
		}
		if err != nil {
			// A bad string excludes this worker for this day only; the
			// run continues and the skip is reported on the Roster.
			wd.parseFailed = true
			wd.windows, wd.exclusions = nil, nil
			ix.skipped = append(ix.skipped, WorkerSkip{
				WorkerID: record.ID,
				Day:      day,
				Detail:   err.Error(),
			})
		}
	}

	ix.days[key] = wd
	return wd
}

// parseWindowList parses raw window strings, returning nil for an empty
// list so "no declared windows" stays distinct from "declared but empty".
func parseWindowList(raw []string) ([]timewindow.Window, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	windows := make([]timewindow.Window, 0, len(raw))
	for _, s := range raw {
		w, err := timewindow.ParseWindow(s)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}
