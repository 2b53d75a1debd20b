package rostergen

import (
	"time"

	"github.com/google/uuid"
)

// EngineConfig is the constraint set for one generation run.
type EngineConfig struct {
	WeekStart time.Weekday

	// MaxShiftsPerDay caps assignments per worker per day. Individual
	// workers may carry their own override in the table.
	MaxShiftsPerDay int

	// MaxShiftsPerWeek caps assignments per worker per run. Zero means
	// unlimited.
	MaxShiftsPerWeek int

	// MinStaffPerSlot is the coverage target per slot. Selection repeats
	// without replacement until the target is met or workers run out.
	MinStaffPerSlot int

	Policy SelectionPolicy

	// BackfillEnabled allows assigning an over-cap worker when every
	// eligible worker is capped, flagged rather than hidden.
	BackfillEnabled bool
}

// DayPlan is one day's prepared input to a run: its slots, or the reason
// it has none.
type DayPlan struct {
	Day      time.Weekday
	Date     time.Time
	Closed   bool
	HoursErr string
	Slots    []Slot

	// MinStaff overrides the run-level minimum staff count for this day.
	// Zero means the run default applies.
	MinStaff int
}

// Engine owns all mutable state of one generation run. Slot evaluation is
// strictly sequential: later slots see the usage counters accumulated by
// earlier ones, which is what makes the per-day and per-week caps mean
// anything. An Engine must not be shared across runs.
type Engine struct {
	cfg   EngineConfig
	index *AvailabilityIndex

	shiftsToday []int
	shiftsWeek  []int
	totalRun    []int

	// lastAssigned is a monotonically increasing sequence number per
	// worker, giving the least-recently-used order for backfill.
	lastAssigned []int
	seq          int
}

// NewEngine validates the configuration and prepares run state. A
// *ConfigError here is fatal to the run; no assignment has begun.
func NewEngine(cfg EngineConfig, index *AvailabilityIndex) (*Engine, error) {
	if cfg.Policy == nil {
		return nil, &ConfigError{Detail: "no assignment policy configured"}
	}
	if cfg.MaxShiftsPerDay < 1 {
		return nil, &ConfigError{Detail: "maxShiftsPerDay must be at least 1"}
	}
	if cfg.MinStaffPerSlot < 1 {
		return nil, &ConfigError{Detail: "minStaffPerSlot must be at least 1"}
	}
	if cfg.MaxShiftsPerWeek < 0 {
		return nil, &ConfigError{Detail: "maxShiftsPerWeek cannot be negative"}
	}

	workerCount := len(index.Workers())
	return &Engine{
		cfg:          cfg,
		index:        index,
		shiftsToday:  make([]int, workerCount),
		shiftsWeek:   make([]int, workerCount),
		totalRun:     make([]int, workerCount),
		lastAssigned: make([]int, workerCount),
	}, nil
}

// Run iterates the supplied day plans in order, slots chronologically
// within each day, and returns the completed Roster. Under-coverage is
// recorded, never raised.
func (e *Engine) Run(days []DayPlan) *Roster {
	roster := &Roster{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		WeekStart:   e.cfg.WeekStart,
		Days:        make([]RosterDay, 0, len(days)),
	}

	for _, plan := range days {
		day := RosterDay{
			Day:      plan.Day,
			Date:     plan.Date,
			Closed:   plan.Closed,
			HoursErr: plan.HoursErr,
		}

		if !plan.Closed && plan.HoursErr == "" {
			for i := range e.shiftsToday {
				e.shiftsToday[i] = 0
			}
			minStaff := e.cfg.MinStaffPerSlot
			if plan.MinStaff > 0 {
				minStaff = plan.MinStaff
			}
			for _, slot := range plan.Slots {
				day.Slots = append(day.Slots, e.fillSlot(slot, minStaff))
			}
		}

		roster.Days = append(roster.Days, day)
	}

	roster.Skipped = e.index.Skipped()
	return roster
}

// fillSlot selects workers for one slot until the minimum staff count is
// met or eligible workers are exhausted.
func (e *Engine) fillSlot(slot Slot, minStaff int) SlotAssignment {
	assignment := SlotAssignment{Slot: slot}
	onSlot := make(map[int]bool)
	var emptyReason UnfilledReason

	for len(assignment.Workers) < minStaff {
		eligible := e.remainingEligible(slot, onSlot)
		if len(eligible) == 0 {
			emptyReason = ReasonNoEligibleWorker
			break
		}

		underCap := e.underCap(eligible)
		if len(underCap) > 0 {
			pick := underCap[e.cfg.Policy.Select(e.candidates(underCap))]
			assignment.Workers = append(assignment.Workers, AssignedWorker{
				WorkerID: e.index.Workers()[pick].ID,
			})
			e.recordAssignment(pick)
			onSlot[pick] = true
			continue
		}

		if !e.cfg.BackfillEnabled {
			emptyReason = ReasonCapacityExhausted
			break
		}

		// Every eligible worker is capped: backfill the least-recently
		// used one and surface the violation instead of hiding it.
		pick := e.leastRecentlyUsed(eligible)
		assignment.Workers = append(assignment.Workers, AssignedWorker{
			WorkerID:     e.index.Workers()[pick].ID,
			OverCap:      true,
			ExceededCaps: e.exceededCaps(pick),
		})
		e.recordAssignment(pick)
		onSlot[pick] = true
	}

	if len(assignment.Workers) == 0 {
		assignment.Reason = emptyReason
	}
	assignment.UnderMinimum = len(assignment.Workers) < minStaff
	return assignment
}

// remainingEligible returns eligible workers not already on this slot,
// in table order.
func (e *Engine) remainingEligible(slot Slot, onSlot map[int]bool) []int {
	var out []int
	for _, idx := range e.index.Eligible(slot.Day, slot.Window) {
		if !onSlot[idx] {
			out = append(out, idx)
		}
	}
	return out
}

// underCap filters workers whose day and week counters are below their
// effective caps.
func (e *Engine) underCap(workers []int) []int {
	var out []int
	for _, idx := range workers {
		if len(e.exceededCaps(idx)) == 0 {
			out = append(out, idx)
		}
	}
	return out
}

// exceededCaps reports which caps the worker has reached. Both caps are
// checked independently so neither violation masks the other.
func (e *Engine) exceededCaps(worker int) []CapKind {
	var caps []CapKind

	dayCap := e.cfg.MaxShiftsPerDay
	if override := e.index.Workers()[worker].MaxShiftsPerDay; override > 0 {
		dayCap = override
	}
	if e.shiftsToday[worker] >= dayCap {
		caps = append(caps, CapPerDay)
	}

	weekCap := e.cfg.MaxShiftsPerWeek
	if override := e.index.Workers()[worker].MaxShiftsPerWeek; override > 0 {
		weekCap = override
	}
	if weekCap > 0 && e.shiftsWeek[worker] >= weekCap {
		caps = append(caps, CapPerWeek)
	}

	return caps
}

func (e *Engine) candidates(workers []int) []Candidate {
	out := make([]Candidate, len(workers))
	for i, idx := range workers {
		out[i] = Candidate{WorkerIdx: idx, Assignments: e.totalRun[idx]}
	}
	return out
}

// leastRecentlyUsed returns the worker assigned longest ago, preferring
// workers never assigned this run. Ties break by table order.
func (e *Engine) leastRecentlyUsed(workers []int) int {
	best := workers[0]
	for _, idx := range workers[1:] {
		if e.lastAssigned[idx] < e.lastAssigned[best] {
			best = idx
		}
	}
	return best
}

func (e *Engine) recordAssignment(worker int) {
	e.seq++
	e.shiftsToday[worker]++
	e.shiftsWeek[worker]++
	e.totalRun[worker]++
	e.lastAssigned[worker] = e.seq
}
