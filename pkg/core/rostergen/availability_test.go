package rostergen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmorten/rostergen/pkg/core/model"
	"github.com/calebmorten/rostergen/pkg/core/timewindow"
)

func worker(id string, days ...time.Weekday) model.WorkerRecord {
	available := make(map[time.Weekday]bool)
	for _, d := range days {
		available[d] = true
	}
	return model.WorkerRecord{ID: id, DaysAvailable: available}
}

func TestEligible_DayMembership(t *testing.T) {
	ix := NewAvailabilityIndex([]model.WorkerRecord{
		worker("alice", time.Monday),
		worker("bob", time.Tuesday),
	})

	slot := timewindow.Window{Start: 540, End: 720}
	assert.Equal(t, []int{0}, ix.Eligible(time.Monday, slot))
	assert.Equal(t, []int{1}, ix.Eligible(time.Tuesday, slot))
	assert.Empty(t, ix.Eligible(time.Wednesday, slot))
}

func TestEligible_ExclusionWinsOverGeneralAvailability(t *testing.T) {
	// Alice is generally available Monday but explicitly not 9-12.
	alice := worker("alice", time.Monday)
	alice.UnavailableWindows = map[time.Weekday][]string{
		time.Monday: {"9:00-12:00"},
	}
	ix := NewAvailabilityIndex([]model.WorkerRecord{alice})

	// Any Monday slot overlapping 9-12 excludes her.
	assert.Empty(t, ix.Eligible(time.Monday, timewindow.Window{Start: 540, End: 720}))
	assert.Empty(t, ix.Eligible(time.Monday, timewindow.Window{Start: 660, End: 780}))

	// Slots outside the exclusion are fine.
	assert.Equal(t, []int{0}, ix.Eligible(time.Monday, timewindow.Window{Start: 720, End: 900}))

	// The exclusion is Monday-only.
	bobDay := ix.Eligible(time.Tuesday, timewindow.Window{Start: 540, End: 720})
	assert.Empty(t, bobDay) // not available Tuesday at all
}

func TestEligible_DeclaredWindowsRequireContainment(t *testing.T) {
	alice := worker("alice", time.Monday)
	alice.AvailableWindows = map[time.Weekday][]string{
		time.Monday: {"9:00-13:00", "17:00-21:00"},
	}
	ix := NewAvailabilityIndex([]model.WorkerRecord{alice})

	// Fully inside a declared window: eligible.
	assert.Equal(t, []int{0}, ix.Eligible(time.Monday, timewindow.Window{Start: 540, End: 720}))
	assert.Equal(t, []int{0}, ix.Eligible(time.Monday, timewindow.Window{Start: 1020, End: 1260}))

	// Straddling a window boundary: not eligible.
	assert.Empty(t, ix.Eligible(time.Monday, timewindow.Window{Start: 720, End: 840}))
}

func TestEligible_NoDeclaredWindowsMeansWholeDay(t *testing.T) {
	ix := NewAvailabilityIndex([]model.WorkerRecord{worker("alice", time.Monday)})
	assert.Equal(t, []int{0}, ix.Eligible(time.Monday, timewindow.Window{Start: 0, End: 1440}))
}

func TestEligible_MaxShiftLength(t *testing.T) {
	alice := worker("alice", time.Monday)
	alice.MaxShiftMinutes = 180
	ix := NewAvailabilityIndex([]model.WorkerRecord{alice})

	assert.Equal(t, []int{0}, ix.Eligible(time.Monday, timewindow.Window{Start: 540, End: 720}))
	assert.Empty(t, ix.Eligible(time.Monday, timewindow.Window{Start: 540, End: 780}))
}

func TestEligible_BadWindowStringSkipsWorkerForDayOnly(t *testing.T) {
	alice := worker("alice", time.Monday, time.Tuesday)
	alice.AvailableWindows = map[time.Weekday][]string{
		time.Monday: {"nonsense"},
	}
	bob := worker("bob", time.Monday)
	ix := NewAvailabilityIndex([]model.WorkerRecord{alice, bob})

	slot := timewindow.Window{Start: 540, End: 720}

	// Alice is skipped on Monday, but Bob is unaffected.
	assert.Equal(t, []int{1}, ix.Eligible(time.Monday, slot))

	// Alice remains eligible on Tuesday.
	assert.Equal(t, []int{0}, ix.Eligible(time.Tuesday, slot))

	// The skip is reported once, even across repeated Monday queries.
	ix.Eligible(time.Monday, timewindow.Window{Start: 720, End: 900})
	skips := ix.Skipped()
	require.Len(t, skips, 1)
	assert.Equal(t, "alice", skips[0].WorkerID)
	assert.Equal(t, time.Monday, skips[0].Day)
	assert.Contains(t, skips[0].Detail, "nonsense")
}

func TestEligible_TableOrderPreserved(t *testing.T) {
	ix := NewAvailabilityIndex([]model.WorkerRecord{
		worker("zoe", time.Monday),
		worker("alice", time.Monday),
		worker("bob", time.Monday),
	})

	got := ix.Eligible(time.Monday, timewindow.Window{Start: 540, End: 720})
	assert.Equal(t, []int{0, 1, 2}, got)
}
