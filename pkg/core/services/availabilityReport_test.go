package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calebmorten/rostergen/pkg/core/model"
)

func TestAvailabilityReport_ListsEligibleWorkersPerSlot(t *testing.T) {
	workers := []model.WorkerRecord{
		{ID: "alice", DaysAvailable: map[time.Weekday]bool{time.Monday: true}},
		{
			ID:            "bob",
			DaysAvailable: map[time.Weekday]bool{time.Monday: true},
			UnavailableWindows: map[time.Weekday][]string{
				time.Monday: {"9:00-11:00"},
			},
		},
	}

	result, err := AvailabilityReport(baseConfig(), zap.NewNop(), workers, weekStart)
	require.NoError(t, err)

	require.Len(t, result.Days, 7)
	monday := result.Days[1]
	require.Len(t, monday.Slots, 2)

	// Bob's exclusion removes him from the 09:00-11:00 slot only.
	assert.Equal(t, []string{"alice"}, monday.Slots[0].WorkerIDs)
	assert.Equal(t, []string{"alice", "bob"}, monday.Slots[1].WorkerIDs)
}

func TestAvailabilityReport_ReportsSkippedWorkers(t *testing.T) {
	workers := []model.WorkerRecord{
		{
			ID:            "alice",
			DaysAvailable: map[time.Weekday]bool{time.Monday: true},
			AvailableWindows: map[time.Weekday][]string{
				time.Monday: {"whenever suits"},
			},
		},
	}

	result, err := AvailabilityReport(baseConfig(), zap.NewNop(), workers, weekStart)
	require.NoError(t, err)

	monday := result.Days[1]
	for _, slot := range monday.Slots {
		assert.Empty(t, slot.WorkerIDs)
	}

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "alice", result.Skipped[0].WorkerID)
	assert.Equal(t, time.Monday, result.Skipped[0].Day)
}

func TestAvailabilityReport_NoWorkers(t *testing.T) {
	_, err := AvailabilityReport(baseConfig(), zap.NewNop(), nil, weekStart)
	require.Error(t, err)
}
