package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/calebmorten/rostergen/internal/config"
	"github.com/calebmorten/rostergen/pkg/core/model"
	"github.com/calebmorten/rostergen/pkg/core/rostergen"
)

// SlotAvailability lists who could legally work one slot, before any
// assignment or cap filtering.
type SlotAvailability struct {
	Slot      rostergen.Slot
	WorkerIDs []string
}

// DayAvailability is one day of the availability report.
type DayAvailability struct {
	Day      time.Weekday
	Date     time.Time
	Closed   bool
	HoursErr string
	Slots    []SlotAvailability
}

// AvailabilityReportResult is the full who-is-available view of a week.
type AvailabilityReportResult struct {
	Days    []DayAvailability
	Skipped []rostergen.WorkerSkip
}

// AvailabilityReport answers "who is available" for every slot of the
// week without assigning anyone, using the same eligibility rules as
// generation.
func AvailabilityReport(
	cfg *config.Config,
	logger *zap.Logger,
	workers []model.WorkerRecord,
	start time.Time,
) (*AvailabilityReportResult, error) {
	logger.Debug("Building availability report", zap.Int("workers", len(workers)))

	if len(workers) == 0 {
		return nil, fmt.Errorf("no workers loaded - import a worker table first")
	}

	plans, err := WeekPlans(cfg, start, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build week plans: %w", err)
	}

	index := rostergen.NewAvailabilityIndex(workers)

	result := &AvailabilityReportResult{}
	for _, plan := range plans {
		day := DayAvailability{
			Day:      plan.Day,
			Date:     plan.Date,
			Closed:   plan.Closed,
			HoursErr: plan.HoursErr,
		}

		for _, slot := range plan.Slots {
			sa := SlotAvailability{Slot: slot}
			for _, idx := range index.Eligible(slot.Day, slot.Window) {
				sa.WorkerIDs = append(sa.WorkerIDs, workers[idx].ID)
			}
			day.Slots = append(day.Slots, sa)
		}

		result.Days = append(result.Days, day)
	}

	result.Skipped = index.Skipped()

	logger.Debug("Availability report built", zap.Int("days", len(result.Days)))
	return result, nil
}
