package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/calebmorten/rostergen/internal/config"
	"github.com/calebmorten/rostergen/pkg/core/model"
	"github.com/calebmorten/rostergen/pkg/core/rostergen"
)

// GenerateRosterResult contains the generated roster plus the headline
// numbers the CLI reports.
type GenerateRosterResult struct {
	Roster        *rostergen.Roster
	SlotCount     int
	FilledCount   int
	OverCapCount  int
	UnfilledCount int
}

// GenerateRoster runs one full generation: week plans from the config
// and start date, an availability index over the worker table, and a
// sequential engine run. The returned roster is complete; regeneration
// replaces it wholesale rather than patching it.
func GenerateRoster(
	cfg *config.Config,
	logger *zap.Logger,
	workers []model.WorkerRecord,
	start time.Time,
) (*GenerateRosterResult, error) {
	logger.Debug("Starting roster generation",
		zap.Int("workers", len(workers)),
		zap.String("policy", cfg.AssignmentPolicy),
		zap.String("slot_mode", cfg.SlotMode))

	if len(workers) == 0 {
		return nil, fmt.Errorf("no workers loaded - import a worker table first")
	}

	// Step 1: derive the seven day plans (hours, overrides, slots)
	plans, err := WeekPlans(cfg, start, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build week plans: %w", err)
	}
	logger.Debug("Week plans built", zap.Int("days", len(plans)))

	// Step 2: selection policy
	policy, err := rostergen.NewPolicy(cfg.AssignmentPolicy, cfg.RandomSeed)
	if err != nil {
		return nil, err
	}

	// Step 3: availability index over the worker table
	index := rostergen.NewAvailabilityIndex(workers)

	// Step 4: engine run
	engine, err := rostergen.NewEngine(rostergen.EngineConfig{
		WeekStart:        cfg.WeekStartDay(),
		MaxShiftsPerDay:  cfg.MaxShiftsPerDay,
		MaxShiftsPerWeek: cfg.MaxShiftsPerWeek,
		MinStaffPerSlot:  cfg.MinStaffPerSlot,
		Policy:           policy,
		BackfillEnabled:  cfg.Backfill(),
	}, index)
	if err != nil {
		return nil, err
	}

	roster := engine.Run(plans)

	result := &GenerateRosterResult{Roster: roster}
	for _, day := range roster.Days {
		for _, slot := range day.Slots {
			result.SlotCount++
			if len(slot.Workers) == 0 {
				result.UnfilledCount++
				continue
			}
			result.FilledCount++
			for _, w := range slot.Workers {
				if w.OverCap {
					result.OverCapCount++
				}
			}
		}
	}

	logger.Info("Roster generated",
		zap.String("run_id", roster.RunID),
		zap.Int("slots", result.SlotCount),
		zap.Int("filled", result.FilledCount),
		zap.Int("unfilled", result.UnfilledCount),
		zap.Int("over_cap", result.OverCapCount),
		zap.Int("skipped_workers", len(roster.Skipped)))

	return result, nil
}
