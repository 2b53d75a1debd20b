package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/calebmorten/rostergen/internal/config"
	"github.com/calebmorten/rostergen/pkg/core/rostergen"
	"github.com/calebmorten/rostergen/pkg/core/timewindow"
)

// overrideDTStart anchors rrules that carry no DTSTART of their own, so
// matching works for any roster week and stays deterministic.
var overrideDTStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// WeekStartDate snaps a date forward to the configured week start.
// The date itself is kept when it already falls on the week start.
func WeekStartDate(start time.Time, weekStart time.Weekday) time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(weekStart) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}

// dayAdjustment is the merged effect of all overrides matching one date.
type dayAdjustment struct {
	closed   bool
	hours    string
	minStaff int
}

// matchOverrides evaluates the configured rrule overrides against one
// concrete date. Later overrides win when they conflict.
func matchOverrides(overrides []config.DateOverride, date time.Time) (dayAdjustment, error) {
	var adj dayAdjustment

	dayStart := date
	dayEnd := date.Add(24*time.Hour - time.Second)

	for i, override := range overrides {
		rule, err := rrule.StrToRRule(override.RRule)
		if err != nil {
			return adj, fmt.Errorf("invalid rrule in overrides[%d]: %w", i, err)
		}
		rule.DTStart(overrideDTStart)

		if len(rule.Between(dayStart, dayEnd, true)) == 0 {
			continue
		}

		if override.Closed {
			adj.closed = true
		}
		if override.Hours != "" {
			adj.hours = override.Hours
		}
		if override.MinStaff != nil {
			adj.minStaff = *override.MinStaff
		}
	}

	return adj, nil
}

// WeekPlans derives the seven day plans for the week beginning at
// start: operating hours (with date overrides applied), then slots per
// the configured mode. A day whose hours string fails to parse is
// recorded with the error and no slots; other days continue. An invalid
// explicit slot table is fatal, raised before any assignment begins.
func WeekPlans(cfg *config.Config, start time.Time, logger *zap.Logger) ([]rostergen.DayPlan, error) {
	weekStart := WeekStartDate(start, cfg.WeekStartDay())
	hours := cfg.OperatingHours()
	explicit := cfg.ExplicitSlotTable()

	plans := make([]rostergen.DayPlan, 0, 7)
	for i := 0; i < 7; i++ {
		date := weekStart.AddDate(0, 0, i)
		day := date.Weekday()
		plan := rostergen.DayPlan{Day: day, Date: date}

		adj, err := matchOverrides(cfg.Overrides, date)
		if err != nil {
			return nil, err
		}
		plan.MinStaff = adj.minStaff

		raw, operates := hours[day]
		if adj.hours != "" {
			raw, operates = adj.hours, true
		}
		if adj.closed || !operates || timewindow.IsClosed(raw) {
			plan.Closed = true
			plans = append(plans, plan)
			continue
		}

		window, err := timewindow.ParseWindow(raw)
		if err != nil {
			logger.Warn("Skipping day with unparsable hours",
				zap.String("day", day.String()),
				zap.String("hours", raw),
				zap.Error(err))
			plan.HoursErr = err.Error()
			plans = append(plans, plan)
			continue
		}

		switch rostergen.SlotMode(cfg.SlotMode) {
		case rostergen.SlotModeFixedDuration:
			plan.Slots = rostergen.FixedSlots(day, date, window, cfg.SlotLengthMinutes)
		case rostergen.SlotModeExplicitTable:
			labels, ok := explicit[day]
			if !ok {
				// No table entry for an operating day: nothing to staff.
				plan.Closed = true
				plans = append(plans, plan)
				continue
			}
			slots, err := rostergen.TableSlots(day, date, labels)
			if err != nil {
				var cfgErr *rostergen.ConfigError
				if errors.As(err, &cfgErr) {
					return nil, err
				}
				logger.Warn("Skipping day with unparsable slot table",
					zap.String("day", day.String()),
					zap.Error(err))
				plan.HoursErr = err.Error()
				plans = append(plans, plan)
				continue
			}
			plan.Slots = slots
		default:
			return nil, &rostergen.ConfigError{Detail: fmt.Sprintf("unknown slot mode %q", cfg.SlotMode)}
		}

		plans = append(plans, plan)
	}

	return plans, nil
}
