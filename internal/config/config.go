package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/calebmorten/rostergen/pkg/core/model"
	"github.com/calebmorten/rostergen/pkg/core/rostergen"
	"github.com/calebmorten/rostergen/pkg/core/timewindow"
)

// DateOverride adjusts generation for concrete dates matching an rrule,
// e.g. closing on public holidays or raising minimum staff on the first
// Saturday of the month.
type DateOverride struct {
	RRule string `yaml:"rrule" validate:"required"`

	// Closed marks matching dates as not operating.
	Closed bool `yaml:"closed,omitempty"`

	// Hours replaces the weekday's hours string on matching dates.
	Hours string `yaml:"hours,omitempty"`

	// MinStaff overrides minStaffPerSlot on matching dates.
	MinStaff *int `yaml:"minStaff,omitempty" validate:"omitempty,min=1"`
}

// Config represents the application configuration.
type Config struct {
	WeekStart string            `yaml:"weekStart,omitempty" validate:"omitempty,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Hours     map[string]string `yaml:"hours" validate:"required"`

	SlotMode          string              `yaml:"slotMode" validate:"required,oneof=fixed-duration explicit-table"`
	SlotLengthMinutes int                 `yaml:"slotLengthMinutes,omitempty" validate:"omitempty,min=15"`
	ExplicitSlots     map[string][]string `yaml:"explicitSlots,omitempty"`

	MaxShiftsPerDay  int `yaml:"maxShiftsPerDay,omitempty" validate:"omitempty,min=1"`
	MaxShiftsPerWeek int `yaml:"maxShiftsPerWeek,omitempty" validate:"omitempty,min=1"`
	MinStaffPerSlot  int `yaml:"minStaffPerSlot,omitempty" validate:"omitempty,min=1"`

	AssignmentPolicy string `yaml:"assignmentPolicy,omitempty" validate:"omitempty,oneof=queue weighted-random first-eligible"`
	RandomSeed       int64  `yaml:"randomSeed,omitempty"`

	// BackfillEnabled defaults to true; a pointer distinguishes "unset"
	// from an explicit false.
	BackfillEnabled *bool `yaml:"backfillEnabled,omitempty"`

	Overrides []DateOverride `yaml:"overrides,omitempty" validate:"dive"`
}

const configFileName = "roster_config.yaml"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from roster_config.yaml,
// searching the current directory first and then the user's home
// directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.WeekStart == "" {
		c.WeekStart = "Sunday"
	}
	if c.MaxShiftsPerDay == 0 {
		c.MaxShiftsPerDay = 1
	}
	if c.MinStaffPerSlot == 0 {
		c.MinStaffPerSlot = 1
	}
	if c.AssignmentPolicy == "" {
		c.AssignmentPolicy = rostergen.PolicyQueue
	}
	if c.BackfillEnabled == nil {
		enabled := true
		c.BackfillEnabled = &enabled
	}
}

// Validate runs struct validation plus the cross-field checks: slot mode
// prerequisites, weekday keys, and rrule syntax. Violations are fatal
// before any assignment begins.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for day := range cfg.Hours {
		if _, err := model.ParseWeekday(day); err != nil {
			return fmt.Errorf("invalid day %q in hours: %w", day, err)
		}
	}

	switch rostergen.SlotMode(cfg.SlotMode) {
	case rostergen.SlotModeFixedDuration:
		if cfg.SlotLengthMinutes == 0 {
			return &rostergen.ConfigError{Detail: "fixed-duration mode requires slotLengthMinutes"}
		}
	case rostergen.SlotModeExplicitTable:
		if len(cfg.ExplicitSlots) == 0 {
			return &rostergen.ConfigError{Detail: "explicit-table mode requires explicitSlots"}
		}
		for day := range cfg.ExplicitSlots {
			if _, err := model.ParseWeekday(day); err != nil {
				return fmt.Errorf("invalid day %q in explicitSlots: %w", day, err)
			}
		}
	}

	for i, override := range cfg.Overrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in overrides[%d]: %w", i, err)
		}
		if override.Hours != "" && !timewindow.IsClosed(override.Hours) {
			if _, err := timewindow.ParseWindow(override.Hours); err != nil {
				return fmt.Errorf("invalid hours in overrides[%d]: %w", i, err)
			}
		}
	}

	return nil
}

// OperatingHours converts the config's day-name keys to weekdays.
// Validate must have passed first.
func (c *Config) OperatingHours() model.OperatingHours {
	hours := make(model.OperatingHours, len(c.Hours))
	for day, value := range c.Hours {
		weekday, err := model.ParseWeekday(day)
		if err != nil {
			continue
		}
		hours[weekday] = value
	}
	return hours
}

// ExplicitSlotTable converts explicitSlots keys to weekdays.
// Validate must have passed first.
func (c *Config) ExplicitSlotTable() map[time.Weekday][]string {
	table := make(map[time.Weekday][]string, len(c.ExplicitSlots))
	for day, labels := range c.ExplicitSlots {
		weekday, err := model.ParseWeekday(day)
		if err != nil {
			continue
		}
		table[weekday] = labels
	}
	return table
}

// WeekStartDay returns the configured week start as a weekday.
func (c *Config) WeekStartDay() time.Weekday {
	day, err := model.ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return day
}

// Backfill reports whether over-cap backfill is enabled.
func (c *Config) Backfill() bool {
	return c.BackfillEnabled == nil || *c.BackfillEnabled
}

// findConfigFile searches for roster_config.yaml in the current directory
// and the home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
