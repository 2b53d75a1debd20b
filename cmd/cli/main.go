package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calebmorten/rostergen/internal/config"
	"github.com/calebmorten/rostergen/pkg/core/model"
	"github.com/calebmorten/rostergen/pkg/core/rostergen"
	"github.com/calebmorten/rostergen/pkg/core/services"
	"github.com/calebmorten/rostergen/pkg/utils/logging"
	"github.com/calebmorten/rostergen/pkg/workertable"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	logger *zap.Logger
}

var (
	env        string
	configPath string
	app        *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rostergen",
		Short: "Rostergen CLI - Generate weekly shift rosters",
		Long:  `A CLI tool for generating availability-constrained weekly shift rosters from an imported worker table.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "local", "Environment name used to tag log files")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to roster_config.yaml (default: search cwd then home)")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(availabilityCmd())
	rootCmd.AddCommand(listWorkersCmd())
	rootCmd.AddCommand(checkConfigCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up the logger and loads configuration
func initApp() error {
	var err error
	app = &App{}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Debug("Loading configuration")
	if configPath != "" {
		app.cfg, err = config.LoadFromPath(configPath)
	} else {
		app.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	return nil
}

// loadTable reads the worker table and prints any skipped rows
func loadTable(path string) (*workertable.Table, error) {
	table, err := workertable.Load(path)
	if err != nil {
		return nil, err
	}

	if len(table.Issues) > 0 {
		fmt.Printf("⚠️  Skipped %d malformed rows:\n", len(table.Issues))
		for _, issue := range table.Issues {
			fmt.Printf("  ✗ row %d: %s\n", issue.Row, issue.Detail)
		}
		fmt.Println()
	}

	return table, nil
}

func parseStartFlag(start string) (time.Time, error) {
	if start == "" {
		return time.Now().UTC(), nil
	}
	date, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, fmt.Errorf("start date must be YYYY-MM-DD: %w", err)
	}
	return date, nil
}

// Command definitions

func generateCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "generate <workers.csv>",
		Short: "Generate a weekly roster from a worker table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0])
			if err != nil {
				return err
			}

			startDate, err := parseStartFlag(start)
			if err != nil {
				return err
			}

			result, err := services.GenerateRoster(app.cfg, app.logger, table.Workers, startDate)
			if err != nil {
				return err
			}

			printRoster(result.Roster, table.Workers)

			fmt.Printf("✓ Roster generated: %d/%d slots filled", result.FilledCount, result.SlotCount)
			if result.OverCapCount > 0 {
				fmt.Printf(", %d over-cap backfills", result.OverCapCount)
			}
			fmt.Printf("\n  Run ID: %s\n\n", result.Roster.RunID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "Week start date (YYYY-MM-DD, snapped forward to the configured weekStart; default today)")
	return cmd
}

func availabilityCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "availability <workers.csv>",
		Short: "Show which workers are eligible for each slot, without assigning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0])
			if err != nil {
				return err
			}

			startDate, err := parseStartFlag(start)
			if err != nil {
				return err
			}

			result, err := services.AvailabilityReport(app.cfg, app.logger, table.Workers, startDate)
			if err != nil {
				return err
			}

			names := workerNames(table.Workers)
			fmt.Printf("\nWho is available\n\n")
			for _, day := range result.Days {
				printDayHeader(day.Day, day.Date, day.Closed, day.HoursErr)
				for _, slot := range day.Slots {
					if len(slot.WorkerIDs) == 0 {
						fmt.Printf("  %s: (nobody)\n", slot.Slot.Label)
						continue
					}
					display := make([]string, len(slot.WorkerIDs))
					for i, id := range slot.WorkerIDs {
						display[i] = names[id]
					}
					fmt.Printf("  %s: %s\n", slot.Slot.Label, strings.Join(display, ", "))
				}
				fmt.Println()
			}

			printSkips(result.Skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "Week start date (YYYY-MM-DD; default today)")
	return cmd
}

func listWorkersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listWorkers <workers.csv>",
		Short: "List the parsed worker table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n%d workers loaded:\n\n", len(table.Workers))
			for _, w := range table.Workers {
				days := make([]string, 0, len(w.DaysAvailable))
				for _, d := range model.Weekdays {
					if w.DaysAvailable[d] {
						days = append(days, d.String()[:3])
					}
				}
				fmt.Printf("  %s (%s) - %s", w.DisplayName(), w.ID, strings.Join(days, ", "))
				if w.MaxShiftMinutes > 0 {
					fmt.Printf(" [max shift %dh%02dm]", w.MaxShiftMinutes/60, w.MaxShiftMinutes%60)
				}
				fmt.Println()
			}
			fmt.Println()

			return nil
		},
	}
}

func checkConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkConfig",
		Short: "Validate the configuration and show the resolved weekly slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg

			fmt.Printf("\n✓ Configuration is valid\n\n")
			fmt.Printf("Week start:  %s\n", cfg.WeekStartDay())
			fmt.Printf("Slot mode:   %s\n", cfg.SlotMode)
			fmt.Printf("Policy:      %s\n", cfg.AssignmentPolicy)
			fmt.Printf("Caps:        %d/day", cfg.MaxShiftsPerDay)
			if cfg.MaxShiftsPerWeek > 0 {
				fmt.Printf(", %d/week", cfg.MaxShiftsPerWeek)
			}
			fmt.Printf("\nMin staff:   %d\n", cfg.MinStaffPerSlot)
			fmt.Printf("Backfill:    %v\n\n", cfg.Backfill())

			plans, err := services.WeekPlans(cfg, time.Now().UTC(), app.logger)
			if err != nil {
				return err
			}

			fmt.Printf("Resolved slots for the coming week:\n\n")
			for _, plan := range plans {
				printDayHeader(plan.Day, plan.Date, plan.Closed, plan.HoursErr)
				for _, slot := range plan.Slots {
					fmt.Printf("  %s\n", slot.Label)
				}
			}
			fmt.Println()

			return nil
		},
	}
}

func interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (load config once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without reloading configuration.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\n🚀 Starting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts, err := parseCommandLine(line)
				if err != nil {
					fmt.Printf("❌ Error: %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}
				cmdName := parts[0]
				cmdArgs := parts[1:]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("👋 Goodbye!")
					return nil
				}

				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full Execute() flow
				// This avoids re-running PersistentPreRunE which would call initApp() again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("❌ Error parsing flags: %v\n\n", err)
					continue
				}

				cmdArgs = targetCmd.Flags().Args()

				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("❌ Error: %v\n\n", err)
					continue
				}

				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("❌ Error: %v\n\n", err)
					}
				} else if targetCmd.Run != nil {
					targetCmd.Run(targetCmd, cmdArgs)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}
}

// parseCommandLine splits a command line into arguments, respecting quoted strings
// Supports both single and double quotes
func parseCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	var inQuote rune // 0 if not in quote, '"' or '\'' if in quote

	for i, r := range line {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = r
		case unicode.IsSpace(r):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}

		if i == len(line)-1 && inQuote != 0 {
			return nil, fmt.Errorf("unclosed quote: %c", inQuote)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args, nil
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-30s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                           Show this help message")
	fmt.Println("  exit, quit                     Exit the interactive session")
}

// Output helpers

func workerNames(workers []model.WorkerRecord) map[string]string {
	names := make(map[string]string, len(workers))
	for _, w := range workers {
		names[w.ID] = w.DisplayName()
	}
	return names
}

func printDayHeader(day time.Weekday, date time.Time, closed bool, hoursErr string) {
	fmt.Printf("%s %s\n", day, date.Format("2006-01-02"))
	if closed {
		fmt.Printf("  (closed)\n")
	}
	if hoursErr != "" {
		fmt.Printf("  ⚠️  day skipped: %s\n", hoursErr)
	}
}

func printRoster(roster *rostergen.Roster, workers []model.WorkerRecord) {
	names := workerNames(workers)

	fmt.Printf("\nWeekly roster\n\n")
	for _, day := range roster.Days {
		printDayHeader(day.Day, day.Date, day.Closed, day.HoursErr)
		for _, slot := range day.Slots {
			if len(slot.Workers) == 0 {
				fmt.Printf("  %s: - %s\n", slot.Slot.Label, slot.Reason)
				continue
			}

			parts := make([]string, len(slot.Workers))
			for i, w := range slot.Workers {
				parts[i] = names[w.WorkerID]
				if w.OverCap {
					caps := make([]string, len(w.ExceededCaps))
					for j, c := range w.ExceededCaps {
						caps[j] = string(c)
					}
					parts[i] += fmt.Sprintf(" (over cap: %s)", strings.Join(caps, ", "))
				}
			}
			fmt.Printf("  %s: %s", slot.Slot.Label, strings.Join(parts, ", "))
			if slot.UnderMinimum {
				fmt.Printf("  [under minimum]")
			}
			fmt.Println()
		}
		fmt.Println()
	}

	printSkips(roster.Skipped)
}

func printSkips(skips []rostergen.WorkerSkip) {
	if len(skips) == 0 {
		return
	}
	fmt.Printf("⚠️  Workers skipped for individual days:\n")
	for _, s := range skips {
		fmt.Printf("  ✗ %s on %s: %s\n", s.WorkerID, s.Day, s.Detail)
	}
	fmt.Println()
}
