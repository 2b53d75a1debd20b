// Package workertable loads the imported worker spreadsheet (as CSV) into
// WorkerRecords. The loader owns column validation; the core trusts that
// a loaded table has its fields populated or explicitly absent.
package workertable

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/calebmorten/rostergen/pkg/core/model"
)

// Required column headers, matched case-insensitively.
const (
	ColFirstName     = "First Name"
	ColLastName      = "Last Name"
	ColEmail         = "Email"
	ColDaysAvailable = "Days Available"
)

// Optional column headers.
const (
	ColAvailableWindows   = "Available Windows"
	ColUnavailableWindows = "Unavailable Windows"
	ColMaxShiftHours      = "Max Shift Hours"
	ColMaxShiftsPerDay    = "Max Shifts Per Day"
	ColMaxShiftsPerWeek   = "Max Shifts Per Week"
)

var requiredColumns = []string{ColFirstName, ColLastName, ColEmail, ColDaysAvailable}

var validate = validator.New()

// rawRow is the shape handed to struct validation before conversion.
type rawRow struct {
	FirstName     string `validate:"required"`
	LastName      string `validate:"required"`
	Email         string `validate:"omitempty,email"`
	DaysAvailable string `validate:"required"`
}

// RowIssue reports a row that could not be converted to a WorkerRecord.
// The row is skipped; the rest of the table loads.
type RowIssue struct {
	Row    int // 1-based, counting the header as row 1
	Detail string
}

// Table is the result of one load. Workers preserves file order, which is
// the tie-break order for assignment policies downstream.
type Table struct {
	Workers []model.WorkerRecord
	Issues  []RowIssue
}

// Load reads and parses a worker table CSV from disk.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open worker table: %w", err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse worker table %s: %w", path, err)
	}
	return table, nil
}

// Parse reads a worker table from r. A missing required column or a
// duplicate worker identifier fails the whole load; individual malformed
// rows are skipped and reported as Issues.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Ragged rows are a per-row problem, not a file problem: field lookups
	// guard short records, so a row missing required fields lands in Issues.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	table := &Table{}
	seen := make(map[string]int)

	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNum, err)
		}

		worker, issue := convertRow(columns, record)
		if issue != "" {
			table.Issues = append(table.Issues, RowIssue{Row: rowNum, Detail: issue})
			continue
		}

		if prev, dup := seen[worker.ID]; dup {
			return nil, fmt.Errorf("duplicate worker %q on rows %d and %d", worker.ID, prev, rowNum)
		}
		seen[worker.ID] = rowNum
		table.Workers = append(table.Workers, worker)
	}

	return table, nil
}

// mapColumns resolves header names to indices and reports every missing
// required column by name, not just the first.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("worker table is missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func field(columns map[string]int, record []string, name string) string {
	idx, ok := columns[strings.ToLower(name)]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// convertRow builds one WorkerRecord, returning a non-empty issue string
// when the row is malformed.
func convertRow(columns map[string]int, record []string) (model.WorkerRecord, string) {
	raw := rawRow{
		FirstName:     field(columns, record, ColFirstName),
		LastName:      field(columns, record, ColLastName),
		Email:         field(columns, record, ColEmail),
		DaysAvailable: field(columns, record, ColDaysAvailable),
	}
	if err := validate.Struct(raw); err != nil {
		return model.WorkerRecord{}, fmt.Sprintf("invalid row: %v", err)
	}

	days, err := parseDaySet(raw.DaysAvailable)
	if err != nil {
		return model.WorkerRecord{}, err.Error()
	}

	available, err := parseWindowColumn(field(columns, record, ColAvailableWindows))
	if err != nil {
		return model.WorkerRecord{}, fmt.Sprintf("available windows: %v", err)
	}
	unavailable, err := parseWindowColumn(field(columns, record, ColUnavailableWindows))
	if err != nil {
		return model.WorkerRecord{}, fmt.Sprintf("unavailable windows: %v", err)
	}

	maxShiftMinutes, err := parseShiftHours(field(columns, record, ColMaxShiftHours))
	if err != nil {
		return model.WorkerRecord{}, err.Error()
	}
	maxPerDay, err := parseOptionalInt(field(columns, record, ColMaxShiftsPerDay), ColMaxShiftsPerDay)
	if err != nil {
		return model.WorkerRecord{}, err.Error()
	}
	maxPerWeek, err := parseOptionalInt(field(columns, record, ColMaxShiftsPerWeek), ColMaxShiftsPerWeek)
	if err != nil {
		return model.WorkerRecord{}, err.Error()
	}

	worker := model.WorkerRecord{
		ID:                 workerID(raw),
		FirstName:          raw.FirstName,
		LastName:           raw.LastName,
		Email:              raw.Email,
		DaysAvailable:      days,
		AvailableWindows:   available,
		UnavailableWindows: unavailable,
		MaxShiftMinutes:    maxShiftMinutes,
		MaxShiftsPerDay:    maxPerDay,
		MaxShiftsPerWeek:   maxPerWeek,
	}
	return worker, ""
}

// workerID derives the unique identifier: the email when present,
// otherwise the full name.
func workerID(raw rawRow) string {
	if raw.Email != "" {
		return strings.ToLower(raw.Email)
	}
	return raw.FirstName + " " + raw.LastName
}

// parseDaySet parses "Monday, Wednesday, Fri" into a weekday set.
func parseDaySet(s string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, err := model.ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days[day] = true
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no available days listed")
	}
	return days, nil
}

// parseWindowColumn parses "Mon 9:00-12:00; Tue 2 PM - 5 PM" into per-day
// window strings. The time part is kept raw; it is parsed per run so a bad
// window costs the worker one day, not the whole load.
func parseWindowColumn(s string) (map[time.Weekday][]string, error) {
	if s == "" {
		return nil, nil
	}
	windows := make(map[time.Weekday][]string)
	for _, entry := range strings.Split(s, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		dayToken, rest, found := strings.Cut(entry, " ")
		if !found {
			return nil, fmt.Errorf("window entry %q has no time range", entry)
		}
		day, err := model.ParseWeekday(dayToken)
		if err != nil {
			return nil, err
		}
		windows[day] = append(windows[day], strings.TrimSpace(rest))
	}
	return windows, nil
}

func parseShiftHours(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil || hours <= 0 {
		return 0, fmt.Errorf("invalid %s value %q", ColMaxShiftHours, s)
	}
	return int(math.Round(hours * 60)), nil
}

func parseOptionalInt(s, column string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s value %q", column, s)
	}
	return n, nil
}
