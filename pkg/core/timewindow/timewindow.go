// Package timewindow parses human-entered operating-hours and shift strings
// into minute-granularity windows.
package timewindow

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the number of minutes in one calendar day.
const MinutesPerDay = 24 * 60

// ParseError reports an hours or clock string that could not be understood.
// The offending input is kept so callers can show it to the user.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// Window is a time interval within a day, in minutes since midnight.
// End may exceed MinutesPerDay when the window crosses midnight.
type Window struct {
	Start int
	End   int
}

// Duration returns the window length in minutes.
func (w Window) Duration() int {
	return w.End - w.Start
}

// Overlaps returns true if the two windows share any time.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && o.Start < w.End
}

// Contains returns true if o falls entirely within w.
func (w Window) Contains(o Window) bool {
	return w.Start <= o.Start && o.End <= w.End
}

// Label renders the window as "09:00 - 17:00". Times past midnight wrap,
// so an overnight window renders as "22:00 - 02:00".
func (w Window) Label() string {
	return fmt.Sprintf("%s - %s", FormatClock(w.Start), FormatClock(w.End))
}

// FormatClock renders minutes-since-midnight as "HH:MM", wrapping past 24h.
func FormatClock(minutes int) string {
	minutes %= MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IsClosed reports whether an hours value is the closed sentinel.
// An empty string and any casing of "closed" both count.
func IsClosed(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "closed")
}

// ParseClock converts a single time expression to minutes since midnight.
// Both 24-hour ("9:00", "17:30") and 12-hour forms ("9 AM", "9:30pm") are
// accepted, case-insensitively and with surrounding whitespace tolerated.
func ParseClock(s string) (int, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ParseError{Input: raw, Reason: "empty time"}
	}

	// Peel off an optional meridiem suffix.
	upper := strings.ToUpper(s)
	meridiem := ""
	for _, m := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, m) {
			meridiem = m
			s = strings.TrimSpace(s[:len(s)-2])
			break
		}
	}
	if s == "" {
		return 0, &ParseError{Input: raw, Reason: "missing hour"}
	}

	hourPart, minutePart := s, "0"
	if idx := strings.Index(s, ":"); idx >= 0 {
		hourPart, minutePart = s[:idx], s[idx+1:]
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, &ParseError{Input: raw, Reason: "invalid hour"}
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return 0, &ParseError{Input: raw, Reason: "invalid minute"}
	}

	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, &ParseError{Input: raw, Reason: "hour out of range for AM/PM time"}
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, &ParseError{Input: raw, Reason: "hour out of range for AM/PM time"}
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, &ParseError{Input: raw, Reason: "hour out of range"}
		}
	}

	return hour*60 + minute, nil
}

// ParseWindow converts a free-form hours string such as "9:00-17:00" or
// "2 PM - 9 PM" into a Window. When close is at or before open the window
// is treated as crossing midnight and close is advanced by 24 hours; this
// is deliberate, since overnight operating hours are common.
func ParseWindow(s string) (Window, error) {
	raw := s
	open, close, err := splitWindow(s)
	if err != nil {
		return Window{}, err
	}

	start, err := ParseClock(open)
	if err != nil {
		return Window{}, &ParseError{Input: raw, Reason: err.(*ParseError).Reason}
	}
	end, err := ParseClock(close)
	if err != nil {
		return Window{}, &ParseError{Input: raw, Reason: err.(*ParseError).Reason}
	}

	if end <= start {
		end += MinutesPerDay
	}

	return Window{Start: start, End: end}, nil
}

// splitWindow locates the separator between the two time expressions.
// The separator is a "-" that is not part of either time, so the first
// "-" works for every supported time form.
func splitWindow(s string) (string, string, error) {
	idx := strings.Index(s, "-")
	if idx < 0 {
		return "", "", &ParseError{Input: s, Reason: "no separator between open and close times"}
	}
	open := strings.TrimSpace(s[:idx])
	close := strings.TrimSpace(s[idx+1:])
	if open == "" || close == "" {
		return "", "", &ParseError{Input: s, Reason: "separator present but a time is missing"}
	}
	return open, close, nil
}
