package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// CivilDateTime is a wall-clock date and time with no timezone attached.
// Entry and exit times are always civil: a visitor in Bogotá typing
// 2025-03-01 10:00 means exactly that, wherever the server runs.
type CivilDateTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// ParseCivilDateTime builds a CivilDateTime from a YYYY-MM-DD date and an
// HH:MM (or HH:MM:SS) time. The parts are read as integers; the date string
// is never handed to a zone-aware timestamp parser.
func ParseCivilDateTime(date, clock string) (CivilDateTime, error) {
	y, m, d, err := parseCivilDate(strings.TrimSpace(date))
	if err != nil {
		return CivilDateTime{}, err
	}
	hh, mm, ss, err := parseCivilClock(strings.TrimSpace(clock))
	if err != nil {
		return CivilDateTime{}, err
	}
	return CivilDateTime{Year: y, Month: m, Day: d, Hour: hh, Minute: mm, Second: ss}, nil
}

func parseCivilDate(s string) (int, time.Month, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, 0, 0, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	nums, err := atoiAll(parts)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: %w", s, err)
	}
	y, m, d := nums[0], time.Month(nums[1]), nums[2]
	// time.Date normalises 2025-02-30 to March 2nd; reject instead.
	norm := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if norm.Year() != y || norm.Month() != m || norm.Day() != d {
		return 0, 0, 0, fmt.Errorf("invalid date %q: no such day", s)
	}
	return y, m, d, nil
}

func parseCivilClock(s string) (int, int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	for _, p := range parts {
		if len(p) != 2 {
			return 0, 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
		}
	}
	nums, err := atoiAll(parts)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	hh, mm, ss := nums[0], nums[1], 0
	if len(nums) == 3 {
		ss = nums[2]
	}
	if hh > 23 || mm > 59 || ss > 59 {
		return 0, 0, 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hh, mm, ss, nil
}

func atoiAll(parts []string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		if strings.TrimLeft(p, "0123456789") != "" {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		out[i] = n
	}
	return out, nil
}

// instant places the civil value on a zone without offset changes, so the
// difference between two instants is the civil difference.
func (c CivilDateTime) instant() time.Time {
	return time.Date(c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second, 0, time.UTC)
}

// BillableDays returns the number of days charged for a stay: the elapsed
// time divided by 24h and rounded up, never less than one.
func BillableDays(entry, exit CivilDateTime) int {
	diffMs := exit.instant().Sub(entry.instant()).Milliseconds()
	if diffMs <= 0 {
		return 1
	}
	return int((diffMs + msPerDay - 1) / msPerDay)
}

// ComputeBillableDays is BillableDays over raw form values. Malformed input
// counts as a degenerate stay and bills the one-day minimum.
func ComputeBillableDays(entryDate, entryTime, exitDate, exitTime string) int {
	entry, err := ParseCivilDateTime(entryDate, entryTime)
	if err != nil {
		return 1
	}
	exit, err := ParseCivilDateTime(exitDate, exitTime)
	if err != nil {
		return 1
	}
	return BillableDays(entry, exit)
}
