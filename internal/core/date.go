// Package core holds the domain types shared by every service: calendar
// values, ledger entries, budgets and the amount validation policy.
package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDay   = errors.New("invalid day")
	ErrInvalidMonth = errors.New("invalid month")
	ErrInvalidDate  = errors.New("invalid date")
)

// Day is a calendar day with a defined total order. It deliberately does NOT
// normalize: NewDay(2024, 2, 31) stays February 31st instead of rolling over
// into March. Month bounds rely on this — the upper bound of every month is
// day 31, which is never exceeded by a real day of that month.
type Day struct {
	year  int
	month time.Month
	day   int
}

// NewDay builds a Day from its parts without validation; call Validate to
// check ranges.
func NewDay(year, month, day int) Day {
	return Day{year: year, month: time.Month(month), day: day}
}

// Today returns the current calendar day in UTC.
func Today() Day {
	now := time.Now().UTC()
	return Day{year: now.Year(), month: now.Month(), day: now.Day()}
}

// ParseDay parses a zero-padded ISO date (YYYY-MM-DD).
func ParseDay(s string) (Day, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%4d-%2d-%2d", &y, &m, &d); err != nil || len(s) != 10 {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	day := NewDay(y, m, d)
	if err := day.Validate(); err != nil {
		return Day{}, err
	}
	return day, nil
}

func (d Day) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	if d.day < 1 || d.day > 31 {
		return ErrInvalidDay
	}
	if d.month < 1 || d.month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func (d Day) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// String renders the zero-padded ISO form, so lexicographic order on the
// stored string agrees with the domain order.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

func (d Day) Year() int  { return d.year }
func (d Day) Month() int { return int(d.month) }
func (d Day) Dom() int   { return d.day }

func (d Day) Equal(o Day) bool {
	return d == o
}

func (d Day) Before(o Day) bool {
	if d.year != o.year {
		return d.year < o.year
	}
	if d.month != o.month {
		return d.month < o.month
	}
	return d.day < o.day
}

func (d Day) After(o Day) bool {
	return o.Before(d)
}

// In reports whether the day falls inside the given month.
func (d Day) In(m Month) bool {
	return d.year == m.year && d.month == m.month
}

// Month is a calendar month (YYYY-MM).
type Month struct {
	year  int
	month time.Month
}

func NewMonth(year, month int) Month {
	return Month{year: year, month: time.Month(month)}
}

// ThisMonth returns the current month in UTC.
func ThisMonth() Month {
	now := time.Now().UTC()
	return Month{year: now.Year(), month: now.Month()}
}

// ParseMonth parses the YYYY-MM form.
func ParseMonth(s string) (Month, error) {
	var y, m int
	if _, err := fmt.Sscanf(s, "%4d-%2d", &y, &m); err != nil || len(s) != 7 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	if m < 1 || m > 12 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{year: y, month: time.Month(m)}, nil
}

func (m Month) IsZero() bool {
	return m.year == 0 && m.month == 0
}

func (m Month) Validate() error {
	if m.IsZero() || m.month < 1 || m.month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// String renders the zero-padded YYYY-MM form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, m.month)
}

// Bounds returns the inclusive day range covering the month. The end is
// always day 31: no real day of any month sorts above it, so the bound is
// correct for short months too.
func (m Month) Bounds() (start, end Day) {
	return Day{year: m.year, month: m.month, day: 1}, Day{year: m.year, month: m.month, day: 31}
}
