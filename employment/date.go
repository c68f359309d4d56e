package employment

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (the engine never cares about clocks)
// =============================================================================

// Date is a calendar date with day granularity, normalized to UTC midnight.
// All engine functions take explicit Date parameters (including the "as of"
// reference date) so calculations stay deterministic and testable.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today is the only place the engine touches the system clock. It exists for
// the adapter layer; pure calculation code must receive an explicit asOf.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date in "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddWeeks(n int) Date  { return d.AddDays(n * 7) }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsWorkday() bool { return !d.IsWeekend() }
func (d Date) IsZero() bool    { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// =============================================================================
// TENURE ARITHMETIC
// =============================================================================

// DaysBetween returns the number of days from `from` to `to`.
// Negative when `to` precedes `from`.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// WholeWeeksBetween returns complete 7-day weeks from `from` to `to`,
// clamped at zero.
func WholeWeeksBetween(from, to Date) int {
	days := DaysBetween(from, to)
	if days < 0 {
		return 0
	}
	return days / 7
}

// WholeMonthsBetween returns complete calendar months from `from` to `to`.
// A month is complete only once the day-of-month has been reached, so
// 2023-01-15 -> 2023-02-14 is 0 months and 2023-01-15 -> 2023-02-15 is 1.
// Clamped at zero: a reference date before `from` is zero tenure, never
// negative.
func WholeMonthsBetween(from, to Date) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// TenureMonths is whole months of continuous employment from startDate to asOf.
func TenureMonths(startDate, asOf Date) int {
	return WholeMonthsBetween(startDate, asOf)
}

// AgeAt returns whole years of age at the reference date.
func AgeAt(dateOfBirth, asOf Date) int {
	return WholeMonthsBetween(dateOfBirth, asOf) / 12
}

// InclusiveDays returns the day count of [start, end] counting both ends.
// The range must already be validated (end >= start).
func InclusiveDays(start, end Date) int {
	return DaysBetween(start, end) + 1
}
