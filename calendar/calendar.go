/*
Package calendar provides the public-holiday calendar.

PURPOSE:
  A fixed, versioned table of gazetted holidays per jurisdiction-year with
  pure lookup operations. The tables are configuration data, not code: they
  are loaded from YAML (built-in NZ tables are embedded) or supplied by a
  store, so a new gazetted year never touches calculation logic.

CONTRACT:
  IsHoliday(date), InRange(start, end) and NextAfter(date) never fail.
  Dates outside the supported year range produce empty results, not errors;
  a missing table is a data gap to surface in ops, not a crash in a payroll
  calculation.

MONDAYISATION:
  NZ gazettes an observed date when certain holidays fall on a weekend
  (e.g. Christmas Day on a Saturday is observed the following Monday).
  Lookup keys are the observed dates; the holiday record keeps the actual
  date for display.

SEE ALSO:
  - tables.go: YAML table format and the embedded NZ tables
*/
package calendar

import (
	"sort"

	"github.com/warp/compliance-engine/employment"
)

// Scope distinguishes nationwide holidays from provincial anniversary days.
type Scope string

const (
	ScopeNational Scope = "national"
	ScopeRegional Scope = "regional"
)

// PublicHoliday is one gazetted holiday entry.
type PublicHoliday struct {
	Date     employment.Date // gazetted date
	Observed employment.Date // mondayised date; zero when observed on the day
	Name     string
	Scope    Scope
	Region   string // set for regional holidays
}

// ObservedOn is the date the holiday is taken, after mondayisation.
func (h PublicHoliday) ObservedOn() employment.Date {
	if h.Observed.IsZero() {
		return h.Date
	}
	return h.Observed
}

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar is an immutable holiday lookup over one or more year tables.
type Calendar struct {
	jurisdiction string
	holidays     []PublicHoliday // ascending by observed date
	byDay        map[string]int  // observed date string -> index into holidays
	minYear      int
	maxYear      int
}

// New builds a calendar from year tables. Tables may arrive in any order;
// entries are sorted by observed date.
func New(jurisdiction string, tables ...Table) *Calendar {
	c := &Calendar{
		jurisdiction: jurisdiction,
		byDay:        make(map[string]int),
	}
	for _, t := range tables {
		c.holidays = append(c.holidays, t.Holidays...)
		if c.minYear == 0 || t.Year < c.minYear {
			c.minYear = t.Year
		}
		if t.Year > c.maxYear {
			c.maxYear = t.Year
		}
	}
	sort.Slice(c.holidays, func(i, j int) bool {
		return c.holidays[i].ObservedOn().Before(c.holidays[j].ObservedOn())
	})
	for i, h := range c.holidays {
		c.byDay[h.ObservedOn().String()] = i
	}
	return c
}

// Jurisdiction returns the jurisdiction code the tables were gazetted for.
func (c *Calendar) Jurisdiction() string { return c.jurisdiction }

// SupportedYears returns the inclusive year range covered by loaded tables.
func (c *Calendar) SupportedYears() (min, max int) { return c.minYear, c.maxYear }

// IsHoliday reports whether the date is an observed public holiday.
// Dates outside the supported range are simply not holidays.
func (c *Calendar) IsHoliday(date employment.Date) bool {
	_, ok := c.byDay[date.String()]
	return ok
}

// Lookup returns the holiday observed on the given date, if any.
func (c *Calendar) Lookup(date employment.Date) (PublicHoliday, bool) {
	i, ok := c.byDay[date.String()]
	if !ok {
		return PublicHoliday{}, false
	}
	return c.holidays[i], true
}

// InRange returns holidays observed within [start, end], both ends
// inclusive, ascending by date. An inverted or out-of-range window yields
// an empty slice.
func (c *Calendar) InRange(start, end employment.Date) []PublicHoliday {
	var out []PublicHoliday
	for _, h := range c.holidays {
		on := h.ObservedOn()
		if on.Before(start) {
			continue
		}
		if on.After(end) {
			break
		}
		out = append(out, h)
	}
	return out
}

// CountInRange is InRange without allocating the slice.
func (c *Calendar) CountInRange(start, end employment.Date) int {
	n := 0
	for _, h := range c.holidays {
		on := h.ObservedOn()
		if on.Before(start) {
			continue
		}
		if on.After(end) {
			break
		}
		n++
	}
	return n
}

// NextAfter returns the first holiday observed strictly after the date.
// The second return is false when no later holiday is in the loaded tables.
func (c *Calendar) NextAfter(date employment.Date) (PublicHoliday, bool) {
	i := sort.Search(len(c.holidays), func(i int) bool {
		return c.holidays[i].ObservedOn().After(date)
	})
	if i == len(c.holidays) {
		return PublicHoliday{}, false
	}
	return c.holidays[i], true
}
