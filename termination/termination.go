/*
Package termination produces final-pay breakdowns and notice-period
adequacy checks.

PURPOSE:
  Converts a salary at any pay frequency to a common daily rate, then
  builds the four final-pay line items in a fixed order:

    1. Final Salary     one full pay-period equivalent
    2. Unused Leave     unused annual-leave hours at the hourly rate
    3. Public Holidays  observed holidays inside the notice window
    4. Notice Period    non-weekend days inside the notice window

PRECISION:
  All amounts stay exact decimals through the computation. Rounding to
  currency precision happens only where output is formatted, never inside
  the calculation.

NOTICE ADEQUACY:
  Permanent employment requires 7, 14 or 28 days notice by tenure band;
  fixed-term is a flat 14 days and casual a flat 1 day.
*/
package termination

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/calendar"
	"github.com/warp/compliance-engine/employment"
)

// =============================================================================
// RULES
// =============================================================================

// NoticeBand maps a minimum tenure to a required notice period.
type NoticeBand struct {
	MinTenureMonths    int
	RequiredNoticeDays int
}

// Rules carries the termination constants for one jurisdiction.
type Rules struct {
	// Permanent-employment notice bands, ascending by tenure. The last
	// band whose MinTenureMonths is <= tenure applies.
	PermanentNoticeBands []NoticeBand
	FixedTermNoticeDays  int
	CasualNoticeDays     int

	// Working-pattern defaults used when the caller does not override.
	DefaultWorkingDaysPerWeek int
	DefaultHoursPerDay        int
}

// NZRules returns the New Zealand values.
func NZRules() Rules {
	return Rules{
		PermanentNoticeBands: []NoticeBand{
			{MinTenureMonths: 0, RequiredNoticeDays: 7},
			{MinTenureMonths: 6, RequiredNoticeDays: 14},
			{MinTenureMonths: 12, RequiredNoticeDays: 28},
		},
		FixedTermNoticeDays:       14,
		CasualNoticeDays:          1,
		DefaultWorkingDaysPerWeek: 5,
		DefaultHoursPerDay:        8,
	}
}

// =============================================================================
// BREAKDOWN
// =============================================================================

// Line-item categories, in the fixed output order.
const (
	CategoryFinalSalary    = "final_salary"
	CategoryUnusedLeave    = "unused_leave"
	CategoryPublicHolidays = "public_holidays"
	CategoryNoticePeriod   = "notice_period"
)

// LineItem is one component of the final pay.
type LineItem struct {
	Category string
	Amount   decimal.Decimal
	Details  string
}

// Breakdown is the ordered final-pay result. Amounts are exact; use
// FormatAmount at the presentation boundary.
type Breakdown struct {
	DailyRate decimal.Decimal
	Items     []LineItem
	Total     decimal.Decimal
}

// FormatAmount renders an exact amount at currency precision. This is the
// only place rounding happens.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// NoticeValidation is the notice-adequacy verdict.
type NoticeValidation struct {
	IsValid            bool
	RequiredNoticeDays int
	ShortfallDays      int
}

// Input is the full set of termination facts. WorkingDaysPerWeek and
// HoursPerDay fall back to the rule defaults when zero.
type Input struct {
	LastWorkingDay     employment.Date
	Salary             employment.SalaryRate
	UnusedLeaveHours   decimal.Decimal
	NoticePeriodDays   int
	WorkingDaysPerWeek int
	HoursPerDay        int
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes final pay against a holiday calendar.
type Calculator struct {
	Rules    Rules
	Calendar *calendar.Calendar
}

func NewCalculator(rules Rules, cal *calendar.Calendar) *Calculator {
	return &Calculator{Rules: rules, Calendar: cal}
}

// DailyRate normalizes a salary to a per-working-day amount.
func (c *Calculator) DailyRate(salary employment.SalaryRate, workingDaysPerWeek, hoursPerDay int) (decimal.Decimal, error) {
	if err := salary.Validate(); err != nil {
		return decimal.Zero, err
	}

	days := decimal.NewFromInt(int64(workingDaysPerWeek))
	switch salary.Frequency {
	case employment.PayHourly:
		return salary.Amount.Mul(decimal.NewFromInt(int64(hoursPerDay))), nil
	case employment.PayWeekly:
		return salary.Amount.Div(days), nil
	case employment.PayFortnightly:
		return salary.Amount.Div(decimal.NewFromInt(2)).Div(days), nil
	case employment.PayMonthly:
		return salary.Amount.Mul(decimal.NewFromInt(12)).Div(days.Mul(decimal.NewFromInt(52))), nil
	case employment.PayAnnually:
		return salary.Amount.Div(days.Mul(decimal.NewFromInt(52))), nil
	}
	// unreachable: Validate rejects unknown frequencies
	return decimal.Zero, &employment.ValidationError{
		Field:  "salary.frequency",
		Reason: "unknown pay frequency " + string(salary.Frequency),
		Err:    employment.ErrUnknownEnum,
	}
}

// Calculate produces the final-pay breakdown. Structural problems (negative
// salary, negative unused leave, negative notice period) abort with a
// ValidationError; every well-formed input yields a breakdown.
func (c *Calculator) Calculate(in Input) (Breakdown, error) {
	if in.UnusedLeaveHours.IsNegative() {
		return Breakdown{}, &employment.ValidationError{
			Field:  "unusedLeaveHours",
			Reason: "unused leave hours must not be negative",
			Err:    employment.ErrNegativeAmount,
		}
	}
	if in.NoticePeriodDays < 0 {
		return Breakdown{}, &employment.ValidationError{
			Field:  "noticePeriodDays",
			Reason: "notice period days must not be negative",
			Err:    employment.ErrNegativeAmount,
		}
	}

	workingDaysPerWeek := in.WorkingDaysPerWeek
	if workingDaysPerWeek == 0 {
		workingDaysPerWeek = c.Rules.DefaultWorkingDaysPerWeek
	}
	hoursPerDay := in.HoursPerDay
	if hoursPerDay == 0 {
		hoursPerDay = c.Rules.DefaultHoursPerDay
	}

	dailyRate, err := c.DailyRate(in.Salary, workingDaysPerWeek, hoursPerDay)
	if err != nil {
		return Breakdown{}, err
	}

	// Notice window: the NoticePeriodDays calendar days after the last
	// working day.
	windowStart := in.LastWorkingDay.AddDays(1)
	windowEnd := in.LastWorkingDay.AddDays(in.NoticePeriodDays)

	finalSalary := dailyRate.Mul(decimal.NewFromInt(int64(workingDaysPerWeek)))
	unusedLeave := in.UnusedLeaveHours.Mul(dailyRate.Div(decimal.NewFromInt(int64(hoursPerDay))))

	holidayCount := 0
	if c.Calendar != nil && in.NoticePeriodDays > 0 {
		holidayCount = c.Calendar.CountInRange(windowStart, windowEnd)
	}
	holidayPay := dailyRate.Mul(decimal.NewFromInt(int64(holidayCount)))

	noticeDays := 0
	for d := windowStart; d.BeforeOrEqual(windowEnd); d = d.AddDays(1) {
		if d.IsWorkday() {
			noticeDays++
		}
	}
	noticePay := dailyRate.Mul(decimal.NewFromInt(int64(noticeDays)))

	b := Breakdown{
		DailyRate: dailyRate,
		Items: []LineItem{
			{Category: CategoryFinalSalary, Amount: finalSalary,
				Details: fmt.Sprintf("%d working days at daily rate", workingDaysPerWeek)},
			{Category: CategoryUnusedLeave, Amount: unusedLeave,
				Details: fmt.Sprintf("%s unused leave hours", in.UnusedLeaveHours)},
			{Category: CategoryPublicHolidays, Amount: holidayPay,
				Details: fmt.Sprintf("%d public holidays in notice window", holidayCount)},
			{Category: CategoryNoticePeriod, Amount: noticePay,
				Details: fmt.Sprintf("%d non-weekend days in notice window", noticeDays)},
		},
	}
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Amount)
	}
	b.Total = total
	return b, nil
}

// ValidateNotice checks a given notice period against the statutory
// requirement for the employment type and tenure.
func (c *Calculator) ValidateNotice(employmentType employment.EmploymentType, lengthOfServiceMonths, noticePeriodDays int) (NoticeValidation, error) {
	required, err := c.requiredNoticeDays(employmentType, lengthOfServiceMonths)
	if err != nil {
		return NoticeValidation{}, err
	}

	shortfall := required - noticePeriodDays
	if shortfall < 0 {
		shortfall = 0
	}
	return NoticeValidation{
		IsValid:            noticePeriodDays >= required,
		RequiredNoticeDays: required,
		ShortfallDays:      shortfall,
	}, nil
}

func (c *Calculator) requiredNoticeDays(employmentType employment.EmploymentType, tenureMonths int) (int, error) {
	switch employmentType {
	case employment.EmploymentPermanent:
		required := 0
		for _, band := range c.Rules.PermanentNoticeBands {
			if tenureMonths >= band.MinTenureMonths {
				required = band.RequiredNoticeDays
			}
		}
		return required, nil
	case employment.EmploymentFixedTerm:
		return c.Rules.FixedTermNoticeDays, nil
	case employment.EmploymentCasual:
		return c.Rules.CasualNoticeDays, nil
	}
	return 0, &employment.ValidationError{
		Field:  "employmentType",
		Reason: "unknown employment type " + string(employmentType),
		Err:    employment.ErrUnknownEnum,
	}
}
