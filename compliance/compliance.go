/*
Package compliance validates submitted leave requests against statutory
rules, balances and documentary requirements.

PURPOSE:
  The composition point of the engine: holiday calendar, entitlement rules
  and the parental-leave engine come together to produce a single
  ComplianceResult for a leave request.

ISSUE ACCUMULATION:
  Rules are evaluated in declaration order and NEVER short-circuited. A
  request violating three independent rules reports three issues, in a
  deterministic order the UI and the tests can rely on.

ERROR TIERS:
  Business-rule failures (insufficient notice, insufficient balance,
  missing certificate) are issues. Structural problems (inverted date
  range, unknown leave type, parental request without parental details)
  are ValidationErrors and abort the check.
*/
package compliance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/calendar"
	"github.com/warp/compliance-engine/employment"
	"github.com/warp/compliance-engine/parental"
)

// =============================================================================
// RULES
// =============================================================================

// Rules carries the request-validation constants for one jurisdiction.
type Rules struct {
	// Annual leave gates.
	AnnualLeaveMinimumTenureMonths int
	AnnualLeaveNoticeDays          int

	// Sick leave beyond this many consecutive days needs a medical
	// certificate attached.
	SickCertificateThresholdDays int

	// HoursPerDay converts annual-leave working days into balance hours.
	HoursPerDay int
}

// NZRules returns the New Zealand values.
func NZRules() Rules {
	return Rules{
		AnnualLeaveMinimumTenureMonths: 12,
		AnnualLeaveNoticeDays:          14,
		SickCertificateThresholdDays:   3,
		HoursPerDay:                    8,
	}
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the compliance verdict for one leave request. Issues are
// ordered by rule declaration order; the order is part of the contract.
type Result struct {
	IsCompliant bool
	Issues      []string
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator composes the calendar, entitlement rules and parental engine.
type Validator struct {
	Rules    Rules
	Calendar *calendar.Calendar
	Parental *parental.Engine
}

// NewValidator wires a validator with NZ defaults over the given calendar.
func NewValidator(cal *calendar.Calendar) *Validator {
	return &Validator{
		Rules:    NZRules(),
		Calendar: cal,
		Parental: parental.NewEngine(parental.NZRules()),
	}
}

// CheckLeaveRequest validates a request against tenure, notice, balance and
// documentary rules, accumulating every applicable issue.
//
// The returned error is non-nil only for structurally invalid input; all
// business outcomes, including a negative stored balance, are reported in
// the Result.
func (v *Validator) CheckLeaveRequest(req employment.LeaveRequest, facts employment.EmploymentFacts, balance employment.LeaveBalance, asOf employment.Date) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	if err := facts.Validate(); err != nil {
		return Result{}, err
	}
	if req.Type == employment.LeaveParental && req.ParentalDetails == nil {
		return Result{}, &employment.ValidationError{
			Field:  "parentalDetails",
			Reason: "parental leave request is missing parental details",
		}
	}

	result := Result{}

	// Stored negative balances are a data defect the caller must hear
	// about, never silently clamped.
	for _, cat := range balance.NegativeCategories() {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"stored %s leave balance is negative", cat))
	}

	if req.Type == employment.LeaveAnnual {
		if tenure := facts.TenureMonthsAt(asOf); tenure < v.Rules.AnnualLeaveMinimumTenureMonths {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"annual leave requires %d months of employment", v.Rules.AnnualLeaveMinimumTenureMonths))
		}
		if notice := employment.DaysBetween(asOf, req.StartDate); notice < v.Rules.AnnualLeaveNoticeDays {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"annual leave requires %d days advance notice", v.Rules.AnnualLeaveNoticeDays))
		}
	}

	v.checkBalance(req, balance, &result)

	if req.Type == employment.LeaveSick && req.Days() > v.Rules.SickCertificateThresholdDays {
		if !req.HasDocument(employment.DocumentMedicalCertificate) {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"sick leave beyond %d consecutive days requires a medical certificate", v.Rules.SickCertificateThresholdDays))
		}
	}

	if req.Type == employment.LeaveParental {
		if err := v.checkParental(req, facts, asOf, &result); err != nil {
			return Result{}, err
		}
	}

	result.IsCompliant = len(result.Issues) == 0
	return result, nil
}

// RequestedQuantity converts a request's date range into the quantity it
// consumes, in the category's own unit (annual in hours, sick and
// bereavement in days, parental in weeks). Annual leave is charged for
// working days only: weekends and public holidays inside the range do not
// consume balance. The third return is false for untracked categories.
func (v *Validator) RequestedQuantity(req employment.LeaveRequest) (decimal.Decimal, string, bool) {
	switch req.Type {
	case employment.LeaveAnnual:
		workingDays := v.chargeableDays(req.StartDate, req.EndDate)
		return decimal.NewFromInt(int64(workingDays * v.Rules.HoursPerDay)), "hours", true
	case employment.LeaveSick, employment.LeaveBereavement:
		return decimal.NewFromInt(int64(req.Days())), "days", true
	case employment.LeaveParental:
		return decimal.NewFromInt(int64(wholeWeeksCeil(req.Days()))), "weeks", true
	}
	return decimal.Zero, "", false // "other" leave carries no tracked balance
}

// checkBalance compares the requested quantity against the remaining
// balance for the category.
func (v *Validator) checkBalance(req employment.LeaveRequest, balance employment.LeaveBalance, result *Result) {
	requested, unit, tracked := v.RequestedQuantity(req)
	if !tracked {
		return
	}
	remaining := balance.Remaining(req.Type)

	if requested.GreaterThan(remaining) {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"insufficient %s leave balance: requested %s %s, remaining %s %s",
			req.Type, requested, unit, remaining, unit))
	}
}

// chargeableDays counts days in [start, end] that are neither weekends nor
// observed public holidays.
func (v *Validator) chargeableDays(start, end employment.Date) int {
	n := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if d.IsWeekend() {
			continue
		}
		if v.Calendar != nil && v.Calendar.IsHoliday(d) {
			continue
		}
		n++
	}
	return n
}

func wholeWeeksCeil(days int) int {
	return (days + 6) / 7
}

// checkParental folds the parental engine's eligibility and date-window
// issues into the result, preserving their order.
func (v *Validator) checkParental(req employment.LeaveRequest, facts employment.EmploymentFacts, asOf employment.Date, result *Result) error {
	details := req.ParentalDetails

	eligibility := v.Parental.CheckEligibility(facts.StartDate, facts.HoursPerWeek, details.ExpectedDueDate, asOf)
	result.Issues = append(result.Issues, eligibility.Issues...)

	dates, err := v.Parental.ValidateDates(req.StartDate, req.EndDate, details.Subtype, details.ExpectedDueDate)
	if err != nil {
		return err
	}
	result.Issues = append(result.Issues, dates.Issues...)
	return nil
}
