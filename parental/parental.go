/*
Package parental implements parental-leave eligibility and date-window
validation.

PURPOSE:
  Three statutory entitlement pools (primary carer, partner, extended),
  each with its own tenure gate and week allowance. Every rule is evaluated
  independently and every failed rule contributes one issue: the caller
  shows all problems at once, never the first one found.

RULES (NZ defaults, see Rules):
  Primary carer: 6 months tenure AND a 10 h/week average     -> 26 weeks
  Partner:       6 months tenure AND a 10 h/week average     ->  2 weeks
  Extended:      12 months tenure, no hours threshold        -> 26 weeks

DATE WINDOWS:
  Primary leave may start at most 6 weeks before the expected due date,
  partner leave at most 3 weeks before. Duration in whole weeks must fit
  within the subtype's pool.
*/
package parental

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/employment"
)

// =============================================================================
// RULES
// =============================================================================

// Rules carries the statutory parental-leave constants for one jurisdiction.
type Rules struct {
	PrimaryEntitlementWeeks  int
	PartnerEntitlementWeeks  int
	ExtendedEntitlementWeeks int

	PrimaryTenureMonths  int
	PartnerTenureMonths  int
	ExtendedTenureMonths int

	// Minimum average weekly hours for primary and partner pools.
	MinimumAverageHoursPerWeek decimal.Decimal

	// How early leave may start relative to the expected due date.
	PrimaryMaxWeeksBeforeDue int
	PartnerMaxWeeksBeforeDue int
}

// NZRules returns the New Zealand values (Parental Leave and Employment
// Protection Act 1987).
func NZRules() Rules {
	return Rules{
		PrimaryEntitlementWeeks:    26,
		PartnerEntitlementWeeks:    2,
		ExtendedEntitlementWeeks:   26,
		PrimaryTenureMonths:        6,
		PartnerTenureMonths:        6,
		ExtendedTenureMonths:       12,
		MinimumAverageHoursPerWeek: decimal.NewFromInt(10),
		PrimaryMaxWeeksBeforeDue:   6,
		PartnerMaxWeeksBeforeDue:   3,
	}
}

// EntitlementWeeks returns the week pool for a subtype.
func (r Rules) EntitlementWeeks(subtype employment.ParentalSubtype) int {
	switch subtype {
	case employment.ParentalPrimary:
		return r.PrimaryEntitlementWeeks
	case employment.ParentalPartner:
		return r.PartnerEntitlementWeeks
	case employment.ParentalExtended:
		return r.ExtendedEntitlementWeeks
	}
	return 0
}

// =============================================================================
// ELIGIBILITY
// =============================================================================

// Eligibility is the full eligibility picture across all three pools.
// Week fields are zero for pools the employee does not qualify for.
type Eligibility struct {
	IsPrimaryEligible       bool
	IsPartnerEligible       bool
	PrimaryEntitlementWeeks int
	PartnerEntitlementWeeks int
	ExtendedLeaveWeeks      int
	Issues                  []string
}

// DateValidation is the outcome of validating a requested leave window.
type DateValidation struct {
	IsValid bool
	Issues  []string
}

// Engine evaluates parental-leave rules under a fixed rule set.
type Engine struct {
	Rules Rules
}

func NewEngine(rules Rules) *Engine {
	return &Engine{Rules: rules}
}

// CheckEligibility evaluates every pool's rules against the employment
// facts. Rules are not short-circuited: an employee failing both the tenure
// and hours gates sees both issues.
//
// A due date already in the past at asOf is a reportable domain state, not
// an error; it is added to Issues without changing the eligibility flags.
func (e *Engine) CheckEligibility(startDate employment.Date, averageHoursPerWeek decimal.Decimal, expectedDueDate, asOf employment.Date) Eligibility {
	r := e.Rules
	tenure := employment.TenureMonths(startDate, asOf)
	hoursOK := averageHoursPerWeek.GreaterThanOrEqual(r.MinimumAverageHoursPerWeek)

	result := Eligibility{}

	primaryTenureOK := tenure >= r.PrimaryTenureMonths
	if !primaryTenureOK {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"primary carer leave requires at least %d months of employment", r.PrimaryTenureMonths))
	}
	if !hoursOK {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"primary carer leave requires an average of at least %s hours per week", r.MinimumAverageHoursPerWeek))
	}
	result.IsPrimaryEligible = primaryTenureOK && hoursOK
	if result.IsPrimaryEligible {
		result.PrimaryEntitlementWeeks = r.PrimaryEntitlementWeeks
	}

	partnerTenureOK := tenure >= r.PartnerTenureMonths
	if !partnerTenureOK {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"partner leave requires at least %d months of employment", r.PartnerTenureMonths))
	}
	if !hoursOK {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"partner leave requires an average of at least %s hours per week", r.MinimumAverageHoursPerWeek))
	}
	result.IsPartnerEligible = partnerTenureOK && hoursOK
	if result.IsPartnerEligible {
		result.PartnerEntitlementWeeks = r.PartnerEntitlementWeeks
	}

	if tenure >= r.ExtendedTenureMonths {
		result.ExtendedLeaveWeeks = r.ExtendedEntitlementWeeks
	} else {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"extended leave requires at least %d months of employment", r.ExtendedTenureMonths))
	}

	if !expectedDueDate.IsZero() && expectedDueDate.Before(asOf) {
		result.Issues = append(result.Issues, "expected due date has already passed")
	}

	return result
}

// =============================================================================
// DATE VALIDATION
// =============================================================================

// ValidateDates checks a requested leave window against the subtype's pool
// and its pre-due-date start window. All violated rules are reported.
//
// An end date before the start date is a structural error, not a business
// outcome, and aborts validation.
func (e *Engine) ValidateDates(startDate, endDate employment.Date, subtype employment.ParentalSubtype, expectedDueDate employment.Date) (DateValidation, error) {
	if endDate.Before(startDate) {
		return DateValidation{}, &employment.ValidationError{
			Field:  "endDate",
			Reason: "end date precedes start date",
			Err:    employment.ErrInvalidDateRange,
		}
	}
	if !subtype.Valid() {
		return DateValidation{}, &employment.ValidationError{
			Field:  "subtype",
			Reason: "unknown parental subtype " + string(subtype),
			Err:    employment.ErrUnknownEnum,
		}
	}

	r := e.Rules
	result := DateValidation{IsValid: true}

	entitled := r.EntitlementWeeks(subtype)
	if weeks := employment.WholeWeeksBetween(startDate, endDate); weeks > entitled {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"requested %d weeks exceeds the %d week entitlement for %s leave", weeks, entitled, subtype))
	}

	switch subtype {
	case employment.ParentalPrimary:
		earliest := expectedDueDate.AddWeeks(-r.PrimaryMaxWeeksBeforeDue)
		if startDate.Before(earliest) {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"primary carer leave cannot start more than %d weeks before the expected due date", r.PrimaryMaxWeeksBeforeDue))
		}
	case employment.ParentalPartner:
		earliest := expectedDueDate.AddWeeks(-r.PartnerMaxWeeksBeforeDue)
		if startDate.Before(earliest) {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"partner leave cannot start more than %d weeks before the expected due date", r.PartnerMaxWeeksBeforeDue))
		}
	}

	result.IsValid = len(result.Issues) == 0
	return result, nil
}

// CalculateEndDate returns the last day of a full entitlement taken from
// startDate.
func (e *Engine) CalculateEndDate(startDate employment.Date, subtype employment.ParentalSubtype) employment.Date {
	return startDate.AddWeeks(e.Rules.EntitlementWeeks(subtype))
}
