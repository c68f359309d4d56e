/*
Package kiwisaver checks retirement-savings scheme eligibility and the
opt-out and savings-suspension windows.

PURPOSE:
  Age, residency and tenure gates for KiwiSaver membership, plus the two
  member-initiated windows: opting out shortly after starting employment
  and suspending contributions after a minimum membership period.

RULES (NZ defaults, see Rules):
  Eligible:       18 <= age < 65 and an eligible residency status
  Auto-enrolment: eligibility plus the configured minimum tenure
                  (zero months, continuous employment from day one)
  Opt-out:        day 14 through day 56 after starting employment
  Suspension:     12 months of scheme membership

The minimum-tenure and window values are statute-sourced configuration, not
inline literals, so a jurisdiction table can override them.
*/
package kiwisaver

import (
	"fmt"

	"github.com/warp/compliance-engine/employment"
)

// =============================================================================
// RULES
// =============================================================================

// Rules carries the scheme constants for one jurisdiction.
type Rules struct {
	// Age window: MinAge inclusive, MaxAge exclusive.
	MinAge int
	MaxAge int

	// Residency statuses that may join the scheme.
	EligibleResidencies []employment.ResidencyStatus

	// Minimum tenure before a new employee is automatically enrolled.
	AutoEnrolMinimumTenureMonths int

	// Opt-out window as day offsets from the employment start date,
	// both ends inclusive.
	OptOutWindowStartDays int
	OptOutWindowEndDays   int

	// Minimum scheme membership before a savings suspension may be
	// requested.
	SuspensionMinimumMembershipMonths int
}

// NZRules returns the New Zealand values (KiwiSaver Act 2006).
func NZRules() Rules {
	return Rules{
		MinAge: 18,
		MaxAge: 65,
		EligibleResidencies: []employment.ResidencyStatus{
			employment.ResidencyCitizen,
			employment.ResidencyPermanentResident,
			employment.ResidencyWorkVisa,
		},
		AutoEnrolMinimumTenureMonths:      0,
		OptOutWindowStartDays:             14,
		OptOutWindowEndDays:               56,
		SuspensionMinimumMembershipMonths: 12,
	}
}

func (r Rules) residencyEligible(status employment.ResidencyStatus) bool {
	for _, s := range r.EligibleResidencies {
		if s == status {
			return true
		}
	}
	return false
}

// =============================================================================
// RESULTS
// =============================================================================

// Eligibility is the scheme-eligibility verdict for one employee.
type Eligibility struct {
	IsEligible          bool
	AutomaticEnrollment bool
	Issues              []string
}

// OptOutWindow is the inclusive date window in which a new member may opt
// out of automatic enrolment.
type OptOutWindow struct {
	WindowStart employment.Date
	WindowEnd   employment.Date
}

// SuspensionCheck reports whether a member can request a savings suspension.
type SuspensionCheck struct {
	CanRequest bool
	Reason     string
}

// =============================================================================
// CHECKER
// =============================================================================

// Checker evaluates scheme rules under a fixed rule set.
type Checker struct {
	Rules Rules
}

func NewChecker(rules Rules) *Checker {
	return &Checker{Rules: rules}
}

// CheckEligibility evaluates membership eligibility and whether the
// employee is automatically enrolled. All failed rules are reported; an
// unknown date of birth is a reportable gap in the record, not an error.
func (c *Checker) CheckEligibility(facts employment.EmploymentFacts, asOf employment.Date) Eligibility {
	r := c.Rules
	result := Eligibility{}

	ageOK := false
	if facts.DateOfBirth.IsZero() {
		result.Issues = append(result.Issues, "date of birth is not recorded")
	} else {
		age := employment.AgeAt(facts.DateOfBirth, asOf)
		ageOK = age >= r.MinAge && age < r.MaxAge
		if !ageOK {
			result.Issues = append(result.Issues, fmt.Sprintf(
				"age %d is outside the eligible range of %d to %d", age, r.MinAge, r.MaxAge))
		}
	}

	residencyOK := r.residencyEligible(facts.ResidencyStatus)
	if !residencyOK {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"residency status %q is not eligible for the scheme", facts.ResidencyStatus))
	}

	result.IsEligible = ageOK && residencyOK

	tenure := facts.TenureMonthsAt(asOf)
	result.AutomaticEnrollment = result.IsEligible && tenure >= r.AutoEnrolMinimumTenureMonths
	if result.IsEligible && !result.AutomaticEnrollment {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"automatic enrolment requires %d months of employment", r.AutoEnrolMinimumTenureMonths))
	}

	return result
}

// Window returns the opt-out window for an employment start date.
func (c *Checker) Window(startDate employment.Date) OptOutWindow {
	return OptOutWindow{
		WindowStart: startDate.AddDays(c.Rules.OptOutWindowStartDays),
		WindowEnd:   startDate.AddDays(c.Rules.OptOutWindowEndDays),
	}
}

// IsWithinOptOutWindow reports whether asOf falls inside the opt-out
// window, both ends inclusive.
func (c *Checker) IsWithinOptOutWindow(startDate, asOf employment.Date) bool {
	w := c.Window(startDate)
	return asOf.AfterOrEqual(w.WindowStart) && asOf.BeforeOrEqual(w.WindowEnd)
}

// CanRequestSavingsSuspension reports whether a member has the minimum
// membership tenure to request a contribution suspension. When not,
// Reason states the required months.
func (c *Checker) CanRequestSavingsSuspension(membershipStartDate, asOf employment.Date) SuspensionCheck {
	months := employment.TenureMonths(membershipStartDate, asOf)
	if months < c.Rules.SuspensionMinimumMembershipMonths {
		return SuspensionCheck{
			CanRequest: false,
			Reason: fmt.Sprintf("savings suspension requires %d months of scheme membership",
				c.Rules.SuspensionMinimumMembershipMonths),
		}
	}
	return SuspensionCheck{CanRequest: true}
}
