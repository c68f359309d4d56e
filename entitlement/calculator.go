/*
Package entitlement derives accrued leave entitlements from employment facts.

PURPOSE:
  Pure calendar math converting a start date and working pattern into
  annual, sick and bereavement entitlements under statutory rules.
  Every operation takes an explicit asOf date; nothing here reads the
  system clock.

KEY RULES (NZ defaults, see rules.go):
  Annual: 4 weeks x hoursPerWeek once tenure reaches 12 months.
          Before that, pro-rata on whole months, floored to whole hours.
  Sick:   Nothing before 6 months tenure. From 6 months the balance
          resets toward the grant but never past the statutory cap:
          unused days carry over, the cap still binds.
  Bereavement: Fixed day counts by relationship.

EDGE CASES:
  Zero or negative hoursPerWeek yields zero entitlement, not an error.
  An asOf before the start date is zero tenure, never negative.
*/
package entitlement

import (
	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/employment"
)

// Relationship classifies the bereaved relationship for leave purposes.
type Relationship string

const (
	RelationshipImmediate Relationship = "immediate"
	RelationshipExtended  Relationship = "extended"
)

// Accrual is the combined entitlement summary used by balance displays.
type Accrual struct {
	AnnualHours decimal.Decimal
	SickDays    decimal.Decimal
	TotalHours  decimal.Decimal
}

// ExpiryStatus reports whether a granted balance is approaching expiry.
type ExpiryStatus struct {
	IsExpiring      bool
	DaysUntilExpiry int
	ExpiryDate      employment.Date
}

// Calculator computes entitlements under a fixed rule set.
type Calculator struct {
	Rules Rules
}

// NewCalculator returns a calculator for the given jurisdiction rules.
func NewCalculator(rules Rules) *Calculator {
	return &Calculator{Rules: rules}
}

// =============================================================================
// ANNUAL LEAVE
// =============================================================================

// AnnualLeave returns the accrued annual-leave entitlement in hours.
//
// Full entitlement (AnnualLeaveWeeks x hoursPerWeek) vests at
// FullEntitlementTenureMonths. Before that the entitlement is pro-rata on
// whole months employed, floored to a whole number of hours.
func (c *Calculator) AnnualLeave(startDate employment.Date, hoursPerWeek decimal.Decimal, asOf employment.Date) decimal.Decimal {
	if !hoursPerWeek.IsPositive() {
		return decimal.Zero
	}

	weeks := decimal.NewFromInt(int64(c.Rules.AnnualLeaveWeeks))
	full := weeks.Mul(hoursPerWeek)

	months := employment.TenureMonths(startDate, asOf)
	if months >= c.Rules.FullEntitlementTenureMonths {
		return full
	}

	prorata := full.
		Mul(decimal.NewFromInt(int64(months))).
		Div(decimal.NewFromInt(int64(c.Rules.FullEntitlementTenureMonths)))
	return prorata.Floor()
}

// =============================================================================
// SICK LEAVE
// =============================================================================

// SickLeave returns the sick-leave entitlement in days at the next reset.
//
// Zero before the qualifying tenure. At or after it, the balance tops up by
// the annual grant but is capped: min(currentBalance + grant, cap). Unused
// days carry over, yet the statutory cap still binds, so a stored balance
// above the cap comes back down to it.
func (c *Calculator) SickLeave(startDate employment.Date, currentBalance decimal.Decimal, asOf employment.Date) decimal.Decimal {
	if employment.TenureMonths(startDate, asOf) < c.Rules.SickLeaveTenureMonths {
		return decimal.Zero
	}

	grant := decimal.NewFromInt(int64(c.Rules.SickLeaveGrantDays))
	cap := decimal.NewFromInt(int64(c.Rules.SickLeaveCapDays))

	topped := currentBalance.Add(grant)
	if topped.GreaterThan(cap) {
		return cap
	}
	return topped
}

// =============================================================================
// COMBINED ACCRUAL
// =============================================================================

// Accrual returns annual and sick entitlements together with a combined
// hour figure (sick days normalized at HoursPerDay) for balance displays.
func (c *Calculator) Accrual(startDate employment.Date, hoursPerWeek, currentSickBalance decimal.Decimal, asOf employment.Date) Accrual {
	annual := c.AnnualLeave(startDate, hoursPerWeek, asOf)
	sick := c.SickLeave(startDate, currentSickBalance, asOf)
	hoursPerDay := decimal.NewFromInt(int64(c.Rules.HoursPerDay))
	return Accrual{
		AnnualHours: annual,
		SickDays:    sick,
		TotalHours:  annual.Add(sick.Mul(hoursPerDay)),
	}
}

// =============================================================================
// BEREAVEMENT LEAVE
// =============================================================================

// Bereavement returns the bereavement-leave day count for a relationship.
// Anything outside the immediate family gets the extended allowance.
func (c *Calculator) Bereavement(relationship Relationship) int {
	if relationship == RelationshipImmediate {
		return c.Rules.BereavementImmediateDays
	}
	return c.Rules.BereavementExtendedDays
}

// =============================================================================
// EXPIRY
// =============================================================================

// Expiry returns the date a granted balance lapses under the carry-over rule.
func (c *Calculator) Expiry(grantDate employment.Date) employment.Date {
	return grantDate.AddMonths(c.Rules.CarryOverMonths)
}

// ExpiringSoon reports whether a grant is inside the expiry-warning window.
// The threshold is closed: exactly ExpiryWarningDays remaining counts as
// expiring. DaysUntilExpiry goes negative once the grant has lapsed.
func (c *Calculator) ExpiringSoon(grantDate, asOf employment.Date) ExpiryStatus {
	expiry := c.Expiry(grantDate)
	days := employment.DaysBetween(asOf, expiry)
	return ExpiryStatus{
		IsExpiring:      days <= c.Rules.ExpiryWarningDays,
		DaysUntilExpiry: days,
		ExpiryDate:      expiry,
	}
}
