package entitlement

// =============================================================================
// STATUTORY RULES - Jurisdiction-versioned constants, never inline literals
// =============================================================================

// Rules carries the statutory entitlement constants for one jurisdiction.
// Calculation structure is jurisdiction-agnostic; swapping rules swaps the
// jurisdiction.
type Rules struct {
	// Annual leave: weeks granted per year and the tenure at which the
	// full entitlement vests. Before that, entitlement accrues pro-rata.
	AnnualLeaveWeeks            int
	FullEntitlementTenureMonths int

	// Sick leave: days granted per entitlement year, the statutory cap a
	// carried-over balance may never exceed, and the qualifying tenure.
	SickLeaveGrantDays    int
	SickLeaveCapDays      int
	SickLeaveTenureMonths int

	// Bereavement leave day counts by relationship.
	BereavementImmediateDays int
	BereavementExtendedDays  int

	// HoursPerDay normalizes day-denominated leave into hours for
	// combined-balance displays.
	HoursPerDay int

	// Carry-over and expiry-warning windows.
	CarryOverMonths   int
	ExpiryWarningDays int
}

// NZRules returns the New Zealand statutory values (Holidays Act 2003).
func NZRules() Rules {
	return Rules{
		AnnualLeaveWeeks:            4,
		FullEntitlementTenureMonths: 12,
		SickLeaveGrantDays:          10,
		SickLeaveCapDays:            10,
		SickLeaveTenureMonths:       6,
		BereavementImmediateDays:    3,
		BereavementExtendedDays:     1,
		HoursPerDay:                 8,
		CarryOverMonths:             12,
		ExpiryWarningDays:           60,
	}
}
