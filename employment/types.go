/*
Package employment provides the shared value types for the statutory leave
and termination-pay compliance engine.

PURPOSE:
  This package contains the input and output types every calculator consumes:
  employment facts, salary rates, leave balances and requests. All types are
  plain values: constructed fresh per calculation, compared by value, never
  mutated by the engine. Persistence belongs to an external collaborator.

KEY CONCEPTS IN THIS FILE (types.go):
  - EmploymentFacts: Start date, working pattern, residency, employment type
  - SalaryRate: Amount + pay frequency, normalized by the termination package
  - LeaveBalance: Per-category remaining quantities
  - LeaveRequest: A submitted leave application with optional attachments

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every quantity and monetary amount
  2. Determinism: no type reads the clock; callers inject the reference date
  3. Two error tiers: malformed input fails Validate(); business-rule
     failures are reported in result issue lists, never as errors

SEE ALSO:
  - date.go: Calendar-date arithmetic and tenure helpers
  - errors.go: The ValidationError tier
*/
package employment

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

type ResidencyStatus string

const (
	ResidencyCitizen           ResidencyStatus = "citizen"
	ResidencyPermanentResident ResidencyStatus = "permanent_resident"
	ResidencyWorkVisa          ResidencyStatus = "work_visa"
	ResidencyOther             ResidencyStatus = "other"
)

func (r ResidencyStatus) Valid() bool {
	switch r {
	case ResidencyCitizen, ResidencyPermanentResident, ResidencyWorkVisa, ResidencyOther:
		return true
	}
	return false
}

type EmploymentType string

const (
	EmploymentPermanent EmploymentType = "permanent"
	EmploymentFixedTerm EmploymentType = "fixed_term"
	EmploymentCasual    EmploymentType = "casual"
)

func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentPermanent, EmploymentFixedTerm, EmploymentCasual:
		return true
	}
	return false
}

// LeaveType identifies a statutory leave category.
type LeaveType string

const (
	LeaveAnnual      LeaveType = "annual"      // balance tracked in hours
	LeaveSick        LeaveType = "sick"        // balance tracked in days
	LeaveParental    LeaveType = "parental"    // balance tracked in weeks
	LeaveBereavement LeaveType = "bereavement" // balance tracked in days
	LeaveOther       LeaveType = "other"
)

func (l LeaveType) Valid() bool {
	switch l {
	case LeaveAnnual, LeaveSick, LeaveParental, LeaveBereavement, LeaveOther:
		return true
	}
	return false
}

type PayFrequency string

const (
	PayHourly      PayFrequency = "hourly"
	PayWeekly      PayFrequency = "weekly"
	PayFortnightly PayFrequency = "fortnightly"
	PayMonthly     PayFrequency = "monthly"
	PayAnnually    PayFrequency = "annually"
)

func (f PayFrequency) Valid() bool {
	switch f {
	case PayHourly, PayWeekly, PayFortnightly, PayMonthly, PayAnnually:
		return true
	}
	return false
}

// DocumentType classifies a leave-request attachment.
type DocumentType string

const (
	DocumentMedicalCertificate DocumentType = "medical_certificate"
	DocumentBirthCertificate   DocumentType = "birth_certificate"
	DocumentOther              DocumentType = "other"
)

// =============================================================================
// EMPLOYMENT FACTS
// =============================================================================

// EmploymentFacts carries the employment attributes the calculators need.
// DateOfBirth may be zero when unknown; checkers that need it report that
// as an issue rather than guessing.
type EmploymentFacts struct {
	StartDate       Date
	HoursPerWeek    decimal.Decimal
	ResidencyStatus ResidencyStatus
	DateOfBirth     Date
	EmploymentType  EmploymentType
}

// Validate reports structural problems with the facts. Business states such
// as zero hours per week are legitimate inputs and are not checked here.
func (f EmploymentFacts) Validate() error {
	if f.StartDate.IsZero() {
		return &ValidationError{Field: "startDate", Reason: "start date is required"}
	}
	if f.HoursPerWeek.IsNegative() {
		return &ValidationError{Field: "hoursPerWeek", Reason: "hours per week must not be negative", Err: ErrNegativeAmount}
	}
	if !f.ResidencyStatus.Valid() {
		return &ValidationError{Field: "residencyStatus", Reason: "unknown residency status " + string(f.ResidencyStatus), Err: ErrUnknownEnum}
	}
	if !f.EmploymentType.Valid() {
		return &ValidationError{Field: "employmentType", Reason: "unknown employment type " + string(f.EmploymentType), Err: ErrUnknownEnum}
	}
	return nil
}

// TenureMonthsAt is whole months of service at the reference date, floored
// at zero for reference dates before the start date.
func (f EmploymentFacts) TenureMonthsAt(asOf Date) int {
	return TenureMonths(f.StartDate, asOf)
}

// =============================================================================
// SALARY RATE
// =============================================================================

// SalaryRate is a pay amount at a given frequency. The termination package
// normalizes it to a daily rate for final-pay line items.
type SalaryRate struct {
	Amount    decimal.Decimal
	Frequency PayFrequency
}

func (s SalaryRate) Validate() error {
	if s.Amount.IsNegative() {
		return &ValidationError{Field: "salary.amount", Reason: "salary amount must not be negative", Err: ErrNegativeAmount}
	}
	if !s.Frequency.Valid() {
		return &ValidationError{Field: "salary.frequency", Reason: "unknown pay frequency " + string(s.Frequency), Err: ErrUnknownEnum}
	}
	return nil
}

// =============================================================================
// LEAVE BALANCE
// =============================================================================

// LeaveBalance maps leave category to remaining quantity. Units differ by
// category: annual in hours, sick and bereavement in days, parental in weeks.
// The persistence collaborator owns the authoritative copy and applies
// approved deltas; the engine only reads it.
type LeaveBalance map[LeaveType]decimal.Decimal

// Remaining returns the balance for a category, zero when absent.
func (b LeaveBalance) Remaining(t LeaveType) decimal.Decimal {
	if b == nil {
		return decimal.Zero
	}
	return b[t]
}

// NegativeCategories reports categories holding a negative quantity.
// A negative balance is a defect in stored data; callers must be told
// rather than having it silently clamped.
func (b LeaveBalance) NegativeCategories() []LeaveType {
	var out []LeaveType
	for _, t := range []LeaveType{LeaveAnnual, LeaveSick, LeaveParental, LeaveBereavement, LeaveOther} {
		if q, ok := b[t]; ok && q.IsNegative() {
			out = append(out, t)
		}
	}
	return out
}

// =============================================================================
// LEAVE REQUEST
// =============================================================================

// Document is a typed attachment on a leave request.
type Document struct {
	Type DocumentType
	Name string
}

// ParentalSubtype selects the parental-leave entitlement pool.
type ParentalSubtype string

const (
	ParentalPrimary  ParentalSubtype = "primary"
	ParentalPartner  ParentalSubtype = "partner"
	ParentalExtended ParentalSubtype = "extended"
)

func (p ParentalSubtype) Valid() bool {
	switch p {
	case ParentalPrimary, ParentalPartner, ParentalExtended:
		return true
	}
	return false
}

// ParentalLeaveDetails carries the parental-specific facts of a request.
type ParentalLeaveDetails struct {
	Subtype         ParentalSubtype
	ExpectedDueDate Date
	IsAdoption      bool
	IsPrimaryCarer  bool
}

// LeaveRequest is a submitted leave application. StartDate and EndDate are
// inclusive calendar dates.
type LeaveRequest struct {
	Type            LeaveType
	StartDate       Date
	EndDate         Date
	Reason          string
	Documents       []Document
	ParentalDetails *ParentalLeaveDetails
}

// Validate reports structural problems: malformed date ranges and unknown
// enum values abort a calculation, they are caller bugs rather than
// business outcomes.
func (r LeaveRequest) Validate() error {
	if !r.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "unknown leave type " + string(r.Type), Err: ErrUnknownEnum}
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return &ValidationError{Field: "startDate", Reason: "start and end dates are required"}
	}
	if r.EndDate.Before(r.StartDate) {
		return &ValidationError{Field: "endDate", Reason: "end date precedes start date", Err: ErrInvalidDateRange}
	}
	if r.ParentalDetails != nil && !r.ParentalDetails.Subtype.Valid() {
		return &ValidationError{Field: "parentalDetails.subtype", Reason: "unknown parental subtype " + string(r.ParentalDetails.Subtype), Err: ErrUnknownEnum}
	}
	return nil
}

// Days is the inclusive day count of the requested range.
func (r LeaveRequest) Days() int {
	return InclusiveDays(r.StartDate, r.EndDate)
}

// HasDocument reports whether an attachment of the given type is present.
func (r LeaveRequest) HasDocument(t DocumentType) bool {
	for _, d := range r.Documents {
		if d.Type == t {
			return true
		}
	}
	return false
}
