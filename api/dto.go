/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures decoupling the engine's domain types from the external
  API contract. Dates travel as "YYYY-MM-DD" strings; monetary amounts are
  rendered at currency precision here and nowhere earlier.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Parsing, asOf defaulting, and error mapping
*/
package api

// =============================================================================
// EMPLOYEES & BALANCES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	HoursPerWeek    string `json:"hours_per_week"`
	ResidencyStatus string `json:"residency_status"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	EmploymentType  string `json:"employment_type"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	HoursPerWeek    string `json:"hours_per_week"`
	ResidencyStatus string `json:"residency_status"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	EmploymentType  string `json:"employment_type"`
}

// BalanceEntryDTO is one leave-category balance with expiry status.
type BalanceEntryDTO struct {
	Type            string `json:"type"`
	Quantity        string `json:"quantity"`
	GrantedOn       string `json:"granted_on"`
	ExpiryDate      string `json:"expiry_date"`
	IsExpiring      bool   `json:"is_expiring"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

// SetBalanceRequest upserts one leave-category balance.
type SetBalanceRequest struct {
	Type      string `json:"type"`
	Quantity  string `json:"quantity"`
	GrantedOn string `json:"granted_on"`
}

// EntitlementDTO is the accrued-entitlement summary for an employee.
type EntitlementDTO struct {
	AsOf        string `json:"as_of"`
	AnnualHours string `json:"annual_hours"`
	SickDays    string `json:"sick_days"`
	TotalHours  string `json:"total_hours"`
}

// =============================================================================
// LEAVE REQUESTS & COMPLIANCE
// =============================================================================

// SubmitLeaveRequest is the request body for submitting leave.
type SubmitLeaveRequest struct {
	Type            string              `json:"type"`
	StartDate       string              `json:"start_date"`
	EndDate         string              `json:"end_date"`
	Reason          string              `json:"reason,omitempty"`
	Documents       []DocumentDTO       `json:"documents,omitempty"`
	ParentalDetails *ParentalDetailsDTO `json:"parental_details,omitempty"`
}

// DocumentDTO is a typed attachment reference.
type DocumentDTO struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// ParentalDetailsDTO carries the parental-specific request fields.
type ParentalDetailsDTO struct {
	Subtype         string `json:"subtype"`
	ExpectedDueDate string `json:"expected_due_date"`
	IsAdoption      bool   `json:"is_adoption"`
	IsPrimaryCarer  bool   `json:"is_primary_carer"`
}

// ComplianceResultDTO is the verdict for a submitted request.
type ComplianceResultDTO struct {
	RequestID   string   `json:"request_id,omitempty"`
	IsCompliant bool     `json:"is_compliant"`
	Issues      []string `json:"issues"`
}

// LeaveRequestDTO is a stored request in API responses.
type LeaveRequestDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason,omitempty"`
	Status     string `json:"status"`
}

// =============================================================================
// PARENTAL & KIWISAVER
// =============================================================================

// ParentalEligibilityRequest asks for the full eligibility picture.
type ParentalEligibilityRequest struct {
	StartDate           string `json:"start_date"`
	AverageHoursPerWeek string `json:"average_hours_per_week"`
	ExpectedDueDate     string `json:"expected_due_date"`
}

// ParentalEligibilityDTO mirrors parental.Eligibility.
type ParentalEligibilityDTO struct {
	IsPrimaryEligible       bool     `json:"is_primary_eligible"`
	IsPartnerEligible       bool     `json:"is_partner_eligible"`
	PrimaryEntitlementWeeks int      `json:"primary_entitlement_weeks"`
	PartnerEntitlementWeeks int      `json:"partner_entitlement_weeks"`
	ExtendedLeaveWeeks      int      `json:"extended_leave_weeks"`
	Issues                  []string `json:"issues"`
}

// KiwiSaverEligibilityDTO mirrors kiwisaver.Eligibility plus the opt-out
// window for the employee's start date.
type KiwiSaverEligibilityDTO struct {
	IsEligible          bool     `json:"is_eligible"`
	AutomaticEnrollment bool     `json:"automatic_enrollment"`
	OptOutWindowStart   string   `json:"opt_out_window_start"`
	OptOutWindowEnd     string   `json:"opt_out_window_end"`
	InOptOutWindow      bool     `json:"in_opt_out_window"`
	Issues              []string `json:"issues"`
}

// SuspensionCheckDTO mirrors kiwisaver.SuspensionCheck.
type SuspensionCheckDTO struct {
	CanRequest bool   `json:"can_request"`
	Reason     string `json:"reason,omitempty"`
}

// =============================================================================
// TERMINATION
// =============================================================================

// TerminationRequest is the final-pay calculation input.
type TerminationRequest struct {
	LastWorkingDay     string `json:"last_working_day"`
	SalaryAmount       string `json:"salary_amount"`
	SalaryFrequency    string `json:"salary_frequency"`
	UnusedLeaveHours   string `json:"unused_leave_hours"`
	NoticePeriodDays   int    `json:"notice_period_days"`
	WorkingDaysPerWeek int    `json:"working_days_per_week,omitempty"`
	HoursPerDay        int    `json:"hours_per_day,omitempty"`
}

// LineItemDTO is one final-pay component, rounded for display.
type LineItemDTO struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Details  string `json:"details"`
}

// TerminationBreakdownDTO is the ordered final-pay result.
type TerminationBreakdownDTO struct {
	DailyRate string        `json:"daily_rate"`
	Items     []LineItemDTO `json:"items"`
	Total     string        `json:"total"`
}

// ValidateNoticeRequest is the notice-adequacy input.
type ValidateNoticeRequest struct {
	EmploymentType        string `json:"employment_type"`
	LengthOfServiceMonths int    `json:"length_of_service_months"`
	NoticePeriodDays      int    `json:"notice_period_days"`
}

// NoticeValidationDTO mirrors termination.NoticeValidation.
type NoticeValidationDTO struct {
	IsValid            bool `json:"is_valid"`
	RequiredNoticeDays int  `json:"required_notice_days"`
	ShortfallDays      int  `json:"shortfall_days"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO is one gazetted holiday entry.
type HolidayDTO struct {
	ID       string `json:"id,omitempty"`
	Date     string `json:"date"`
	Observed string `json:"observed,omitempty"`
	Name     string `json:"name"`
	Scope    string `json:"scope"`
	Region   string `json:"region,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
