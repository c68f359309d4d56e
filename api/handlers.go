/*
handlers.go - HTTP handlers for the compliance engine

PURPOSE:
  The thin adapter between HTTP form data and the pure calculation
  packages. This is the ONLY layer that defaults the reference date to
  today: everything below it takes an explicit asOf, which keeps the
  engine deterministic and the handlers trivially testable by overriding
  Now.

ENDPOINTS:
  Employees:
    GET    /api/employees                      List employees
    POST   /api/employees                      Create employee
    GET    /api/employees/{id}                 Get employee
    GET    /api/employees/{id}/balance         Balances with expiry status
    PUT    /api/employees/{id}/balance         Upsert one category balance
    GET    /api/employees/{id}/entitlements    Accrued entitlement summary
    GET    /api/employees/{id}/kiwisaver       Scheme eligibility + opt-out
    POST   /api/employees/{id}/requests        Submit leave (compliance check)
    GET    /api/employees/{id}/requests        Request history

  Requests:
    POST   /api/requests/{id}/approve          Approve + debit balance
    POST   /api/requests/{id}/reject           Reject

  Calculators:
    POST   /api/parental/eligibility           Parental eligibility picture
    POST   /api/kiwisaver/suspension           Savings-suspension check
    POST   /api/termination/calculate          Final-pay breakdown
    POST   /api/termination/validate-notice    Notice adequacy

  Holidays:
    GET    /api/holidays                       Holidays in a date range
    GET    /api/holidays/next                  Next holiday after a date
    POST   /api/holidays                       Add a gazetted entry
    DELETE /api/holidays/{id}                  Remove an entry

ERROR HANDLING:
  Structural input problems (the engine's ValidationError tier) map to
  400. Business-rule failures are NOT errors: they come back inside the
  result body with a 200 so the UI can show every issue at once.
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/calendar"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/employment"
	"github.com/warp/compliance-engine/entitlement"
	"github.com/warp/compliance-engine/kiwisaver"
	"github.com/warp/compliance-engine/parental"
	"github.com/warp/compliance-engine/store/sqlite"
	"github.com/warp/compliance-engine/termination"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the engine components and the persistence collaborator.
type Handler struct {
	Store       *sqlite.Store
	Calendar    *calendar.Calendar
	Entitlement *entitlement.Calculator
	Parental    *parental.Engine
	KiwiSaver   *kiwisaver.Checker
	Validator   *compliance.Validator
	Termination *termination.Calculator

	// Now supplies the default reference date. Tests override it.
	Now func() employment.Date
}

// NewHandler wires a handler with NZ rules over the given store and
// calendar.
func NewHandler(store *sqlite.Store, cal *calendar.Calendar) *Handler {
	return &Handler{
		Store:       store,
		Calendar:    cal,
		Entitlement: entitlement.NewCalculator(entitlement.NZRules()),
		Parental:    parental.NewEngine(parental.NZRules()),
		KiwiSaver:   kiwisaver.NewChecker(kiwisaver.NZRules()),
		Validator:   compliance.NewValidator(cal),
		Termination: termination.NewCalculator(termination.NZRules(), cal),
		Now:         employment.Today,
	}
}

// asOf reads the optional as_of query parameter, defaulting to today.
// This is the call boundary the engine's determinism depends on.
func (h *Handler) asOf(r *http.Request) (employment.Date, error) {
	if s := r.URL.Query().Get("as_of"); s != "" {
		return employment.ParseDate(s)
	}
	return h.Now(), nil
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toEmployeeDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	facts, err := parseFacts(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employment facts", err)
		return
	}

	rec := sqlite.EmployeeRecord{ID: uuid.NewString(), Name: req.Name, Facts: facts}
	if err := h.Store.SaveEmployee(r.Context(), rec); err != nil {
		status := http.StatusInternalServerError
		if employment.IsValidationError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(rec))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(rec))
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}

	entries, err := h.Store.GetBalanceEntries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load balances", err)
		return
	}

	dtos := make([]BalanceEntryDTO, 0, len(entries))
	for _, e := range entries {
		status := h.Entitlement.ExpiringSoon(e.GrantedOn, asOf)
		dtos = append(dtos, BalanceEntryDTO{
			Type:            string(e.Type),
			Quantity:        e.Quantity.String(),
			GrantedOn:       e.GrantedOn.String(),
			ExpiryDate:      status.ExpiryDate.String(),
			IsExpiring:      status.IsExpiring,
			DaysUntilExpiry: status.DaysUntilExpiry,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SetBalance(w http.ResponseWriter, r *http.Request) {
	var req SetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quantity", err)
		return
	}
	grantedOn, err := employment.ParseDate(req.GrantedOn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid granted_on date (use YYYY-MM-DD)", err)
		return
	}
	leaveType := employment.LeaveType(req.Type)
	if !leaveType.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown leave type", nil)
		return
	}

	err = h.Store.SetBalance(r.Context(), chi.URLParam(r, "id"), sqlite.BalanceEntry{
		Type: leaveType, Quantity: quantity, GrantedOn: grantedOn,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set balance", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetEntitlements(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}

	rec, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}

	balance, err := h.Store.GetBalance(r.Context(), rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load balances", err)
		return
	}

	accrual := h.Entitlement.Accrual(rec.Facts.StartDate, rec.Facts.HoursPerWeek,
		balance.Remaining(employment.LeaveSick), asOf)
	writeJSON(w, http.StatusOK, EntitlementDTO{
		AsOf:        asOf.String(),
		AnnualHours: accrual.AnnualHours.String(),
		SickDays:    accrual.SickDays.String(),
		TotalHours:  accrual.TotalHours.String(),
	})
}

func (h *Handler) GetKiwiSaver(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}

	rec, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}

	eligibility := h.KiwiSaver.CheckEligibility(rec.Facts, asOf)
	window := h.KiwiSaver.Window(rec.Facts.StartDate)
	writeJSON(w, http.StatusOK, KiwiSaverEligibilityDTO{
		IsEligible:          eligibility.IsEligible,
		AutomaticEnrollment: eligibility.AutomaticEnrollment,
		OptOutWindowStart:   window.WindowStart.String(),
		OptOutWindowEnd:     window.WindowEnd.String(),
		InOptOutWindow:      h.KiwiSaver.IsWithinOptOutWindow(rec.Facts.StartDate, asOf),
		Issues:              issuesOrEmpty(eligibility.Issues),
	})
}

// =============================================================================
// LEAVE REQUEST ENDPOINTS
// =============================================================================

// SubmitRequest runs the compliance check and, when the request is
// compliant, stores it pending approval. Non-compliant requests are not
// stored; the full issue list comes back either way.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}

	var body SubmitLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req, err := parseLeaveRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave request", err)
		return
	}

	employeeID := chi.URLParam(r, "id")
	rec, err := h.Store.GetEmployee(r.Context(), employeeID)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}

	balance, err := h.Store.GetBalance(r.Context(), employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load balances", err)
		return
	}

	result, err := h.Validator.CheckLeaveRequest(req, rec.Facts, balance, asOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave request", err)
		return
	}

	dto := ComplianceResultDTO{
		IsCompliant: result.IsCompliant,
		Issues:      issuesOrEmpty(result.Issues),
	}
	if !result.IsCompliant {
		writeJSON(w, http.StatusOK, dto)
		return
	}

	record := sqlite.LeaveRequestRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Request:    req,
	}
	if err := h.Store.CreateRequest(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store request", err)
		return
	}
	dto.RequestID = record.ID
	writeJSON(w, http.StatusCreated, dto)
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRequests(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list requests", err)
		return
	}

	dtos := make([]LeaveRequestDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, LeaveRequestDTO{
			ID:         rec.ID,
			EmployeeID: rec.EmployeeID,
			Type:       string(rec.Request.Type),
			StartDate:  rec.Request.StartDate.String(),
			EndDate:    rec.Request.EndDate.String(),
			Reason:     rec.Request.Reason,
			Status:     rec.Status,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ApproveRequest approves a pending request and debits the requested
// quantity, in the category's unit, from the stored balance atomically.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.GetRequest(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Request not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get request", err)
		return
	}

	debit, _, tracked := h.Validator.RequestedQuantity(rec.Request)
	if !tracked {
		debit = decimal.Zero
	}
	if err := h.Store.ApproveRequest(r.Context(), id, debit); err != nil {
		if errors.Is(err, sqlite.ErrRequestNotPending) {
			writeError(w, http.StatusConflict, "Request is not pending", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to approve request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	err := h.Store.RejectRequest(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrRequestNotPending) {
		writeError(w, http.StatusConflict, "Request is not pending", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reject request", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PARENTAL & KIWISAVER ENDPOINTS
// =============================================================================

func (h *Handler) CheckParentalEligibility(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}

	var body ParentalEligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	startDate, err := employment.ParseDate(body.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	hours, err := decimal.NewFromString(body.AverageHoursPerWeek)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid average_hours_per_week", err)
		return
	}
	dueDate, err := employment.ParseDate(body.ExpectedDueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid expected_due_date (use YYYY-MM-DD)", err)
		return
	}

	eligibility := h.Parental.CheckEligibility(startDate, hours, dueDate, asOf)
	writeJSON(w, http.StatusOK, ParentalEligibilityDTO{
		IsPrimaryEligible:       eligibility.IsPrimaryEligible,
		IsPartnerEligible:       eligibility.IsPartnerEligible,
		PrimaryEntitlementWeeks: eligibility.PrimaryEntitlementWeeks,
		PartnerEntitlementWeeks: eligibility.PartnerEntitlementWeeks,
		ExtendedLeaveWeeks:      eligibility.ExtendedLeaveWeeks,
		Issues:                  issuesOrEmpty(eligibility.Issues),
	})
}

func (h *Handler) CheckSavingsSuspension(w http.ResponseWriter, r *http.Request) {
	asOf, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}

	var body struct {
		MembershipStartDate string `json:"membership_start_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := employment.ParseDate(body.MembershipStartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid membership_start_date (use YYYY-MM-DD)", err)
		return
	}

	check := h.KiwiSaver.CanRequestSavingsSuspension(start, asOf)
	writeJSON(w, http.StatusOK, SuspensionCheckDTO{CanRequest: check.CanRequest, Reason: check.Reason})
}

// =============================================================================
// TERMINATION ENDPOINTS
// =============================================================================

func (h *Handler) CalculateTermination(w http.ResponseWriter, r *http.Request) {
	var body TerminationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	lastDay, err := employment.ParseDate(body.LastWorkingDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid last_working_day (use YYYY-MM-DD)", err)
		return
	}
	amount, err := decimal.NewFromString(body.SalaryAmount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid salary_amount", err)
		return
	}
	unusedLeave, err := decimal.NewFromString(body.UnusedLeaveHours)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid unused_leave_hours", err)
		return
	}

	breakdown, err := h.Termination.Calculate(termination.Input{
		LastWorkingDay:     lastDay,
		Salary:             employment.SalaryRate{Amount: amount, Frequency: employment.PayFrequency(body.SalaryFrequency)},
		UnusedLeaveHours:   unusedLeave,
		NoticePeriodDays:   body.NoticePeriodDays,
		WorkingDaysPerWeek: body.WorkingDaysPerWeek,
		HoursPerDay:        body.HoursPerDay,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if employment.IsValidationError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to calculate termination pay", err)
		return
	}

	// Rounding to currency precision happens here, at the presentation
	// boundary, and nowhere earlier.
	items := make([]LineItemDTO, 0, len(breakdown.Items))
	for _, item := range breakdown.Items {
		items = append(items, LineItemDTO{
			Category: item.Category,
			Amount:   termination.FormatAmount(item.Amount),
			Details:  item.Details,
		})
	}
	writeJSON(w, http.StatusOK, TerminationBreakdownDTO{
		DailyRate: termination.FormatAmount(breakdown.DailyRate),
		Items:     items,
		Total:     termination.FormatAmount(breakdown.Total),
	})
}

func (h *Handler) ValidateNotice(w http.ResponseWriter, r *http.Request) {
	var body ValidateNoticeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.Termination.ValidateNotice(
		employment.EmploymentType(body.EmploymentType),
		body.LengthOfServiceMonths,
		body.NoticePeriodDays,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid notice validation input", err)
		return
	}
	writeJSON(w, http.StatusOK, NoticeValidationDTO{
		IsValid:            result.IsValid,
		RequiredNoticeDays: result.RequiredNoticeDays,
		ShortfallDays:      result.ShortfallDays,
	})
}

// =============================================================================
// HOLIDAY ENDPOINTS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	minYear, maxYear := h.Calendar.SupportedYears()
	from := employment.NewDate(minYear, 1, 1)
	to := employment.NewDate(maxYear, 12, 31)

	var err error
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = employment.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = employment.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
	}

	holidays := h.Calendar.InRange(from, to)
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		dtos = append(dtos, toHolidayDTO(holiday))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) NextHoliday(w http.ResponseWriter, r *http.Request) {
	after, err := h.asOf(r)
	if s := r.URL.Query().Get("after"); s != "" {
		after, err = employment.ParseDate(s)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid after date", err)
		return
	}

	holiday, ok := h.Calendar.NextAfter(after)
	if !ok {
		writeError(w, http.StatusNotFound, "No later holiday in the loaded tables", nil)
		return
	}
	writeJSON(w, http.StatusOK, toHolidayDTO(holiday))
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var body HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	holiday := calendar.PublicHoliday{
		Name:   body.Name,
		Scope:  calendar.Scope(body.Scope),
		Region: body.Region,
	}
	var err error
	if holiday.Date, err = employment.ParseDate(body.Date); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	if body.Observed != "" {
		if holiday.Observed, err = employment.ParseDate(body.Observed); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid observed date (use YYYY-MM-DD)", err)
			return
		}
	}
	if holiday.Scope == "" {
		holiday.Scope = calendar.ScopeNational
	}

	id := uuid.NewString()
	if err := h.Store.SaveHoliday(r.Context(), id, h.Calendar.Jurisdiction(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}

	dto := toHolidayDTO(holiday)
	dto.ID = id
	writeJSON(w, http.StatusCreated, dto)
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Holiday not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PARSING & SERIALIZATION HELPERS
// =============================================================================

func parseFacts(req CreateEmployeeRequest) (employment.EmploymentFacts, error) {
	var facts employment.EmploymentFacts
	var err error

	if facts.StartDate, err = employment.ParseDate(req.StartDate); err != nil {
		return facts, err
	}
	if facts.HoursPerWeek, err = decimal.NewFromString(req.HoursPerWeek); err != nil {
		return facts, err
	}
	if req.DateOfBirth != "" {
		if facts.DateOfBirth, err = employment.ParseDate(req.DateOfBirth); err != nil {
			return facts, err
		}
	}
	facts.ResidencyStatus = employment.ResidencyStatus(req.ResidencyStatus)
	facts.EmploymentType = employment.EmploymentType(req.EmploymentType)
	return facts, facts.Validate()
}

func parseLeaveRequest(body SubmitLeaveRequest) (employment.LeaveRequest, error) {
	var req employment.LeaveRequest
	var err error

	req.Type = employment.LeaveType(body.Type)
	req.Reason = body.Reason
	if req.StartDate, err = employment.ParseDate(body.StartDate); err != nil {
		return req, err
	}
	if req.EndDate, err = employment.ParseDate(body.EndDate); err != nil {
		return req, err
	}
	for _, d := range body.Documents {
		req.Documents = append(req.Documents, employment.Document{
			Type: employment.DocumentType(d.Type),
			Name: d.Name,
		})
	}
	if body.ParentalDetails != nil {
		due, err := employment.ParseDate(body.ParentalDetails.ExpectedDueDate)
		if err != nil {
			return req, err
		}
		req.ParentalDetails = &employment.ParentalLeaveDetails{
			Subtype:         employment.ParentalSubtype(body.ParentalDetails.Subtype),
			ExpectedDueDate: due,
			IsAdoption:      body.ParentalDetails.IsAdoption,
			IsPrimaryCarer:  body.ParentalDetails.IsPrimaryCarer,
		}
	}
	return req, req.Validate()
}

func toEmployeeDTO(rec sqlite.EmployeeRecord) EmployeeDTO {
	dto := EmployeeDTO{
		ID:              rec.ID,
		Name:            rec.Name,
		StartDate:       rec.Facts.StartDate.String(),
		HoursPerWeek:    rec.Facts.HoursPerWeek.String(),
		ResidencyStatus: string(rec.Facts.ResidencyStatus),
		EmploymentType:  string(rec.Facts.EmploymentType),
	}
	if !rec.Facts.DateOfBirth.IsZero() {
		dto.DateOfBirth = rec.Facts.DateOfBirth.String()
	}
	return dto
}

func toHolidayDTO(h calendar.PublicHoliday) HolidayDTO {
	dto := HolidayDTO{
		Date:   h.Date.String(),
		Name:   h.Name,
		Scope:  string(h.Scope),
		Region: h.Region,
	}
	if !h.Observed.IsZero() {
		dto.Observed = h.Observed.String()
	}
	return dto
}

// issuesOrEmpty keeps issue lists serializing as [] rather than null.
func issuesOrEmpty(issues []string) []string {
	if issues == nil {
		return []string{}
	}
	return issues
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
