package compliance

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/calendar"
	"github.com/warp/compliance-engine/employment"
)

func date(year int, month time.Month, day int) employment.Date {
	return employment.NewDate(year, month, day)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newValidator(t *testing.T) *Validator {
	t.Helper()
	return NewValidator(calendar.NZ())
}

// longTenureFacts is an employee comfortably past every tenure gate.
func longTenureFacts() employment.EmploymentFacts {
	return employment.EmploymentFacts{
		StartDate:       date(2022, time.January, 10),
		HoursPerWeek:    dec(40),
		ResidencyStatus: employment.ResidencyCitizen,
		DateOfBirth:     date(1990, time.May, 5),
		EmploymentType:  employment.EmploymentPermanent,
	}
}

func annualRequest(start, end employment.Date) employment.LeaveRequest {
	return employment.LeaveRequest{
		Type:      employment.LeaveAnnual,
		StartDate: start,
		EndDate:   end,
		Reason:    "summer holiday",
	}
}

// =============================================================================
// ANNUAL LEAVE TESTS
// =============================================================================

func TestCheckLeaveRequest_CompliantAnnual(t *testing.T) {
	// GIVEN: 12+ months tenure, 22 days notice, and a request spanning
	//        Christmas week 2024 (Dec 23-27: Wed 25 and Thu 26 are holidays)
	// THEN: Only Mon 23, Tue 24 and Fri 27 are chargeable, 24 hours, and
	//       a 24 hour balance is exactly sufficient
	v := newValidator(t)
	req := annualRequest(date(2024, time.December, 23), date(2024, time.December, 27))
	balance := employment.LeaveBalance{employment.LeaveAnnual: dec(24)}

	got, err := v.CheckLeaveRequest(req, longTenureFacts(), balance, date(2024, time.December, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsCompliant {
		t.Errorf("expected compliant, got issues %v", got.Issues)
	}
}

func TestCheckLeaveRequest_HolidaysDoNotConsumeBalance(t *testing.T) {
	// WHEN: The same Christmas-week request is quantified
	// THEN: It charges 3 working days as 24 hours, not 5 days as 40
	v := newValidator(t)
	req := annualRequest(date(2024, time.December, 23), date(2024, time.December, 27))

	quantity, unit, tracked := v.RequestedQuantity(req)
	if !tracked || unit != "hours" {
		t.Fatalf("annual leave should be tracked in hours, got %q tracked=%v", unit, tracked)
	}
	if !quantity.Equal(dec(24)) {
		t.Errorf("requested quantity = %s, want 24", quantity)
	}
}

func TestCheckLeaveRequest_WeekendsDoNotConsumeBalance(t *testing.T) {
	// GIVEN: A Saturday-to-Sunday range containing one full working week
	v := newValidator(t)
	req := annualRequest(date(2024, time.March, 2), date(2024, time.March, 10))

	quantity, _, _ := v.RequestedQuantity(req)
	if !quantity.Equal(dec(40)) {
		t.Errorf("9 calendar days spanning one working week: got %s hours, want 40", quantity)
	}
}

func TestCheckLeaveRequest_AccumulatesAnnualIssues(t *testing.T) {
	// GIVEN: 3 months tenure, 5 days notice, and no annual balance
	// THEN: All three violations report, in rule declaration order
	v := newValidator(t)
	facts := longTenureFacts()
	facts.StartDate = date(2024, time.March, 1)
	asOf := date(2024, time.June, 1)
	req := annualRequest(asOf.AddDays(5), asOf.AddDays(9))

	got, err := v.CheckLeaveRequest(req, facts, employment.LeaveBalance{}, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsCompliant {
		t.Fatal("expected non-compliant")
	}
	if len(got.Issues) != 3 {
		t.Fatalf("expected 3 issues, got %v", got.Issues)
	}
	wants := []string{"12 months of employment", "14 days advance notice", "insufficient annual leave balance"}
	for i, want := range wants {
		if !strings.Contains(got.Issues[i], want) {
			t.Errorf("issue %d = %q, want it to mention %q", i, got.Issues[i], want)
		}
	}
}

func TestCheckLeaveRequest_InsufficientBalanceMessage(t *testing.T) {
	// The balance issue names both sides of the comparison in the
	// category's unit.
	v := newValidator(t)
	req := annualRequest(date(2024, time.June, 17), date(2024, time.June, 21))
	balance := employment.LeaveBalance{employment.LeaveAnnual: dec(16)}

	got, err := v.CheckLeaveRequest(req, longTenureFacts(), balance, date(2024, time.June, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", got.Issues)
	}
	want := "insufficient annual leave balance: requested 40 hours, remaining 16 hours"
	if got.Issues[0] != want {
		t.Errorf("issue = %q, want %q", got.Issues[0], want)
	}
}

// =============================================================================
// SICK LEAVE TESTS
// =============================================================================

func TestCheckLeaveRequest_SickCertificateThreshold(t *testing.T) {
	v := newValidator(t)
	facts := longTenureFacts()
	balance := employment.LeaveBalance{employment.LeaveSick: dec(10)}
	asOf := date(2024, time.June, 1)

	// WHEN: Exactly 3 days, no certificate
	short := employment.LeaveRequest{
		Type:      employment.LeaveSick,
		StartDate: date(2024, time.June, 3),
		EndDate:   date(2024, time.June, 5),
	}
	got, err := v.CheckLeaveRequest(short, facts, balance, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsCompliant {
		t.Errorf("3 days needs no certificate, got %v", got.Issues)
	}

	// WHEN: 4 days, no certificate
	long := short
	long.EndDate = date(2024, time.June, 6)
	got, err = v.CheckLeaveRequest(long, facts, balance, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsCompliant || len(got.Issues) != 1 || !strings.Contains(got.Issues[0], "medical certificate") {
		t.Errorf("4 days without a certificate should fail, got %+v", got)
	}

	// WHEN: 4 days with a certificate attached
	long.Documents = []employment.Document{{Type: employment.DocumentMedicalCertificate, Name: "cert.pdf"}}
	got, err = v.CheckLeaveRequest(long, facts, balance, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsCompliant {
		t.Errorf("certificate should satisfy the rule, got %v", got.Issues)
	}
}

func TestCheckLeaveRequest_SickChargedInDays(t *testing.T) {
	v := newValidator(t)
	req := employment.LeaveRequest{
		Type:      employment.LeaveSick,
		StartDate: date(2024, time.June, 3),
		EndDate:   date(2024, time.June, 4),
	}

	quantity, unit, tracked := v.RequestedQuantity(req)
	if !tracked || unit != "days" || !quantity.Equal(dec(2)) {
		t.Errorf("got %s %s tracked=%v, want 2 days tracked", quantity, unit, tracked)
	}
}

// =============================================================================
// PARENTAL TESTS
// =============================================================================

func TestCheckLeaveRequest_ParentalFoldsEngineIssues(t *testing.T) {
	// GIVEN: An employee below the 10 h/week average requesting primary leave
	// THEN: The parental engine's issues land in the compliance result
	v := newValidator(t)
	facts := longTenureFacts()
	facts.HoursPerWeek = dec(5)
	due := date(2024, time.September, 1)
	start := date(2024, time.August, 20)
	req := employment.LeaveRequest{
		Type:      employment.LeaveParental,
		StartDate: start,
		EndDate:   start.AddWeeks(26),
		ParentalDetails: &employment.ParentalLeaveDetails{
			Subtype:         employment.ParentalPrimary,
			ExpectedDueDate: due,
			IsPrimaryCarer:  true,
		},
	}
	balance := employment.LeaveBalance{employment.LeaveParental: dec(26)}

	got, err := v.CheckLeaveRequest(req, facts, balance, date(2024, time.June, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsCompliant {
		t.Fatal("expected non-compliant")
	}
	foundHours := false
	for _, issue := range got.Issues {
		if strings.Contains(issue, "hours per week") {
			foundHours = true
		}
	}
	if !foundHours {
		t.Errorf("expected the hours-threshold issue folded in, got %v", got.Issues)
	}
}

func TestCheckLeaveRequest_ParentalChargedInWholeWeeks(t *testing.T) {
	// 10 calendar days round up to 2 weeks against the parental pool.
	v := newValidator(t)
	req := employment.LeaveRequest{
		Type:      employment.LeaveParental,
		StartDate: date(2024, time.June, 3),
		EndDate:   date(2024, time.June, 12),
		ParentalDetails: &employment.ParentalLeaveDetails{
			Subtype:         employment.ParentalPartner,
			ExpectedDueDate: date(2024, time.June, 10),
		},
	}

	quantity, unit, _ := v.RequestedQuantity(req)
	if unit != "weeks" || !quantity.Equal(dec(2)) {
		t.Errorf("got %s %s, want 2 weeks", quantity, unit)
	}
}

// =============================================================================
// STRUCTURAL ERROR TESTS
// =============================================================================

func TestCheckLeaveRequest_StructuralErrors(t *testing.T) {
	v := newValidator(t)
	facts := longTenureFacts()
	asOf := date(2024, time.June, 1)

	t.Run("inverted date range", func(t *testing.T) {
		req := annualRequest(date(2024, time.June, 20), date(2024, time.June, 17))
		_, err := v.CheckLeaveRequest(req, facts, nil, asOf)
		if !errors.Is(err, employment.ErrInvalidDateRange) {
			t.Errorf("expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("unknown leave type", func(t *testing.T) {
		req := employment.LeaveRequest{
			Type:      employment.LeaveType("sabbatical"),
			StartDate: date(2024, time.June, 17),
			EndDate:   date(2024, time.June, 18),
		}
		_, err := v.CheckLeaveRequest(req, facts, nil, asOf)
		if !errors.Is(err, employment.ErrUnknownEnum) {
			t.Errorf("expected ErrUnknownEnum, got %v", err)
		}
	})

	t.Run("parental without details", func(t *testing.T) {
		req := employment.LeaveRequest{
			Type:      employment.LeaveParental,
			StartDate: date(2024, time.June, 17),
			EndDate:   date(2024, time.June, 18),
		}
		_, err := v.CheckLeaveRequest(req, facts, nil, asOf)
		var verr *employment.ValidationError
		if !errors.As(err, &verr) || verr.Field != "parentalDetails" {
			t.Errorf("expected a parentalDetails validation error, got %v", err)
		}
	})
}

func TestCheckLeaveRequest_NegativeBalanceReported(t *testing.T) {
	// A negative stored balance is a data defect surfaced as an issue, not
	// silently clamped and not a structural error.
	v := newValidator(t)
	req := employment.LeaveRequest{
		Type:      employment.LeaveOther,
		StartDate: date(2024, time.June, 17),
		EndDate:   date(2024, time.June, 17),
	}
	balance := employment.LeaveBalance{employment.LeaveSick: dec(-2)}

	got, err := v.CheckLeaveRequest(req, longTenureFacts(), balance, date(2024, time.June, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsCompliant {
		t.Fatal("expected non-compliant")
	}
	if len(got.Issues) != 1 || got.Issues[0] != "stored sick leave balance is negative" {
		t.Errorf("expected the negative-balance issue, got %v", got.Issues)
	}
}

func TestCheckLeaveRequest_OtherLeaveUntracked(t *testing.T) {
	// "other" leave carries no balance: an empty balance map is fine.
	v := newValidator(t)
	req := employment.LeaveRequest{
		Type:      employment.LeaveOther,
		StartDate: date(2024, time.June, 17),
		EndDate:   date(2024, time.June, 21),
		Reason:    "jury service",
	}

	got, err := v.CheckLeaveRequest(req, longTenureFacts(), nil, date(2024, time.June, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsCompliant {
		t.Errorf("expected compliant, got %v", got.Issues)
	}
}
