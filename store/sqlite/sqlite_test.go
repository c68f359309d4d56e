package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/compliance-engine/calendar"
	"github.com/warp/compliance-engine/employment"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEmployee(id string) EmployeeRecord {
	return EmployeeRecord{
		ID:   id,
		Name: "Aroha Ngata",
		Facts: employment.EmploymentFacts{
			StartDate:       employment.NewDate(2022, time.March, 1),
			HoursPerWeek:    decimal.NewFromInt(40),
			ResidencyStatus: employment.ResidencyCitizen,
			DateOfBirth:     employment.NewDate(1991, time.July, 12),
			EmploymentType:  employment.EmploymentPermanent,
		},
	}
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestEmployeeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := testEmployee("emp-1")
	require.NoError(t, store.SaveEmployee(ctx, rec))

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	assert.True(t, got.Facts.StartDate.Equal(rec.Facts.StartDate))
	assert.True(t, got.Facts.HoursPerWeek.Equal(rec.Facts.HoursPerWeek))
	assert.Equal(t, rec.Facts.ResidencyStatus, got.Facts.ResidencyStatus)
	assert.True(t, got.Facts.DateOfBirth.Equal(rec.Facts.DateOfBirth))
	assert.Equal(t, rec.Facts.EmploymentType, got.Facts.EmploymentType)
}

func TestEmployeeWithoutDateOfBirth(t *testing.T) {
	// DateOfBirth is optional; it stores as NULL and loads back zero.
	store := newTestStore(t)
	ctx := context.Background()

	rec := testEmployee("emp-1")
	rec.Facts.DateOfBirth = employment.Date{}
	require.NoError(t, store.SaveEmployee(ctx, rec))

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, got.Facts.DateOfBirth.IsZero())
}

func TestGetEmployeeNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetEmployee(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveEmployeeRejectsInvalidFacts(t *testing.T) {
	store := newTestStore(t)

	rec := testEmployee("emp-1")
	rec.Facts.ResidencyStatus = "martian"
	err := store.SaveEmployee(context.Background(), rec)
	assert.ErrorIs(t, err, employment.ErrUnknownEnum)
}

func TestListEmployeesOrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := testEmployee("emp-a")
	a.Name = "Zoe Park"
	b := testEmployee("emp-b")
	b.Name = "Ana Rewi"
	require.NoError(t, store.SaveEmployee(ctx, a))
	require.NoError(t, store.SaveEmployee(ctx, b))

	got, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ana Rewi", got[0].Name)
	assert.Equal(t, "Zoe Park", got[1].Name)
}

// =============================================================================
// BALANCE TESTS
// =============================================================================

func TestBalanceUpsertAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))

	granted := employment.NewDate(2024, time.January, 10)
	require.NoError(t, store.SetBalance(ctx, "emp-1", BalanceEntry{
		Type: employment.LeaveAnnual, Quantity: decimal.NewFromInt(160), GrantedOn: granted,
	}))
	require.NoError(t, store.SetBalance(ctx, "emp-1", BalanceEntry{
		Type: employment.LeaveSick, Quantity: decimal.NewFromInt(10), GrantedOn: granted,
	}))

	// Upsert replaces, not duplicates.
	require.NoError(t, store.SetBalance(ctx, "emp-1", BalanceEntry{
		Type: employment.LeaveAnnual, Quantity: decimal.NewFromInt(120), GrantedOn: granted,
	}))

	balance, err := store.GetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, balance, 2)
	assert.True(t, balance[employment.LeaveAnnual].Equal(decimal.NewFromInt(120)))
	assert.True(t, balance[employment.LeaveSick].Equal(decimal.NewFromInt(10)))

	entries, err := store.GetBalanceEntries(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.True(t, e.GrantedOn.Equal(granted))
	}
}

func TestGetBalanceEmptyForUnknownEmployee(t *testing.T) {
	store := newTestStore(t)

	balance, err := store.GetBalance(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, balance)
}

// =============================================================================
// REQUEST LIFECYCLE TESTS
// =============================================================================

func pendingRequest(id, employeeID string) LeaveRequestRecord {
	return LeaveRequestRecord{
		ID:         id,
		EmployeeID: employeeID,
		Request: employment.LeaveRequest{
			Type:      employment.LeaveAnnual,
			StartDate: employment.NewDate(2024, time.December, 23),
			EndDate:   employment.NewDate(2024, time.December, 27),
			Reason:    "summer holiday",
		},
	}
}

func TestRequestRoundTripWithParentalDetails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))

	rec := LeaveRequestRecord{
		ID:         "req-1",
		EmployeeID: "emp-1",
		Request: employment.LeaveRequest{
			Type:      employment.LeaveParental,
			StartDate: employment.NewDate(2024, time.August, 1),
			EndDate:   employment.NewDate(2025, time.January, 30),
			Documents: []employment.Document{
				{Type: employment.DocumentBirthCertificate, Name: "birth.pdf"},
			},
			ParentalDetails: &employment.ParentalLeaveDetails{
				Subtype:         employment.ParentalPrimary,
				ExpectedDueDate: employment.NewDate(2024, time.August, 15),
				IsPrimaryCarer:  true,
			},
		},
	}
	require.NoError(t, store.CreateRequest(ctx, rec))

	got, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, RequestPending, got.Status)
	assert.Equal(t, employment.LeaveParental, got.Request.Type)
	require.Len(t, got.Request.Documents, 1)
	assert.Equal(t, employment.DocumentBirthCertificate, got.Request.Documents[0].Type)
	require.NotNil(t, got.Request.ParentalDetails)
	assert.Equal(t, employment.ParentalPrimary, got.Request.ParentalDetails.Subtype)
	assert.True(t, got.Request.ParentalDetails.ExpectedDueDate.Equal(employment.NewDate(2024, time.August, 15)))
	assert.True(t, got.Request.ParentalDetails.IsPrimaryCarer)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateRequestRejectsInvertedRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))

	rec := pendingRequest("req-1", "emp-1")
	rec.Request.EndDate = rec.Request.StartDate.AddDays(-1)
	err := store.CreateRequest(ctx, rec)
	assert.ErrorIs(t, err, employment.ErrInvalidDateRange)
}

func TestApproveRequestDebitsBalance(t *testing.T) {
	// GIVEN: A pending annual request and a 160 hour balance
	// WHEN: The request is approved with a 24 hour debit
	// THEN: Status flips to approved AND the balance drops to 136, atomically
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))
	require.NoError(t, store.SetBalance(ctx, "emp-1", BalanceEntry{
		Type: employment.LeaveAnnual, Quantity: decimal.NewFromInt(160),
		GrantedOn: employment.NewDate(2024, time.January, 10),
	}))
	require.NoError(t, store.CreateRequest(ctx, pendingRequest("req-1", "emp-1")))

	require.NoError(t, store.ApproveRequest(ctx, "req-1", decimal.NewFromInt(24)))

	got, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, RequestApproved, got.Status)

	balance, err := store.GetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance[employment.LeaveAnnual].Equal(decimal.NewFromInt(136)),
		"balance = %s, want 136", balance[employment.LeaveAnnual])
}

func TestApproveRequestOnlyOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))
	require.NoError(t, store.SetBalance(ctx, "emp-1", BalanceEntry{
		Type: employment.LeaveAnnual, Quantity: decimal.NewFromInt(160),
		GrantedOn: employment.NewDate(2024, time.January, 10),
	}))
	require.NoError(t, store.CreateRequest(ctx, pendingRequest("req-1", "emp-1")))
	require.NoError(t, store.ApproveRequest(ctx, "req-1", decimal.NewFromInt(24)))

	err := store.ApproveRequest(ctx, "req-1", decimal.NewFromInt(24))
	assert.ErrorIs(t, err, ErrRequestNotPending)

	// The second attempt must not double-debit.
	balance, err := store.GetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balance[employment.LeaveAnnual].Equal(decimal.NewFromInt(136)))
}

func TestApproveRequestWithoutBalanceRollsBack(t *testing.T) {
	// Approval debits inside one transaction: with no balance row the whole
	// approval fails and the request stays pending.
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))
	require.NoError(t, store.CreateRequest(ctx, pendingRequest("req-1", "emp-1")))

	err := store.ApproveRequest(ctx, "req-1", decimal.NewFromInt(24))
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, RequestPending, got.Status)
}

func TestApproveRequestWithZeroDebit(t *testing.T) {
	// "other" leave carries no tracked balance: approval with a zero debit
	// must succeed without any balance row existing.
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))

	rec := pendingRequest("req-1", "emp-1")
	rec.Request.Type = employment.LeaveOther
	rec.Request.Reason = "jury service"
	require.NoError(t, store.CreateRequest(ctx, rec))

	require.NoError(t, store.ApproveRequest(ctx, "req-1", decimal.Zero))

	got, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, RequestApproved, got.Status)

	balance, err := store.GetBalance(ctx, "emp-1")
	require.NoError(t, err)
	assert.Empty(t, balance)
}

func TestRejectRequest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))
	require.NoError(t, store.CreateRequest(ctx, pendingRequest("req-1", "emp-1")))

	require.NoError(t, store.RejectRequest(ctx, "req-1"))

	got, err := store.GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, RequestRejected, got.Status)

	assert.ErrorIs(t, store.RejectRequest(ctx, "req-1"), ErrRequestNotPending)
}

func TestListRequestsForEmployee(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-1")))
	require.NoError(t, store.SaveEmployee(ctx, testEmployee("emp-2")))
	require.NoError(t, store.CreateRequest(ctx, pendingRequest("req-1", "emp-1")))
	require.NoError(t, store.CreateRequest(ctx, pendingRequest("req-2", "emp-1")))
	require.NoError(t, store.CreateRequest(ctx, pendingRequest("req-3", "emp-2")))

	got, err := store.ListRequests(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, rec := range got {
		assert.Equal(t, "emp-1", rec.EmployeeID)
	}
}

// =============================================================================
// HOLIDAY TABLE TESTS
// =============================================================================

func TestHolidayTablesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	newYear := calendar.PublicHoliday{
		Date:     employment.NewDate(2026, time.January, 1),
		Name:     "New Year's Day",
		Scope:    calendar.ScopeNational,
		Observed: employment.Date{},
	}
	mondayised := calendar.PublicHoliday{
		Date:     employment.NewDate(2026, time.December, 26),
		Observed: employment.NewDate(2026, time.December, 28),
		Name:     "Boxing Day",
		Scope:    calendar.ScopeNational,
	}
	regional := calendar.PublicHoliday{
		Date:   employment.NewDate(2026, time.January, 19),
		Name:   "Wellington Anniversary Day",
		Scope:  calendar.ScopeRegional,
		Region: "Wellington",
	}
	require.NoError(t, store.SaveHoliday(ctx, "hol-1", "NZ", newYear))
	require.NoError(t, store.SaveHoliday(ctx, "hol-2", "NZ", mondayised))
	require.NoError(t, store.SaveHoliday(ctx, "hol-3", "NZ", regional))

	tables, err := store.LoadTables(ctx, "NZ")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, 2026, tables[0].Year)
	assert.Equal(t, "NZ", tables[0].Jurisdiction)
	require.Len(t, tables[0].Holidays, 3)

	// The stored rows feed straight into a calendar.
	cal := calendar.New("NZ", tables...)
	assert.True(t, cal.IsHoliday(employment.NewDate(2026, time.December, 28)),
		"mondayised observance should be the holiday")
	assert.False(t, cal.IsHoliday(employment.NewDate(2026, time.December, 26)))
}

func TestDeleteHoliday(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	h := calendar.PublicHoliday{
		Date:  employment.NewDate(2026, time.January, 1),
		Name:  "New Year's Day",
		Scope: calendar.ScopeNational,
	}
	require.NoError(t, store.SaveHoliday(ctx, "hol-1", "NZ", h))
	require.NoError(t, store.DeleteHoliday(ctx, "hol-1"))
	assert.ErrorIs(t, store.DeleteHoliday(ctx, "hol-1"), ErrNotFound)

	tables, err := store.LoadTables(ctx, "NZ")
	require.NoError(t, err)
	assert.Empty(t, tables)
}
