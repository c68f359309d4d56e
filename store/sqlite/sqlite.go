/*
Package sqlite provides the SQLite-backed persistence collaborator.

PURPOSE:
  The compliance engine is pure: it receives employment facts, balances and
  requests and returns computed results. This package owns the authoritative
  copies of those records (employees, leave balances, leave requests and
  the gazetted-holiday tables) and applies approved balance deltas. Moving
  to PostgreSQL is a dialect change, not a design change.

KEY TABLES:
  employees:       Employment facts per employee
  leave_balances:  One row per employee + leave category, with grant date
  leave_requests:  Submitted requests and their approval status
  holidays:        Gazetted holiday tables, versioned by jurisdiction-year

BALANCE DELTAS:
  Approving a request updates its status AND debits the balance in one
  database transaction. The engine never mutates balances itself.

WAL MODE:
  SQLite is opened with WAL for concurrent readers; a sync.RWMutex guards
  the writer path.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/compliance-engine/calendar"
	"github.com/warp/compliance-engine/employment"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrRequestNotPending is returned when approving or rejecting a
	// request that already left the pending state.
	ErrRequestNotPending = errors.New("request is not pending")
)

// Request lifecycle states.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// EmployeeRecord is a stored employee with their employment facts.
type EmployeeRecord struct {
	ID    string
	Name  string
	Facts employment.EmploymentFacts
}

// BalanceEntry is one stored leave-category balance with its grant date,
// used by expiry warnings.
type BalanceEntry struct {
	Type      employment.LeaveType
	Quantity  decimal.Decimal
	GrantedOn employment.Date
}

// LeaveRequestRecord is a stored request plus its lifecycle state.
type LeaveRequestRecord struct {
	ID         string
	EmployeeID string
	Request    employment.LeaveRequest
	Status     string
	CreatedAt  time.Time
}

// Store implements persistence over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given path. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		hours_per_week TEXT NOT NULL,
		residency_status TEXT NOT NULL,
		date_of_birth TEXT,
		employment_type TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_balances (
		employee_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		quantity TEXT NOT NULL,
		granted_on TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_id, leave_type),
		FOREIGN KEY (employee_id) REFERENCES employees(id)
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT,
		status TEXT NOT NULL,
		documents_json TEXT,
		parental_json TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (employee_id) REFERENCES employees(id)
	);
	CREATE INDEX IF NOT EXISTS idx_requests_employee ON leave_requests(employee_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_requests_status ON leave_requests(status);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		jurisdiction TEXT NOT NULL,
		year INTEGER NOT NULL,
		date TEXT NOT NULL,
		observed TEXT,
		name TEXT NOT NULL,
		scope TEXT NOT NULL,
		region TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_holidays_year ON holidays(jurisdiction, year, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or replaces an employee record.
func (s *Store) SaveEmployee(ctx context.Context, rec EmployeeRecord) error {
	if err := rec.Facts.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees
		(id, name, start_date, hours_per_week, residency_status, date_of_birth, employment_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Name,
		rec.Facts.StartDate.String(),
		rec.Facts.HoursPerWeek.String(),
		string(rec.Facts.ResidencyStatus),
		nullDate(rec.Facts.DateOfBirth),
		string(rec.Facts.EmploymentType),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee loads one employee.
func (s *Store) GetEmployee(ctx context.Context, id string) (EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, start_date, hours_per_week, residency_status, date_of_birth, employment_type
		FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, start_date, hours_per_week, residency_status, date_of_birth, employment_type
		FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []EmployeeRecord
	for rows.Next() {
		rec, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (EmployeeRecord, error) {
	var rec EmployeeRecord
	var startDate, hoursPerWeek, residency, empType string
	var dob sql.NullString

	err := row.Scan(&rec.ID, &rec.Name, &startDate, &hoursPerWeek, &residency, &dob, &empType)
	if err == sql.ErrNoRows {
		return EmployeeRecord{}, ErrNotFound
	}
	if err != nil {
		return EmployeeRecord{}, fmt.Errorf("failed to scan employee: %w", err)
	}

	rec.Facts.StartDate, err = employment.ParseDate(startDate)
	if err != nil {
		return EmployeeRecord{}, err
	}
	rec.Facts.HoursPerWeek, err = decimal.NewFromString(hoursPerWeek)
	if err != nil {
		return EmployeeRecord{}, fmt.Errorf("bad hours_per_week %q: %w", hoursPerWeek, err)
	}
	rec.Facts.ResidencyStatus = employment.ResidencyStatus(residency)
	rec.Facts.EmploymentType = employment.EmploymentType(empType)
	if dob.Valid && dob.String != "" {
		rec.Facts.DateOfBirth, err = employment.ParseDate(dob.String)
		if err != nil {
			return EmployeeRecord{}, err
		}
	}
	return rec, nil
}

// =============================================================================
// LEAVE BALANCES
// =============================================================================

// SetBalance upserts one leave-category balance.
func (s *Store) SetBalance(ctx context.Context, employeeID string, entry BalanceEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO leave_balances (employee_id, leave_type, quantity, granted_on, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		employeeID, string(entry.Type), entry.Quantity.String(),
		entry.GrantedOn.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return nil
}

// GetBalance returns the employee's balance map. Absent categories are
// simply missing from the map.
func (s *Store) GetBalance(ctx context.Context, employeeID string) (employment.LeaveBalance, error) {
	entries, err := s.GetBalanceEntries(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	balance := employment.LeaveBalance{}
	for _, e := range entries {
		balance[e.Type] = e.Quantity
	}
	return balance, nil
}

// GetBalanceEntries returns balances with their grant dates, for expiry
// warnings.
func (s *Store) GetBalanceEntries(ctx context.Context, employeeID string) ([]BalanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT leave_type, quantity, granted_on
		FROM leave_balances WHERE employee_id = ? ORDER BY leave_type ASC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}
	defer rows.Close()

	var out []BalanceEntry
	for rows.Next() {
		var entry BalanceEntry
		var leaveType, quantity, grantedOn string
		if err := rows.Scan(&leaveType, &quantity, &grantedOn); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		entry.Type = employment.LeaveType(leaveType)
		entry.Quantity, err = decimal.NewFromString(quantity)
		if err != nil {
			return nil, fmt.Errorf("bad quantity %q: %w", quantity, err)
		}
		entry.GrantedOn, err = employment.ParseDate(grantedOn)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// CreateRequest stores a new request in pending state.
func (s *Store) CreateRequest(ctx context.Context, rec LeaveRequestRecord) error {
	if err := rec.Request.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	documentsJSON, _ := json.Marshal(rec.Request.Documents)
	var parentalJSON []byte
	if rec.Request.ParentalDetails != nil {
		parentalJSON, _ = json.Marshal(parentalDoc{
			Subtype:         string(rec.Request.ParentalDetails.Subtype),
			ExpectedDueDate: rec.Request.ParentalDetails.ExpectedDueDate.String(),
			IsAdoption:      rec.Request.ParentalDetails.IsAdoption,
			IsPrimaryCarer:  rec.Request.ParentalDetails.IsPrimaryCarer,
		})
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_requests
		(id, employee_id, leave_type, start_date, end_date, reason, status, documents_json, parental_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.EmployeeID,
		string(rec.Request.Type),
		rec.Request.StartDate.String(),
		rec.Request.EndDate.String(),
		rec.Request.Reason,
		RequestPending,
		string(documentsJSON),
		nullBytes(parentalJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// GetRequest loads one request.
func (s *Store) GetRequest(ctx context.Context, id string) (LeaveRequestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, leave_type, start_date, end_date, reason, status, documents_json, parental_json, created_at
		FROM leave_requests WHERE id = ?`, id)
	return scanRequest(row)
}

// ListRequests returns an employee's requests, newest first.
func (s *Store) ListRequests(ctx context.Context, employeeID string) ([]LeaveRequestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, leave_type, start_date, end_date, reason, status, documents_json, parental_json, created_at
		FROM leave_requests WHERE employee_id = ? ORDER BY created_at DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var out []LeaveRequestRecord
	for rows.Next() {
		rec, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ApproveRequest marks a pending request approved and debits the requested
// quantity from the matching balance in the same database transaction.
// The quantity is computed by the caller (the adapter knows the category's
// unit); the store only applies the delta. A zero debit, the case for
// untracked categories, approves without touching any balance row.
func (s *Store) ApproveRequest(ctx context.Context, id string, debit decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var employeeID, leaveType, status string
	err = tx.QueryRowContext(ctx,
		`SELECT employee_id, leave_type, status FROM leave_requests WHERE id = ?`, id).
		Scan(&employeeID, &leaveType, &status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load request: %w", err)
	}
	if status != RequestPending {
		return ErrRequestNotPending
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE leave_requests SET status = ? WHERE id = ?`, RequestApproved, id); err != nil {
		return fmt.Errorf("failed to approve request: %w", err)
	}

	if debit.IsZero() {
		return tx.Commit()
	}

	var quantity string
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM leave_balances WHERE employee_id = ? AND leave_type = ?`,
		employeeID, leaveType).Scan(&quantity)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load balance: %w", err)
	}
	current, err := decimal.NewFromString(quantity)
	if err != nil {
		return fmt.Errorf("bad quantity %q: %w", quantity, err)
	}

	remaining := current.Sub(debit)
	if _, err := tx.ExecContext(ctx,
		`UPDATE leave_balances SET quantity = ?, updated_at = ? WHERE employee_id = ? AND leave_type = ?`,
		remaining.String(), time.Now().UTC().Format(time.RFC3339), employeeID, leaveType); err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}

	return tx.Commit()
}

// RejectRequest marks a pending request rejected. No balance change.
func (s *Store) RejectRequest(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE leave_requests SET status = ? WHERE id = ? AND status = ?`,
		RequestRejected, id, RequestPending)
	if err != nil {
		return fmt.Errorf("failed to reject request: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrRequestNotPending
	}
	return nil
}

type parentalDoc struct {
	Subtype         string `json:"subtype"`
	ExpectedDueDate string `json:"expectedDueDate"`
	IsAdoption      bool   `json:"isAdoption"`
	IsPrimaryCarer  bool   `json:"isPrimaryCarer"`
}

func scanRequest(row rowScanner) (LeaveRequestRecord, error) {
	var rec LeaveRequestRecord
	var leaveType, startDate, endDate, createdAt string
	var reason, documentsJSON, parentalJSON sql.NullString

	err := row.Scan(&rec.ID, &rec.EmployeeID, &leaveType, &startDate, &endDate,
		&reason, &rec.Status, &documentsJSON, &parentalJSON, &createdAt)
	if err == sql.ErrNoRows {
		return LeaveRequestRecord{}, ErrNotFound
	}
	if err != nil {
		return LeaveRequestRecord{}, fmt.Errorf("failed to scan request: %w", err)
	}

	rec.Request.Type = employment.LeaveType(leaveType)
	rec.Request.Reason = reason.String
	rec.Request.StartDate, err = employment.ParseDate(startDate)
	if err != nil {
		return LeaveRequestRecord{}, err
	}
	rec.Request.EndDate, err = employment.ParseDate(endDate)
	if err != nil {
		return LeaveRequestRecord{}, err
	}
	if documentsJSON.Valid && documentsJSON.String != "" {
		if err := json.Unmarshal([]byte(documentsJSON.String), &rec.Request.Documents); err != nil {
			return LeaveRequestRecord{}, fmt.Errorf("bad documents json: %w", err)
		}
	}
	if parentalJSON.Valid && parentalJSON.String != "" {
		var doc parentalDoc
		if err := json.Unmarshal([]byte(parentalJSON.String), &doc); err != nil {
			return LeaveRequestRecord{}, fmt.Errorf("bad parental json: %w", err)
		}
		due, err := employment.ParseDate(doc.ExpectedDueDate)
		if err != nil {
			return LeaveRequestRecord{}, err
		}
		rec.Request.ParentalDetails = &employment.ParentalLeaveDetails{
			Subtype:         employment.ParentalSubtype(doc.Subtype),
			ExpectedDueDate: due,
			IsAdoption:      doc.IsAdoption,
			IsPrimaryCarer:  doc.IsPrimaryCarer,
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

// =============================================================================
// HOLIDAY TABLES
// =============================================================================

// SaveHoliday inserts or replaces one gazetted holiday entry.
func (s *Store) SaveHoliday(ctx context.Context, id, jurisdiction string, h calendar.PublicHoliday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO holidays (id, jurisdiction, year, date, observed, name, scope, region)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, jurisdiction, h.Date.Year(), h.Date.String(),
		nullDate(h.Observed), h.Name, string(h.Scope), nullString(h.Region))
	if err != nil {
		return fmt.Errorf("failed to save holiday: %w", err)
	}
	return nil
}

// DeleteHoliday removes one holiday entry.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// LoadTables reads the stored holiday tables for a jurisdiction, grouped by
// year, ready to feed calendar.New. An empty result means the calendar
// should fall back to the embedded tables.
func (s *Store) LoadTables(ctx context.Context, jurisdiction string) ([]calendar.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT year, date, observed, name, scope, region
		FROM holidays WHERE jurisdiction = ? ORDER BY year ASC, date ASC`, jurisdiction)
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays: %w", err)
	}
	defer rows.Close()

	byYear := make(map[int]*calendar.Table)
	var years []int
	for rows.Next() {
		var year int
		var date, name, scope string
		var observed, region sql.NullString
		if err := rows.Scan(&year, &date, &observed, &name, &scope, &region); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}

		h := calendar.PublicHoliday{Name: name, Scope: calendar.Scope(scope), Region: region.String}
		h.Date, err = employment.ParseDate(date)
		if err != nil {
			return nil, err
		}
		if observed.Valid && observed.String != "" {
			h.Observed, err = employment.ParseDate(observed.String)
			if err != nil {
				return nil, err
			}
		}

		t, ok := byYear[year]
		if !ok {
			t = &calendar.Table{Jurisdiction: jurisdiction, Year: year}
			byYear[year] = t
			years = append(years, year)
		}
		t.Holidays = append(t.Holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var tables []calendar.Table
	for _, y := range years {
		tables = append(tables, *byYear[y])
	}
	return tables, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullDate(d employment.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
