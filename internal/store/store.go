// Copyright 2026 HRChatBot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store provides the sqlite-backed HR database: schema, typed
// accessors for the chat pipeline, and the thin persistence operations the
// action dispatcher delegates to.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Employee mirrors the employees table.
type Employee struct {
	ID              string     `json:"id"`
	EmployeeCode    string     `json:"employee_code"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	Grade           string     `json:"grade"`
	GradeNumber     int        `json:"grade_number"`
	Department      string     `json:"department"`
	ManagerID       *string    `json:"manager_id,omitempty"`
	Status          string     `json:"status"`
	HireDate        time.Time  `json:"hire_date"`
	TerminationDate *time.Time `json:"termination_date,omitempty"`
}

// TenureYears returns the employee's tenure in fractional years.
func (e *Employee) TenureYears(now time.Time) float64 {
	return now.Sub(e.HireDate).Hours() / 24 / 365.25
}

// Salary mirrors the salaries table. A NULL effective_to marks the current
// salary row.
type Salary struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	BaseSalary    float64    `json:"base_salary"`
	Currency      string     `json:"currency"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

// Loan mirrors the loans table.
type Loan struct {
	ID               string    `json:"id"`
	EmployeeID       string    `json:"employee_id"`
	LoanType         string    `json:"loan_type"`
	Amount           float64   `json:"amount"`
	InterestRate     float64   `json:"interest_rate"`
	TenureMonths     int       `json:"tenure_months"`
	MonthlyDeduction float64   `json:"monthly_deduction"`
	Status           string    `json:"status"`
	StartDate        time.Time `json:"start_date"`
}

// Store handles access to the HR database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if necessary) the HR database.
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, logger: logger}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// DB exposes the underlying handle so the dynamic query executor and audit
// sink can share one connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates the HR tables if they don't exist.
func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			employee_code TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL DEFAULT 'Employee',
			grade TEXT NOT NULL,
			grade_number INTEGER NOT NULL DEFAULT 0,
			department TEXT NOT NULL DEFAULT '',
			manager_id TEXT REFERENCES employees(id),
			status TEXT NOT NULL DEFAULT 'Active',
			hire_date DATETIME NOT NULL,
			termination_date DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS salaries (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			base_salary REAL NOT NULL,
			currency TEXT NOT NULL DEFAULT 'AED',
			effective_from DATETIME NOT NULL,
			effective_to DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS leave_requests (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			start_date DATETIME NOT NULL,
			end_date DATETIME NOT NULL,
			type TEXT NOT NULL DEFAULT 'Annual',
			status TEXT NOT NULL DEFAULT 'Pending',
			reason TEXT,
			approved_by_id TEXT REFERENCES employees(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS leave_summaries (
			employee_id TEXT NOT NULL REFERENCES employees(id),
			year INTEGER NOT NULL,
			annual_entitlement INTEGER NOT NULL,
			used_days INTEGER NOT NULL DEFAULT 0,
			remaining_days INTEGER NOT NULL,
			PRIMARY KEY (employee_id, year)
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id),
			loan_type TEXT NOT NULL,
			amount REAL NOT NULL,
			interest_rate REAL NOT NULL,
			tenure_months INTEGER NOT NULL,
			monthly_deduction REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'Active',
			start_date DATETIME NOT NULL,
			end_date DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS skills (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS employee_skills (
			employee_id TEXT NOT NULL REFERENCES employees(id),
			skill_id TEXT NOT NULL REFERENCES skills(id),
			level TEXT NOT NULL DEFAULT 'Beginner',
			PRIMARY KEY (employee_id, skill_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

const employeeColumns = `id, employee_code, full_name, email, role, grade, grade_number,
	department, manager_id, status, hire_date, termination_date`

func scanEmployee(row *sql.Row) (*Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.Role,
		&emp.Grade, &emp.GradeNumber, &emp.Department, &emp.ManagerID, &emp.Status,
		&emp.HireDate, &emp.TerminationDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &emp, nil
}

// GetEmployeeByID returns the employee with the given id, or nil if absent.
func (s *Store) GetEmployeeByID(ctx context.Context, id string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

// GetEmployeeByEmail returns the employee with the given email, or nil.
func (s *Store) GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE LOWER(email) = LOWER(?)`, email)
	return scanEmployee(row)
}

// FindEmployeeByName returns the employee whose full name matches
// case-insensitively, or nil.
func (s *Store) FindEmployeeByName(ctx context.Context, name string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE LOWER(full_name) = LOWER(?)`,
		strings.TrimSpace(name))
	return scanEmployee(row)
}

// CurrentSalary returns the employee's current salary row (open-ended
// effective period, newest first), or nil if no salary is recorded.
func (s *Store) CurrentSalary(ctx context.Context, employeeID string) (*Salary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, base_salary, currency, effective_from, effective_to
		FROM salaries
		WHERE employee_id = ? AND effective_to IS NULL
		ORDER BY effective_from DESC
		LIMIT 1
	`, employeeID)

	var sal Salary
	err := row.Scan(&sal.ID, &sal.EmployeeID, &sal.BaseSalary, &sal.Currency,
		&sal.EffectiveFrom, &sal.EffectiveTo)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan salary: %w", err)
	}
	return &sal, nil
}

// HasActiveLoan reports whether the employee has an active loan of the given
// type.
func (s *Store) HasActiveLoan(ctx context.Context, employeeID, loanType string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM loans
		WHERE employee_id = ? AND loan_type = ? AND status = 'Active'
	`, employeeID, loanType).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count active loans: %w", err)
	}
	return count > 0, nil
}

// NextEmployeeCode derives the next sequential human-readable code
// (EMP-0001, EMP-0002, ...). Callers must hold the dispatcher's
// code-generation lock: this read-max-then-insert sequence is not safe to
// interleave.
func (s *Store) NextEmployeeCode(ctx context.Context) (string, error) {
	var maxSeq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(CAST(SUBSTR(employee_code, 5) AS INTEGER))
		FROM employees
		WHERE employee_code LIKE 'EMP-%'
	`).Scan(&maxSeq)
	if err != nil {
		return "", fmt.Errorf("failed to read max employee code: %w", err)
	}

	next := int64(1)
	if maxSeq.Valid {
		next = maxSeq.Int64 + 1
	}
	return fmt.Sprintf("EMP-%04d", next), nil
}

// CreateEmployee inserts a new employee with an initial salary row and the
// current year's leave entitlement, in one transaction.
func (s *Store) CreateEmployee(ctx context.Context, emp Employee, baseSalary float64) (*Employee, error) {
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if emp.Status == "" {
		emp.Status = "Active"
	}
	if emp.Role == "" {
		emp.Role = "Employee"
	}
	if emp.HireDate.IsZero() {
		emp.HireDate = time.Now().UTC()
	}
	if emp.GradeNumber == 0 {
		emp.GradeNumber = ParseGradeNumber(emp.Grade)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO employees (id, employee_code, full_name, email, role, grade,
			grade_number, department, manager_id, status, hire_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, emp.ID, emp.EmployeeCode, emp.FullName, emp.Email, emp.Role, emp.Grade,
		emp.GradeNumber, emp.Department, emp.ManagerID, emp.Status, emp.HireDate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert employee: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO salaries (id, employee_id, base_salary, currency, effective_from)
		VALUES (?, ?, ?, 'AED', ?)
	`, uuid.NewString(), emp.ID, baseSalary, emp.HireDate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert salary: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO leave_summaries (employee_id, year, annual_entitlement, used_days, remaining_days)
		VALUES (?, ?, 30, 0, 30)
	`, emp.ID, time.Now().UTC().Year())
	if err != nil {
		return nil, fmt.Errorf("failed to insert leave summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit employee creation: %w", err)
	}

	s.logger.Info("Employee created",
		zap.String("employee_id", emp.ID),
		zap.String("employee_code", emp.EmployeeCode),
	)

	return &emp, nil
}

// PromoteEmployee updates the employee's grade and replaces the current
// salary row: the open salary period is closed and a new one begins now.
func (s *Store) PromoteEmployee(ctx context.Context, employeeID, newGrade string, newSalary float64) error {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE employees SET grade = ?, grade_number = ? WHERE id = ?
	`, newGrade, ParseGradeNumber(newGrade), employeeID)
	if err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("employee %s not found", employeeID)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE salaries SET effective_to = ? WHERE employee_id = ? AND effective_to IS NULL
	`, now, employeeID)
	if err != nil {
		return fmt.Errorf("failed to close salary period: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO salaries (id, employee_id, base_salary, currency, effective_from)
		VALUES (?, ?, ?, 'AED', ?)
	`, uuid.NewString(), employeeID, newSalary, now)
	if err != nil {
		return fmt.Errorf("failed to insert new salary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit promotion: %w", err)
	}

	s.logger.Info("Employee promoted",
		zap.String("employee_id", employeeID),
		zap.String("new_grade", newGrade),
	)

	return nil
}

// InsertLoan records a granted loan.
func (s *Store) InsertLoan(ctx context.Context, l Loan) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = "Active"
	}
	if l.StartDate.IsZero() {
		l.StartDate = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loans (id, employee_id, loan_type, amount, interest_rate,
			tenure_months, monthly_deduction, status, start_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.EmployeeID, l.LoanType, l.Amount, l.InterestRate,
		l.TenureMonths, l.MonthlyDeduction, l.Status, l.StartDate)
	if err != nil {
		return fmt.Errorf("failed to insert loan: %w", err)
	}
	return nil
}

var gradeNumberPattern = regexp.MustCompile(`\d+`)

// ParseGradeNumber extracts the numeric grade from its display form
// ("Grade 12" -> 12). Unparseable grades map to 0.
func ParseGradeNumber(grade string) int {
	m := gradeNumberPattern.FindString(grade)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
