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

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type seedEmployee struct {
	code       string
	name       string
	email      string
	role       string
	grade      string
	department string
	salary     float64
	hiredYears float64
	manager    string // employee code of the manager, resolved after insert
}

var seedEmployees = []seedEmployee{
	{"EMP-0001", "Sarah Al Mansouri", "sarah.almansouri@example.com", "HR", "Grade 14", "Human Resources", 32000, 9, ""},
	{"EMP-0002", "Omar Haddad", "omar.haddad@example.com", "Employee", "Grade 13", "Engineering", 28000, 7, ""},
	{"EMP-0003", "Jane Smith", "jane.smith@example.com", "Employee", "Grade 12", "Engineering", 18500, 4.5, "EMP-0002"},
	{"EMP-0004", "John Doe", "john.doe@example.com", "Employee", "Grade 11", "Finance", 12000, 3, "EMP-0002"},
	{"EMP-0005", "Fatima Khan", "fatima.khan@example.com", "Employee", "Grade 10", "Engineering", 9500, 2.2, "EMP-0002"},
	{"EMP-0006", "Ahmed Hassan", "ahmed.hassan@example.com", "Employee", "Grade 9", "Operations", 7000, 1.5, "EMP-0001"},
	{"EMP-0007", "Maria Garcia", "maria.garcia@example.com", "Employee", "Grade 12", "Marketing", 16000, 5.8, "EMP-0001"},
	{"EMP-0008", "David Chen", "david.chen@example.com", "Employee", "Grade 10", "Engineering", 8800, 0.7, "EMP-0002"},
}

var seedSkills = []string{"Go", "SQL", "Project Management", "Data Analysis", "Communication"}

// Seed populates an empty database with a deterministic demo dataset. It is
// a no-op when employees already exist.
func (s *Store) Seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	year := now.Year()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	idByCode := make(map[string]string, len(seedEmployees))
	for _, se := range seedEmployees {
		id := uuid.NewString()
		idByCode[se.code] = id
		hireDate := now.AddDate(0, 0, -int(se.hiredYears*365.25))

		var managerID *string
		if se.manager != "" {
			if mid, ok := idByCode[se.manager]; ok {
				managerID = &mid
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO employees (id, employee_code, full_name, email, role, grade,
				grade_number, department, manager_id, status, hire_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'Active', ?)
		`, id, se.code, se.name, se.email, se.role, se.grade,
			ParseGradeNumber(se.grade), se.department, managerID, hireDate)
		if err != nil {
			return fmt.Errorf("failed to seed employee %s: %w", se.code, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO salaries (id, employee_id, base_salary, currency, effective_from)
			VALUES (?, ?, ?, 'AED', ?)
		`, uuid.NewString(), id, se.salary, hireDate)
		if err != nil {
			return fmt.Errorf("failed to seed salary for %s: %w", se.code, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO leave_summaries (employee_id, year, annual_entitlement, used_days, remaining_days)
			VALUES (?, ?, 30, 0, 30)
		`, id, year)
		if err != nil {
			return fmt.Errorf("failed to seed leave summary for %s: %w", se.code, err)
		}
	}

	// A couple of leave requests so conversational queries have data.
	leaveRequests := []struct {
		code   string
		start  int // days from now
		length int
		status string
	}{
		{"EMP-0003", 14, 5, "Approved"},
		{"EMP-0005", 30, 10, "Pending"},
		{"EMP-0006", -20, 3, "Approved"},
	}
	for _, lr := range leaveRequests {
		start := now.AddDate(0, 0, lr.start)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO leave_requests (id, employee_id, start_date, end_date, type, status, created_at)
			VALUES (?, ?, ?, ?, 'Annual', ?, ?)
		`, uuid.NewString(), idByCode[lr.code], start, start.AddDate(0, 0, lr.length), lr.status, now)
		if err != nil {
			return fmt.Errorf("failed to seed leave request: %w", err)
		}
	}

	// An active car loan for Omar; the eligibility engine should see it.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO loans (id, employee_id, loan_type, amount, interest_rate,
			tenure_months, monthly_deduction, status, start_date)
		VALUES (?, ?, 'Car', 90000, 4.0, 48, 2032.29, 'Active', ?)
	`, uuid.NewString(), idByCode["EMP-0002"], now.AddDate(-1, 0, 0))
	if err != nil {
		return fmt.Errorf("failed to seed loan: %w", err)
	}

	skillIDs := make(map[string]string, len(seedSkills))
	for _, name := range seedSkills {
		id := uuid.NewString()
		skillIDs[name] = id
		if _, err = tx.ExecContext(ctx, `INSERT INTO skills (id, name) VALUES (?, ?)`, id, name); err != nil {
			return fmt.Errorf("failed to seed skill %s: %w", name, err)
		}
	}

	employeeSkills := []struct {
		code  string
		skill string
		level string
	}{
		{"EMP-0002", "Go", "Expert"},
		{"EMP-0003", "Go", "Advanced"},
		{"EMP-0003", "SQL", "Advanced"},
		{"EMP-0004", "Data Analysis", "Intermediate"},
		{"EMP-0005", "SQL", "Intermediate"},
		{"EMP-0007", "Communication", "Expert"},
		{"EMP-0001", "Project Management", "Advanced"},
	}
	for _, es := range employeeSkills {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO employee_skills (employee_id, skill_id, level) VALUES (?, ?, ?)
		`, idByCode[es.code], skillIDs[es.skill], es.level)
		if err != nil {
			return fmt.Errorf("failed to seed employee skill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}

	s.logger.Info("Seeded demo dataset", zap.Int("employees", len(seedEmployees)))
	return nil
}
