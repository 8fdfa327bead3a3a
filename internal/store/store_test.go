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
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "test.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestParseGradeNumber(t *testing.T) {
	tests := []struct {
		grade string
		want  int
	}{
		{"Grade 12", 12},
		{"Grade 9", 9},
		{"12", 12},
		{"grade 14", 14},
		{"Senior", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := ParseGradeNumber(tt.grade); got != tt.want {
			t.Errorf("ParseGradeNumber(%q) = %d, want %d", tt.grade, got, tt.want)
		}
	}
}

func TestCreateEmployeeAndLookups(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	emp, err := st.CreateEmployee(ctx, Employee{
		EmployeeCode: "EMP-0001",
		FullName:     "Jane Smith",
		Email:        "jane.smith@example.com",
		Grade:        "Grade 12",
		Department:   "Engineering",
	}, 18500)
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if emp.ID == "" {
		t.Fatal("Expected generated id")
	}
	if emp.GradeNumber != 12 {
		t.Errorf("Expected grade number derived from grade, got %d", emp.GradeNumber)
	}
	if emp.Status != "Active" {
		t.Errorf("Expected default Active status, got %s", emp.Status)
	}

	byID, err := st.GetEmployeeByID(ctx, emp.ID)
	if err != nil || byID == nil {
		t.Fatalf("GetEmployeeByID failed: %v, %v", byID, err)
	}
	if byID.FullName != "Jane Smith" {
		t.Errorf("Unexpected employee %+v", byID)
	}

	byEmail, err := st.GetEmployeeByEmail(ctx, "JANE.SMITH@example.com")
	if err != nil || byEmail == nil {
		t.Fatalf("Expected case-insensitive email lookup to succeed: %v", err)
	}

	byName, err := st.FindEmployeeByName(ctx, "  jane smith ")
	if err != nil || byName == nil {
		t.Fatalf("Expected case-insensitive name lookup to succeed: %v", err)
	}

	missing, err := st.FindEmployeeByName(ctx, "Nobody Here")
	if err != nil {
		t.Fatalf("FindEmployeeByName failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown name, got %+v", missing)
	}

	sal, err := st.CurrentSalary(ctx, emp.ID)
	if err != nil || sal == nil {
		t.Fatalf("CurrentSalary failed: %v", err)
	}
	if sal.BaseSalary != 18500 || sal.Currency != "AED" {
		t.Errorf("Unexpected salary row %+v", sal)
	}
	if sal.EffectiveTo != nil {
		t.Error("Expected open-ended salary period")
	}
}

func TestNextEmployeeCode(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	code, err := st.NextEmployeeCode(ctx)
	if err != nil {
		t.Fatalf("NextEmployeeCode failed: %v", err)
	}
	if code != "EMP-0001" {
		t.Errorf("Expected EMP-0001 on empty database, got %s", code)
	}

	for i, c := range []string{"EMP-0001", "EMP-0002"} {
		_, err := st.CreateEmployee(ctx, Employee{
			EmployeeCode: c,
			FullName:     "Employee " + c,
			Email:        c + "@example.com",
			Grade:        "Grade 10",
		}, 9000+float64(i))
		if err != nil {
			t.Fatalf("CreateEmployee failed: %v", err)
		}
	}

	code, err = st.NextEmployeeCode(ctx)
	if err != nil {
		t.Fatalf("NextEmployeeCode failed: %v", err)
	}
	if code != "EMP-0003" {
		t.Errorf("Expected EMP-0003, got %s", code)
	}
}

func TestPromoteEmployee(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	emp, err := st.CreateEmployee(ctx, Employee{
		EmployeeCode: "EMP-0001",
		FullName:     "John Doe",
		Email:        "john.doe@example.com",
		Grade:        "Grade 11",
	}, 12000)
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	if err := st.PromoteEmployee(ctx, emp.ID, "Grade 12", 16000); err != nil {
		t.Fatalf("PromoteEmployee failed: %v", err)
	}

	updated, err := st.GetEmployeeByID(ctx, emp.ID)
	if err != nil || updated == nil {
		t.Fatalf("GetEmployeeByID failed: %v", err)
	}
	if updated.Grade != "Grade 12" || updated.GradeNumber != 12 {
		t.Errorf("Expected updated grade, got %s / %d", updated.Grade, updated.GradeNumber)
	}

	sal, err := st.CurrentSalary(ctx, emp.ID)
	if err != nil || sal == nil {
		t.Fatalf("CurrentSalary failed: %v", err)
	}
	if sal.BaseSalary != 16000 {
		t.Errorf("Expected new salary 16000, got %v", sal.BaseSalary)
	}

	// The old salary row must be closed, not deleted.
	var count int
	err = st.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM salaries WHERE employee_id = ? AND effective_to IS NOT NULL`,
		emp.ID).Scan(&count)
	if err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 closed salary period, got %d", count)
	}
}

func TestPromoteEmployee_Unknown(t *testing.T) {
	st := newTestStore(t)

	if err := st.PromoteEmployee(context.Background(), "missing-id", "Grade 12", 16000); err == nil {
		t.Fatal("Expected error for unknown employee")
	}
}

func TestHasActiveLoan(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	emp, err := st.CreateEmployee(ctx, Employee{
		EmployeeCode: "EMP-0001",
		FullName:     "Omar Haddad",
		Email:        "omar@example.com",
		Grade:        "Grade 13",
	}, 28000)
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	active, err := st.HasActiveLoan(ctx, emp.ID, "Car")
	if err != nil {
		t.Fatalf("HasActiveLoan failed: %v", err)
	}
	if active {
		t.Error("Expected no active loan")
	}

	if err := st.InsertLoan(ctx, Loan{
		EmployeeID:       emp.ID,
		LoanType:         "Car",
		Amount:           90000,
		InterestRate:     4.0,
		TenureMonths:     48,
		MonthlyDeduction: 2032.29,
	}); err != nil {
		t.Fatalf("InsertLoan failed: %v", err)
	}

	active, err = st.HasActiveLoan(ctx, emp.ID, "Car")
	if err != nil || !active {
		t.Errorf("Expected active car loan, got %v, %v", active, err)
	}

	// Same-type matching only.
	active, err = st.HasActiveLoan(ctx, emp.ID, "Housing")
	if err != nil || active {
		t.Errorf("Expected no active housing loan, got %v, %v", active, err)
	}
}

func TestTenureYears(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	emp := &Employee{HireDate: now.AddDate(-4, -6, 0)}

	tenure := emp.TenureYears(now)
	if tenure < 4.4 || tenure > 4.6 {
		t.Errorf("Expected roughly 4.5 years tenure, got %v", tenure)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Seed(ctx); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if err := st.Seed(ctx); err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}

	var count int
	if err := st.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != len(seedEmployees) {
		t.Errorf("Expected %d employees after repeated seeding, got %d", len(seedEmployees), count)
	}

	// Every seeded employee carries a current salary.
	var open int
	if err := st.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM salaries WHERE effective_to IS NULL`).Scan(&open); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if open != len(seedEmployees) {
		t.Errorf("Expected %d open salary periods, got %d", len(seedEmployees), open)
	}
}
