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

package action

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shyamddesai/HRChatBot/internal/identity"
	"github.com/shyamddesai/HRChatBot/internal/intent"
	"github.com/shyamddesai/HRChatBot/internal/store"
	"go.uber.org/zap/zaptest"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return NewDispatcher(st, zaptest.NewLogger(t)), st
}

func hrCaller(id string) identity.Identity {
	return identity.Identity{ID: id, Role: identity.RoleHR, Email: "hr@example.com", DisplayName: "Sarah Al Mansouri"}
}

func empCaller(id, name string) identity.Identity {
	return identity.Identity{ID: id, Role: identity.RoleEmployee, Email: "emp@example.com", DisplayName: name}
}

func TestCreateEmployee_HROnly(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.CreateEmployee(context.Background(), empCaller("emp-1", "John Doe"), intent.CreateEmployeeParams{
		FullName: "Ada Lovelace", Email: "ada@example.com", Grade: "Grade 11", Salary: 12000,
	})
	if !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("Expected ErrNotPermitted, got %v", err)
	}
}

func TestCreateEmployee_MissingFields(t *testing.T) {
	d, _ := newTestDispatcher(t)

	res, err := d.CreateEmployee(context.Background(), hrCaller("hr-1"), intent.CreateEmployeeParams{
		FullName: "Ada Lovelace",
	})
	if err != nil {
		t.Fatalf("Expected missing-information reply, not an error: %v", err)
	}
	if res.Completed {
		t.Fatal("Expected incomplete result")
	}
	for _, field := range []string{"email", "grade", "salary"} {
		if !strings.Contains(res.Message, field) {
			t.Errorf("Expected %q named in %q", field, res.Message)
		}
	}
}

func TestCreateEmployee_Success(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	res, err := d.CreateEmployee(ctx, hrCaller("hr-1"), intent.CreateEmployeeParams{
		FullName:   "Ada Lovelace",
		Email:      "ada@example.com",
		Grade:      "11",
		Salary:     12000,
		Department: "Engineering",
	})
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if !res.Completed {
		t.Fatalf("Expected completed result, got %q", res.Message)
	}

	emp, err := st.GetEmployeeByEmail(ctx, "ada@example.com")
	if err != nil || emp == nil {
		t.Fatalf("Expected persisted employee: %v", err)
	}
	if emp.EmployeeCode != "EMP-0001" {
		t.Errorf("Expected first sequential code, got %s", emp.EmployeeCode)
	}
	if emp.Grade != "Grade 11" {
		t.Errorf("Expected normalized grade, got %q", emp.Grade)
	}

	// Sequential codes continue from the current maximum.
	res, err = d.CreateEmployee(ctx, hrCaller("hr-1"), intent.CreateEmployeeParams{
		FullName: "Grace Hopper", Email: "grace@example.com", Grade: "Grade 12", Salary: 16000,
	})
	if err != nil || !res.Completed {
		t.Fatalf("Second create failed: %v", err)
	}
	second, _ := st.GetEmployeeByEmail(ctx, "grace@example.com")
	if second.EmployeeCode != "EMP-0002" {
		t.Errorf("Expected EMP-0002, got %s", second.EmployeeCode)
	}
}

func TestCreateEmployee_DuplicateEmail(t *testing.T) {
	d, _ := newTestDispatcher(t)
	ctx := context.Background()

	params := intent.CreateEmployeeParams{
		FullName: "Ada Lovelace", Email: "ada@example.com", Grade: "Grade 11", Salary: 12000,
	}
	if _, err := d.CreateEmployee(ctx, hrCaller("hr-1"), params); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	res, err := d.CreateEmployee(ctx, hrCaller("hr-1"), params)
	if err != nil {
		t.Fatalf("Expected duplicate handled as a reply, got error: %v", err)
	}
	if res.Completed {
		t.Error("Expected duplicate email to block creation")
	}
	if !strings.Contains(res.Message, "already exists") {
		t.Errorf("Unexpected message %q", res.Message)
	}
}

func TestPromoteEmployee(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	if _, err := d.CreateEmployee(ctx, hrCaller("hr-1"), intent.CreateEmployeeParams{
		FullName: "John Doe", Email: "john@example.com", Grade: "Grade 11", Salary: 12000,
	}); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	// Employees may not promote.
	if _, err := d.PromoteEmployee(ctx, empCaller("emp-1", "John Doe"), intent.PromoteEmployeeParams{
		EmployeeName: "John Doe", NewGrade: "Grade 12", NewSalary: 16000,
	}); !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("Expected ErrNotPermitted, got %v", err)
	}

	res, err := d.PromoteEmployee(ctx, hrCaller("hr-1"), intent.PromoteEmployeeParams{
		EmployeeName: "john doe", NewGrade: "Grade 12", NewSalary: 16000,
	})
	if err != nil {
		t.Fatalf("PromoteEmployee failed: %v", err)
	}
	if !res.Completed {
		t.Fatalf("Expected completed promotion, got %q", res.Message)
	}

	emp, _ := st.GetEmployeeByEmail(ctx, "john@example.com")
	if emp.Grade != "Grade 12" {
		t.Errorf("Expected updated grade, got %s", emp.Grade)
	}
	sal, _ := st.CurrentSalary(ctx, emp.ID)
	if sal.BaseSalary != 16000 {
		t.Errorf("Expected new salary, got %v", sal.BaseSalary)
	}
}

func TestPromoteEmployee_UnknownName(t *testing.T) {
	d, _ := newTestDispatcher(t)

	res, err := d.PromoteEmployee(context.Background(), hrCaller("hr-1"), intent.PromoteEmployeeParams{
		EmployeeName: "Nobody Here", NewGrade: "Grade 12", NewSalary: 16000,
	})
	if err != nil {
		t.Fatalf("Expected reply, got error: %v", err)
	}
	if res.Completed {
		t.Error("Expected incomplete result for unknown employee")
	}
}

func TestGenerateCertificate_SelfReference(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	created, err := st.CreateEmployee(ctx, store.Employee{
		EmployeeCode: "EMP-0001",
		FullName:     "John Doe",
		Email:        "john@example.com",
		Grade:        "Grade 11",
		Department:   "Finance",
	}, 12000)
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	caller := empCaller(created.ID, "John Doe")

	for _, hint := range []string{"me", "My", "MYSELF", "", "john doe"} {
		res, err := d.GenerateCertificate(ctx, caller, hint)
		if err != nil {
			t.Fatalf("GenerateCertificate(%q) failed: %v", hint, err)
		}
		if !res.Completed {
			t.Fatalf("Expected certificate for hint %q, got %q", hint, res.Message)
		}
		cert, ok := res.Data.(Certificate)
		if !ok {
			t.Fatalf("Expected Certificate data, got %T", res.Data)
		}
		if cert.EmployeeName != "John Doe" || cert.BaseSalary != 12000 {
			t.Errorf("Unexpected certificate %+v", cert)
		}
		if cert.SalaryInWords != "Twelve Thousand AED" {
			t.Errorf("Unexpected salary in words %q", cert.SalaryInWords)
		}
	}
}

func TestGenerateCertificate_ThirdPartyDenied(t *testing.T) {
	d, st := newTestDispatcher(t)
	ctx := context.Background()

	if _, err := st.CreateEmployee(ctx, store.Employee{
		EmployeeCode: "EMP-0001",
		FullName:     "Jane Smith",
		Email:        "jane@example.com",
		Grade:        "Grade 12",
	}, 18500); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	_, err := d.GenerateCertificate(ctx, empCaller("emp-other", "John Doe"), "Jane Smith")
	if !errors.Is(err, ErrNotPermitted) {
		t.Fatalf("Expected ErrNotPermitted, got %v", err)
	}

	// HR may request anyone's certificate.
	res, err := d.GenerateCertificate(ctx, hrCaller("hr-1"), "Jane Smith")
	if err != nil {
		t.Fatalf("GenerateCertificate failed for HR: %v", err)
	}
	if !res.Completed {
		t.Fatalf("Expected certificate, got %q", res.Message)
	}
}
