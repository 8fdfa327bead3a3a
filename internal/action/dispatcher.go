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

// Package action executes the write-side and document intents: employee
// creation, promotion, and salary certificate generation. Every operation
// enforces the caller's role before touching the store.
package action

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shyamddesai/HRChatBot/internal/identity"
	"github.com/shyamddesai/HRChatBot/internal/intent"
	"github.com/shyamddesai/HRChatBot/internal/store"
	"go.uber.org/zap"
)

// ErrNotPermitted marks an action the caller's role does not allow.
var ErrNotPermitted = errors.New("action not permitted for caller role")

// Result is the outcome of a dispatched action. Completed is false when the
// action needs more information from the user; Message then asks for it.
type Result struct {
	Message   string
	Completed bool
	Data      interface{}
}

// Certificate holds the fields rendered onto a salary certificate.
type Certificate struct {
	EmployeeName  string    `json:"employeeName"`
	EmployeeCode  string    `json:"employeeCode"`
	Grade         string    `json:"grade"`
	Department    string    `json:"department"`
	HireDate      time.Time `json:"hireDate"`
	BaseSalary    float64   `json:"baseSalary"`
	Currency      string    `json:"currency"`
	SalaryInWords string    `json:"salaryInWords"`
	IssuedOn      time.Time `json:"issuedOn"`
}

// Dispatcher routes action intents to the store with role checks applied.
type Dispatcher struct {
	store  *store.Store
	logger *zap.Logger

	// codeMu serializes employee-code generation with the insert that
	// consumes it. Held only across CreateEmployee's store calls.
	codeMu sync.Mutex
}

// NewDispatcher creates an action dispatcher.
func NewDispatcher(st *store.Store, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{store: st, logger: logger}
}

// CreateEmployee creates a new employee record. HR only.
func (d *Dispatcher) CreateEmployee(ctx context.Context, caller identity.Identity, p intent.CreateEmployeeParams) (*Result, error) {
	if !caller.IsHR() {
		return nil, fmt.Errorf("%w: create_employee requires the HR role", ErrNotPermitted)
	}

	var missing []string
	if strings.TrimSpace(p.FullName) == "" {
		missing = append(missing, "full name")
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(p.Grade) == "" {
		missing = append(missing, "grade")
	}
	if p.Salary <= 0 {
		missing = append(missing, "salary")
	}
	if len(missing) > 0 {
		return &Result{
			Message: "I need a bit more information to create the employee. Please provide: " +
				strings.Join(missing, ", ") + ".",
		}, nil
	}

	if existing, err := d.store.GetEmployeeByEmail(ctx, p.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return &Result{
			Message: fmt.Sprintf("An employee with email %s already exists (%s).", p.Email, existing.FullName),
		}, nil
	}

	d.codeMu.Lock()
	defer d.codeMu.Unlock()

	code, err := d.store.NextEmployeeCode(ctx)
	if err != nil {
		return nil, err
	}

	emp, err := d.store.CreateEmployee(ctx, store.Employee{
		EmployeeCode: code,
		FullName:     strings.TrimSpace(p.FullName),
		Email:        strings.TrimSpace(p.Email),
		Grade:        normalizeGrade(p.Grade),
		Department:   strings.TrimSpace(p.Department),
	}, p.Salary)
	if err != nil {
		return nil, err
	}

	d.logger.Info("Create employee action completed",
		zap.String("caller_id", caller.ID),
		zap.String("employee_code", emp.EmployeeCode),
	)

	return &Result{
		Message: fmt.Sprintf("Employee %s created with code %s at %s, salary AED %.0f.",
			emp.FullName, emp.EmployeeCode, emp.Grade, p.Salary),
		Completed: true,
		Data:      emp,
	}, nil
}

// PromoteEmployee updates an employee's grade and salary. HR only.
func (d *Dispatcher) PromoteEmployee(ctx context.Context, caller identity.Identity, p intent.PromoteEmployeeParams) (*Result, error) {
	if !caller.IsHR() {
		return nil, fmt.Errorf("%w: promote_employee requires the HR role", ErrNotPermitted)
	}

	var missing []string
	if strings.TrimSpace(p.EmployeeName) == "" {
		missing = append(missing, "employee name")
	}
	if strings.TrimSpace(p.NewGrade) == "" {
		missing = append(missing, "new grade")
	}
	if p.NewSalary <= 0 {
		missing = append(missing, "new salary")
	}
	if len(missing) > 0 {
		return &Result{
			Message: "I need a bit more information to process the promotion. Please provide: " +
				strings.Join(missing, ", ") + ".",
		}, nil
	}

	emp, err := d.store.FindEmployeeByName(ctx, p.EmployeeName)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return &Result{
			Message: fmt.Sprintf("I couldn't find an employee named %q.", p.EmployeeName),
		}, nil
	}

	newGrade := normalizeGrade(p.NewGrade)
	if err := d.store.PromoteEmployee(ctx, emp.ID, newGrade, p.NewSalary); err != nil {
		return nil, err
	}

	d.logger.Info("Promote employee action completed",
		zap.String("caller_id", caller.ID),
		zap.String("employee_id", emp.ID),
		zap.String("new_grade", newGrade),
	)

	return &Result{
		Message: fmt.Sprintf("%s has been promoted to %s with a new salary of AED %.0f.",
			emp.FullName, newGrade, p.NewSalary),
		Completed: true,
	}, nil
}

// GenerateCertificate assembles salary certificate data. Employees may only
// request their own certificate; HR may request anyone's.
func (d *Dispatcher) GenerateCertificate(ctx context.Context, caller identity.Identity, employeeName string) (*Result, error) {
	subject := strings.TrimSpace(employeeName)
	if isSelfReference(subject) {
		subject = caller.DisplayName
	}

	if !caller.IsHR() && !strings.EqualFold(subject, caller.DisplayName) {
		return nil, fmt.Errorf("%w: employees may only request their own certificate", ErrNotPermitted)
	}

	var emp *store.Employee
	var err error
	if subject == "" || strings.EqualFold(subject, caller.DisplayName) {
		emp, err = d.store.GetEmployeeByID(ctx, caller.ID)
	} else {
		emp, err = d.store.FindEmployeeByName(ctx, subject)
	}
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return &Result{
			Message: fmt.Sprintf("I couldn't find an employee record for %q.", subject),
		}, nil
	}

	sal, err := d.store.CurrentSalary(ctx, emp.ID)
	if err != nil {
		return nil, err
	}
	if sal == nil {
		return &Result{
			Message: fmt.Sprintf("No current salary is recorded for %s, so a certificate cannot be issued.", emp.FullName),
		}, nil
	}

	cert := Certificate{
		EmployeeName:  emp.FullName,
		EmployeeCode:  emp.EmployeeCode,
		Grade:         emp.Grade,
		Department:    emp.Department,
		HireDate:      emp.HireDate,
		BaseSalary:    sal.BaseSalary,
		Currency:      sal.Currency,
		SalaryInWords: NumberToWords(sal.BaseSalary) + " " + sal.Currency,
		IssuedOn:      time.Now().UTC(),
	}

	d.logger.Info("Certificate data generated",
		zap.String("caller_id", caller.ID),
		zap.String("employee_id", emp.ID),
	)

	return &Result{
		Message: fmt.Sprintf(
			"This is to certify that %s (%s), %s in %s, has been employed since %s and currently draws a monthly base salary of %s %.2f (%s).",
			cert.EmployeeName, cert.EmployeeCode, cert.Grade, cert.Department,
			cert.HireDate.Format("2 January 2006"), cert.Currency, cert.BaseSalary, cert.SalaryInWords),
		Completed: true,
		Data:      cert,
	}, nil
}

func isSelfReference(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "me", "my", "myself", "mine":
		return true
	}
	return false
}

// normalizeGrade accepts either "12" or "Grade 12" and returns the stored
// display form.
func normalizeGrade(g string) string {
	g = strings.TrimSpace(g)
	if n := store.ParseGradeNumber(g); n > 0 && !strings.HasPrefix(strings.ToLower(g), "grade") {
		return fmt.Sprintf("Grade %d", n)
	}
	return g
}
