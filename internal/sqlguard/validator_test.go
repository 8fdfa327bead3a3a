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

package sqlguard

import (
	"strings"
	"testing"

	"github.com/shyamddesai/HRChatBot/internal/identity"
)

func TestValidate_ForbiddenKeywords(t *testing.T) {
	// Every forbidden keyword must be rejected with the keyword named,
	// regardless of case or position.
	tests := []struct {
		name    string
		sql     string
		keyword string
	}{
		{"delete", "DELETE FROM employees", "DELETE"},
		{"drop", "SELECT * FROM employees; DROP TABLE employees;", "DROP"},
		{"truncate", "TRUNCATE TABLE salaries", "TRUNCATE"},
		{"update_lowercase", "update salaries set base_salary = 0", "UPDATE"},
		{"insert_mixed_case", "Insert INTO loans VALUES (1)", "INSERT"},
		{"alter", "ALTER TABLE employees ADD COLUMN x", "ALTER"},
		{"create", "CREATE TABLE x (id INT)", "CREATE"},
		{"grant", "GRANT ALL ON employees TO public", "GRANT"},
		{"revoke", "REVOKE ALL ON employees FROM public", "REVOKE"},
		{"keyword_mid_statement", "SELECT * FROM employees WHERE id IN (DELETE FROM x)", "DELETE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Validate(tt.sql, identity.RoleHR, "caller-1")
			if verdict.Accepted {
				t.Fatalf("Expected rejection for %q", tt.sql)
			}
			if !strings.Contains(verdict.Reason, tt.keyword) {
				t.Errorf("Expected reason to name keyword %s, got %q", tt.keyword, verdict.Reason)
			}
		})
	}
}

func TestValidate_KeywordAsSubstringAllowed(t *testing.T) {
	// Whole-word matching only: column and table names containing a
	// forbidden keyword as a substring must pass.
	tests := []string{
		"SELECT created_at FROM employees",
		"SELECT * FROM updates_log",
		"SELECT granted_days FROM leave_summaries",
	}

	for _, sql := range tests {
		verdict := Validate(sql, identity.RoleEmployee, "caller-1")
		if !verdict.Accepted {
			t.Errorf("Expected %q to be accepted, got rejection: %s", sql, verdict.Reason)
		}
	}
}

func TestValidate_NonSelect(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"with_clause", "WITH x AS (SELECT 1) SELECT * FROM x"},
		{"pragma", "PRAGMA table_info(employees)"},
		{"explain", "EXPLAIN SELECT * FROM employees"},
		{"empty", ""},
		{"whitespace_only", "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Validate(tt.sql, identity.RoleHR, "caller-1")
			if verdict.Accepted {
				t.Fatalf("Expected rejection for %q", tt.sql)
			}
		})
	}
}

func TestValidate_Comments(t *testing.T) {
	tests := []string{
		"SELECT * FROM employees -- hidden",
		"SELECT * FROM employees /* hidden */",
		"SELECT * FROM employees */",
	}

	for _, sql := range tests {
		verdict := Validate(sql, identity.RoleHR, "caller-1")
		if verdict.Accepted {
			t.Errorf("Expected comment sequence in %q to be rejected", sql)
		}
	}
}

func TestValidate_StatementStacking(t *testing.T) {
	verdict := Validate("SELECT 1; SELECT 2", identity.RoleHR, "caller-1")
	if verdict.Accepted {
		t.Fatal("Expected stacked statements to be rejected")
	}
	if !strings.Contains(verdict.Reason, "stacking") {
		t.Errorf("Expected stacking reason, got %q", verdict.Reason)
	}
}

func TestValidate_Accepted(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"simple", "SELECT * FROM employees"},
		{"trailing_semicolon", "SELECT * FROM employees;"},
		{"leading_whitespace", "  \n SELECT full_name FROM employees"},
		{"lowercase_select", "select base_salary from salaries where effective_to is null"},
		{"join_with_clauses", "SELECT e.full_name, s.base_salary FROM employees e JOIN salaries s ON s.employee_id = e.id WHERE s.effective_to IS NULL ORDER BY s.base_salary DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Validate(tt.sql, identity.RoleEmployee, "caller-1")
			if !verdict.Accepted {
				t.Errorf("Expected acceptance, got rejection: %s", verdict.Reason)
			}
			if verdict.Reason != "" {
				t.Errorf("Expected empty reason on acceptance, got %q", verdict.Reason)
			}
		})
	}
}

func TestValidate_KeywordCheckedBeforeStacking(t *testing.T) {
	// The stacked DROP statement from a classic injection attempt must be
	// reported as a keyword violation: the keyword gate runs first.
	verdict := Validate("SELECT * FROM Employees; DROP TABLE Employees;", identity.RoleHR, "caller-1")
	if verdict.Accepted {
		t.Fatal("Expected rejection")
	}
	if !strings.Contains(verdict.Reason, "DROP") {
		t.Errorf("Expected DROP named in reason, got %q", verdict.Reason)
	}
}
