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

// Package prompt builds the schema-aware system prompt and bounds the
// conversation history carried into each gateway call.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shyamddesai/HRChatBot/internal/identity"
)

const schemaCatalog = `Database schema (SQLite):

employees(id, employee_code, full_name, email, role, grade, grade_number, department, manager_id, status, hire_date, termination_date)
salaries(id, employee_id, base_salary, currency, effective_from, effective_to)
leave_requests(id, employee_id, start_date, end_date, type, status, reason, approved_by_id, created_at)
leave_summaries(employee_id, year, annual_entitlement, used_days, remaining_days)
loans(id, employee_id, loan_type, amount, interest_rate, tenure_months, monthly_deduction, status, start_date, end_date)
skills(id, name)
employee_skills(employee_id, skill_id, level)

Semantic notes:
- grade is stored as a display string like 'Grade 12'. For numeric comparisons ALWAYS use the grade_number column, never parse the grade text.
- The current salary row has effective_to IS NULL; historical rows carry a closed period. Salaries are monthly base amounts in AED.
- Employment status is 'Active' or 'Terminated'. loan status is 'Active' or 'Closed'. loan_type is 'Car', 'Housing' or 'Personal'.
- Employee names are in full_name; match them case-insensitively.`

const intentCatalog = `You must reply with EXACTLY ONE JSON object and nothing else. Supported intents:

1. General conversation (greetings, policy questions, anything that needs no data):
{"intent": "conversation", "response": "Hello! How can I help you today?"}

2. Data question that needs the database. Generate ONE read-only SQLite SELECT statement:
{"intent": "data_query", "sql": "SELECT s.employee_id, e.full_name, s.base_salary FROM employees e JOIN salaries s ON s.employee_id = e.id WHERE s.effective_to IS NULL", "explanation": "Current salary per employee"}

3. Loan eligibility check (NEVER answer eligibility yourself; the system computes it):
{"intent": "loan_eligibility", "loanType": "Car"}
Omit loanType or use "" to check all loan products.

4. Create a new employee record:
{"intent": "create_employee", "fullName": "Ada Lovelace", "email": "ada@example.com", "grade": "Grade 11", "salary": 12000, "department": "Engineering"}

5. Promote an existing employee:
{"intent": "promote_employee", "employeeName": "Ada Lovelace", "newGrade": "Grade 12", "newSalary": 16000}

6. Salary certificate request:
{"intent": "generate_certificate", "employeeName": "me"}

Rules for data_query SQL:
- A single SELECT statement only. No INSERT/UPDATE/DELETE/DDL, no comments, no multiple statements.
- When a query involves employee-owned data, include the owning employee_id (or employees.id) column in the select list.
- Include employee full_name columns in results where that helps the user.`

const employeeLockdown = `ACCESS RESTRICTIONS for this user (role Employee):
- Any query touching employees, salaries, leave_requests, leave_summaries, loans or employee_skills MUST filter to this user's own records (employee id '%s').
- If the user asks about ANY other person's data by name or email, do NOT generate SQL. Reply with a conversation intent politely refusing, e.g. {"intent": "conversation", "response": "I can only share your own information."}
- Loan eligibility, certificates and leave balances always refer to this user themselves.`

const hrNote = `This user has the HR role: they may query data across all employees, create employees, and process promotions.`

// BuildSystemPrompt composes the system turn for one request: role framing,
// the schema catalog, the intent catalog with literal response shapes, and
// the caller's access boundary.
func BuildSystemPrompt(id identity.Identity, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an intelligent HR Assistant for an internal HR system. Today's date is %s.\n",
		now.UTC().Format("2006-01-02"))
	fmt.Fprintf(&b, "Current user: %s <%s>, role %s, employee id %s.\n\n",
		id.DisplayName, id.Email, id.Role, id.ID)

	b.WriteString(schemaCatalog)
	b.WriteString("\n\n")
	b.WriteString(intentCatalog)
	b.WriteString("\n\n")

	if id.IsHR() {
		b.WriteString(hrNote)
	} else {
		fmt.Fprintf(&b, employeeLockdown, id.ID)
	}

	return b.String()
}
